package member

import (
	"errors"
	"strings"
)

// MaxNameLength bounds the display name.
const MaxNameLength = 100

// Status is the membership standing of a member.
type Status string

const (
	StatusActive   Status = "active"
	StatusFrozen   Status = "frozen"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusFrozen, StatusInactive:
		return true
	}
	return false
}

// Domain errors
var (
	ErrAlreadyFrozen = errors.New("member is already frozen")
	ErrNotFrozen     = errors.New("member is not frozen")
)

// Member holds state for the concept.
type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Status Status `json:"status"`
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty, Email (when set) must contain '@'
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("member name cannot be empty")
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return errors.New("member email must be valid")
	}
	if !m.Status.Valid() {
		return errors.New("status must be 'active', 'frozen', or 'inactive'")
	}
	return nil
}

// IsActive returns true if the member may book courses and check in.
// INVARIANT: Status field is not mutated
func (m *Member) IsActive() bool {
	return m.Status == StatusActive
}

// Freeze suspends an active member.
// PRE: Member is not already frozen
// POST: Status is set to frozen
func (m *Member) Freeze() error {
	if m.Status == StatusFrozen {
		return ErrAlreadyFrozen
	}
	m.Status = StatusFrozen
	return nil
}

// Unfreeze restores a frozen member to active.
// PRE: Member is currently frozen
// POST: Status is set to active
func (m *Member) Unfreeze() error {
	if m.Status != StatusFrozen {
		return ErrNotFrozen
	}
	m.Status = StatusActive
	return nil
}
