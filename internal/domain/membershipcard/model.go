package membershipcard

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a membership card.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusExpired  Status = "expired"
)

// Valid reports whether s is a known card status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusExpired:
		return true
	}
	return false
}

// Card types offered at the front desk.
const (
	TypeMonthly   = "monthly"
	TypeQuarterly = "quarterly"
	TypeAnnual    = "annual"
	TypeVisits    = "visits"
)

// Domain errors
var (
	ErrRenewNotLater = errors.New("renewal must extend the end date")
	ErrCardInactive  = errors.New("inactive cards cannot be renewed")
)

// Card holds state for the concept.
type Card struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	CardType  string    `json:"card_type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    Status    `json:"status"`
}

// Validate checks if the Card has valid data.
// PRE: Card struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: EndDate is not before StartDate
func (c *Card) Validate() error {
	if c.MemberID == "" {
		return errors.New("card must belong to a member")
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return errors.New("card start and end dates must be set")
	}
	if c.EndDate.Before(c.StartDate) {
		return errors.New("card end date cannot be before start date")
	}
	if !c.Status.Valid() {
		return errors.New("status must be 'active', 'inactive', or 'expired'")
	}
	return nil
}

// IsValidAt reports whether the card grants access at now.
// A card is valid iff it is active and now is not after EndDate.
func (c *Card) IsValidAt(now time.Time) bool {
	return c.Status == StatusActive && !now.After(c.EndDate)
}

// IsLapsed reports whether an active card has passed its end date.
func (c *Card) IsLapsed(now time.Time) bool {
	return c.Status == StatusActive && now.After(c.EndDate)
}

// Renew extends the card to newEnd and reactivates an expired card.
// PRE: newEnd is after the current EndDate, card is not inactive
// POST: EndDate = newEnd, Status = active
func (c *Card) Renew(newEnd time.Time) error {
	if c.Status == StatusInactive {
		return ErrCardInactive
	}
	if !newEnd.After(c.EndDate) {
		return ErrRenewNotLater
	}
	c.EndDate = newEnd
	c.Status = StatusActive
	return nil
}

// RemainingDays returns whole days until EndDate, 0 once lapsed.
func (c *Card) RemainingDays(now time.Time) int {
	if now.After(c.EndDate) {
		return 0
	}
	return int(c.EndDate.Sub(now).Hours() / 24)
}
