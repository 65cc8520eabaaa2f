package checkin

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// State is the derived session state of a check-in record.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Domain errors
var (
	ErrAlreadyCheckedOut = errors.New("session is already checked out")
	ErrCheckOutBeforeIn  = errors.New("check-out time cannot be before check-in time")
)

// CheckIn is one facility visit.
type CheckIn struct {
	ID           string    `json:"id"`
	MemberID     string    `json:"member_id"`
	CheckInTime  time.Time `json:"check_in_time"`
	CheckOutTime time.Time `json:"check_out_time"` // zero while the session is open
	AutoClosed   bool      `json:"auto_closed"`    // closed by the overtime sweep rather than the member
}

// MarshalJSON renders an open session's check-out time as null.
func (c CheckIn) MarshalJSON() ([]byte, error) {
	type plain CheckIn
	return json.Marshal(struct {
		plain
		CheckOutTime *time.Time `json:"check_out_time"`
	}{plain(c), nullableTime(c.CheckOutTime)})
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Validate checks if the CheckIn has valid data.
// PRE: CheckIn struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MemberID must not be empty, CheckInTime must be set
func (c *CheckIn) Validate() error {
	if c.MemberID == "" {
		return errors.New("check-in must be associated with a member")
	}
	if c.CheckInTime.IsZero() {
		return errors.New("check-in time must be set")
	}
	if !c.CheckOutTime.IsZero() && c.CheckOutTime.Before(c.CheckInTime) {
		return ErrCheckOutBeforeIn
	}
	return nil
}

// State returns open until a check-out time is recorded.
func (c *CheckIn) State() State {
	if c.IsCheckedOut() {
		return StateClosed
	}
	return StateOpen
}

// IsCheckedOut returns true if the member has checked out.
func (c *CheckIn) IsCheckedOut() bool {
	return !c.CheckOutTime.IsZero()
}

// CheckOut closes the session at now.
// PRE: session is open, now is not before CheckInTime
// POST: CheckOutTime = now
func (c *CheckIn) CheckOut(now time.Time) error {
	if c.IsCheckedOut() {
		return ErrAlreadyCheckedOut
	}
	if now.Before(c.CheckInTime) {
		return ErrCheckOutBeforeIn
	}
	c.CheckOutTime = now
	return nil
}

// Duration returns the session length, or the time elapsed up to now
// while the session is still open.
func (c *CheckIn) Duration(now time.Time) time.Duration {
	if c.IsCheckedOut() {
		return c.CheckOutTime.Sub(c.CheckInTime)
	}
	return now.Sub(c.CheckInTime)
}

// IsOvertime reports whether an open session has run longer than limit.
func (c *CheckIn) IsOvertime(now time.Time, limit time.Duration) bool {
	return !c.IsCheckedOut() && now.Sub(c.CheckInTime) > limit
}

// DurationMinutes truncates d to whole minutes.
func DurationMinutes(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Minute)
}

// FormatMinutes renders a duration for display, e.g. "1h 30m" or "45m".
func FormatMinutes(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
