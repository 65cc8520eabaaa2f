package booking

import (
	"encoding/json"
	"errors"
	"time"
)

// Status is the reservation lifecycle state.
//
//	pending -> confirmed -> cancelled
//	pending -> cancelled
//
// Nothing leaves cancelled.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus converts free text (e.g. a query parameter) into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", errors.New("status must be 'pending', 'confirmed', or 'cancelled'")
	}
	return st, nil
}

// MaxReasonLength bounds the cancellation reason.
const MaxReasonLength = 500

// Transition errors
var (
	ErrNotPending       = errors.New("only pending bookings can be confirmed")
	ErrAlreadyConfirmed = errors.New("booking is already confirmed")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotCancelled     = errors.New("only cancelled bookings can be deleted")
	ErrReasonTooLong    = errors.New("cancellation reason cannot exceed 500 characters")
)

// Booking is a member's reservation for a course.
type Booking struct {
	ID           string    `json:"id"`
	MemberID     string    `json:"member_id"`
	CourseID     string    `json:"course_id"`
	Status       Status    `json:"status"`
	BookingTime  time.Time `json:"booking_time"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
	CancelledAt  time.Time `json:"cancelled_at"`
	CancelReason string    `json:"cancel_reason,omitempty"`
}

// MarshalJSON renders unset confirmation and cancellation times as null.
func (b Booking) MarshalJSON() ([]byte, error) {
	type plain Booking
	return json.Marshal(struct {
		plain
		ConfirmedAt *time.Time `json:"confirmed_at"`
		CancelledAt *time.Time `json:"cancelled_at"`
	}{plain(b), nullableTime(b.ConfirmedAt), nullableTime(b.CancelledAt)})
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Validate checks if the Booking has valid data.
// PRE: Booking struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (b *Booking) Validate() error {
	if b.MemberID == "" {
		return errors.New("booking must be associated with a member")
	}
	if b.CourseID == "" {
		return errors.New("booking must be associated with a course")
	}
	if b.BookingTime.IsZero() {
		return errors.New("booking time must be set")
	}
	if !b.Status.Valid() {
		return errors.New("status must be 'pending', 'confirmed', or 'cancelled'")
	}
	if len(b.CancelReason) > MaxReasonLength {
		return ErrReasonTooLong
	}
	return nil
}

// IsActive reports whether the booking still counts against the
// one-active-booking-per-member-and-course rule.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// HoldsSeat reports whether the booking consumes course capacity.
// Only confirmed bookings do; pending requests never hold a seat.
func (b *Booking) HoldsSeat() bool {
	return b.Status == StatusConfirmed
}

// Confirm moves a pending booking to confirmed.
// PRE: Status is pending
// POST: Status is confirmed, ConfirmedAt = now
func (b *Booking) Confirm(now time.Time) error {
	switch b.Status {
	case StatusPending:
	case StatusConfirmed:
		return ErrAlreadyConfirmed
	case StatusCancelled:
		return ErrAlreadyCancelled
	default:
		return ErrNotPending
	}
	b.Status = StatusConfirmed
	b.ConfirmedAt = now
	return nil
}

// Cancel moves any non-cancelled booking to cancelled.
// PRE: Status is not cancelled
// POST: Status is cancelled, CancelledAt = now, CancelReason = reason
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if len(reason) > MaxReasonLength {
		return ErrReasonTooLong
	}
	b.Status = StatusCancelled
	b.CancelledAt = now
	b.CancelReason = reason
	return nil
}

// CanDelete reports whether a hard delete is allowed.
// Active and confirmed reservations are kept for audit history.
func (b *Booking) CanDelete() error {
	if b.Status != StatusCancelled {
		return ErrNotCancelled
	}
	return nil
}
