package orchestrators

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/events"
	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/booking"
	"fitclub/internal/domain/course"
	"fitclub/internal/domain/failure"
)

// Booking rejections.
var (
	ErrBookingNotFound  = failure.NotFound("booking not found")
	ErrDuplicateBooking = failure.Constraint("member already has an active booking for this course")
	ErrBookingChanged   = failure.InvalidState("booking was changed by another request, please retry")
)

// BookingCreator is the booking store surface needed to create bookings.
type BookingCreator interface {
	FindActive(ctx context.Context, memberID, courseID string) (booking.Booking, error)
	Create(ctx context.Context, value booking.Booking) error
}

// CreateBookingInput carries input for the create booking orchestrator.
type CreateBookingInput struct {
	MemberID string
	CourseID string
}

// CreateBookingDeps holds dependencies for CreateBooking.
type CreateBookingDeps struct {
	MemberStore  MemberLookup
	CardStore    ActiveCardLookup
	CourseStore  CourseLookup
	BookingStore BookingCreator
	Events       events.Publisher // optional
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteCreateBooking records a member's request for a seat.
// PRE: MemberID and CourseID are non-empty
// POST: A pending booking with BookingTime=now is stored
// INVARIANT: at most one non-cancelled booking per member and course
func ExecuteCreateBooking(ctx context.Context, input CreateBookingInput, deps CreateBookingDeps) (booking.Booking, error) {
	now := nowOr(deps.Now)
	gate := MembershipValidityDeps{MemberStore: deps.MemberStore, CardStore: deps.CardStore, Now: func() time.Time { return now }}
	if _, err := requireValidMembership(ctx, input.MemberID, gate); err != nil {
		return booking.Booking{}, err
	}

	slots, err := ExecuteAvailableSlots(ctx, input.CourseID, CapacityDeps{CourseStore: deps.CourseStore})
	if err != nil {
		return booking.Booking{}, err
	}
	if slots == course.CapacitySentinel {
		return booking.Booking{}, ErrCourseNotFound
	}
	if slots <= 0 {
		return booking.Booking{}, ErrCourseFull
	}

	_, err = deps.BookingStore.FindActive(ctx, input.MemberID, input.CourseID)
	switch {
	case err == nil:
		return booking.Booking{}, ErrDuplicateBooking
	case !errors.Is(err, storage.ErrNotFound):
		return booking.Booking{}, failure.Store(err)
	}

	b := booking.Booking{
		ID:          idOr(deps.GenerateID),
		MemberID:    input.MemberID,
		CourseID:    input.CourseID,
		Status:      booking.StatusPending,
		BookingTime: now,
	}
	if err := b.Validate(); err != nil {
		return booking.Booking{}, failure.Wrap(failure.KindValidation, err.Error(), err)
	}

	if err := deps.BookingStore.Create(ctx, b); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return booking.Booking{}, ErrDuplicateBooking
		}
		return booking.Booking{}, failure.Store(err)
	}

	log.Info().Str("event", "booking_created").Str("booking_id", b.ID).Str("member_id", b.MemberID).Str("course_id", b.CourseID).Msg("booking_event")
	publish(ctx, deps.Events, events.Event{Type: events.BookingCreated, OccurredAt: now, MemberID: b.MemberID, CourseID: b.CourseID, BookingID: b.ID})
	return b, nil
}

// transitionErr maps a booking state machine error to a display failure.
func transitionErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrReasonTooLong):
		return failure.Wrap(failure.KindValidation, err.Error(), err)
	default:
		return failure.Wrap(failure.KindInvalidState, err.Error(), err)
	}
}
