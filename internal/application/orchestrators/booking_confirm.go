package orchestrators

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/email"
	"fitclub/internal/adapters/events"
	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/booking"
	"fitclub/internal/domain/course"
	"fitclub/internal/domain/failure"
)

// BookingConfirmer is the booking store surface needed to confirm bookings.
type BookingConfirmer interface {
	GetByID(ctx context.Context, id string) (booking.Booking, error)
	Confirm(ctx context.Context, value booking.Booking) error
}

// ConfirmBookingDeps holds dependencies for ConfirmBooking and BatchConfirmBookings.
type ConfirmBookingDeps struct {
	MemberStore  MemberLookup
	CardStore    ActiveCardLookup
	CourseStore  CourseLookup
	BookingStore BookingConfirmer
	Events       events.Publisher // optional
	Mailer       email.Sender     // optional: nil skips member notification
	Now          func() time.Time
}

// ExecuteConfirmBooking commits a pending booking and takes a seat.
// PRE: bookingID refers to a pending booking
// POST: Booking is confirmed and the course has one seat less, or nothing changed
// INVARIANT: confirmed bookings never exceed course capacity
func ExecuteConfirmBooking(ctx context.Context, bookingID string, deps ConfirmBookingDeps) (booking.Booking, error) {
	b, notice, err := confirmBooking(ctx, bookingID, deps)
	if err != nil {
		return booking.Booking{}, err
	}
	if notice != nil && deps.Mailer != nil {
		if _, err := deps.Mailer.Send(ctx, *notice); err != nil {
			log.Warn().Err(err).Str("booking_id", b.ID).Msg("booking_confirmation_email_failed")
		}
	}
	return b, nil
}

// confirmBooking runs the confirmation and builds the member notice
// without sending it.
func confirmBooking(ctx context.Context, bookingID string, deps ConfirmBookingDeps) (booking.Booking, *email.SendRequest, error) {
	now := nowOr(deps.Now)
	b, err := deps.BookingStore.GetByID(ctx, bookingID)
	if err != nil {
		return booking.Booking{}, nil, lookupErr(err, ErrBookingNotFound)
	}
	if err := b.Confirm(now); err != nil {
		return booking.Booking{}, nil, transitionErr(err)
	}

	// The gate and capacity are evaluated again here: both may have
	// changed since the booking was requested.
	gate := MembershipValidityDeps{MemberStore: deps.MemberStore, CardStore: deps.CardStore, Now: func() time.Time { return now }}
	m, err := requireValidMembership(ctx, b.MemberID, gate)
	if err != nil {
		return booking.Booking{}, nil, err
	}
	slots, err := ExecuteAvailableSlots(ctx, b.CourseID, CapacityDeps{CourseStore: deps.CourseStore})
	if err != nil {
		return booking.Booking{}, nil, err
	}
	if slots == course.CapacitySentinel {
		return booking.Booking{}, nil, ErrCourseNotFound
	}
	if slots <= 0 {
		return booking.Booking{}, nil, ErrCourseFull
	}

	err = deps.BookingStore.Confirm(ctx, b)
	switch {
	case errors.Is(err, storage.ErrCapacityReached):
		log.Info().Str("booking_id", b.ID).Str("course_id", b.CourseID).Msg("booking_confirm_lost_last_seat")
		return booking.Booking{}, nil, ErrCourseFull
	case errors.Is(err, storage.ErrConflict):
		return booking.Booking{}, nil, ErrBookingChanged
	case err != nil:
		return booking.Booking{}, nil, failure.Store(err)
	}

	log.Info().Str("event", "booking_confirmed").Str("booking_id", b.ID).Str("member_id", b.MemberID).Str("course_id", b.CourseID).Msg("booking_event")
	publish(ctx, deps.Events, events.Event{Type: events.BookingConfirmed, OccurredAt: now, MemberID: b.MemberID, CourseID: b.CourseID, BookingID: b.ID})

	var notice *email.SendRequest
	if m.Email != "" && deps.Mailer != nil {
		if c, err := deps.CourseStore.GetByID(ctx, b.CourseID); err == nil {
			req, err := email.BookingConfirmed(email.BookingNotice{MemberName: m.Name, MemberEmail: m.Email, CourseName: c.Name, CourseTime: c.CourseTime})
			if err == nil {
				notice = &req
			}
		}
	}
	return b, notice, nil
}
