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

// ErrNotBookingOwner rejects a member cancelling someone else's booking.
var ErrNotBookingOwner = failure.InvalidState("booking belongs to another member")

// BookingCanceller is the booking store surface needed to cancel bookings.
type BookingCanceller interface {
	GetByID(ctx context.Context, id string) (booking.Booking, error)
	Cancel(ctx context.Context, value booking.Booking, prior booking.Status) error
}

// CourseReader reads a course by id.
type CourseReader interface {
	GetByID(ctx context.Context, id string) (course.Course, error)
}

// CancelBookingInput carries input for the cancel booking orchestrator.
type CancelBookingInput struct {
	BookingID     string
	Reason        string
	ActorMemberID string // set when a member cancels their own booking; empty for staff
}

// CancelBookingDeps holds dependencies for CancelBooking and BatchCancelBookings.
type CancelBookingDeps struct {
	BookingStore BookingCanceller
	MemberStore  MemberLookup     // optional: needed for member notification
	CourseStore  CourseReader     // optional: needed for member notification
	Events       events.Publisher // optional
	Mailer       email.Sender     // optional
	Now          func() time.Time
}

// ExecuteCancelBooking cancels a pending or confirmed booking.
// PRE: BookingID refers to a booking that is not cancelled
// POST: Status is cancelled; a confirmed booking's seat is free immediately
func ExecuteCancelBooking(ctx context.Context, input CancelBookingInput, deps CancelBookingDeps) (booking.Booking, error) {
	b, notice, err := cancelBooking(ctx, input, deps)
	if err != nil {
		return booking.Booking{}, err
	}
	if notice != nil {
		if _, err := deps.Mailer.Send(ctx, *notice); err != nil {
			log.Warn().Err(err).Str("booking_id", b.ID).Msg("booking_cancellation_email_failed")
		}
	}
	return b, nil
}

func cancelBooking(ctx context.Context, input CancelBookingInput, deps CancelBookingDeps) (booking.Booking, *email.SendRequest, error) {
	now := nowOr(deps.Now)
	b, err := deps.BookingStore.GetByID(ctx, input.BookingID)
	if err != nil {
		return booking.Booking{}, nil, lookupErr(err, ErrBookingNotFound)
	}
	if input.ActorMemberID != "" && input.ActorMemberID != b.MemberID {
		return booking.Booking{}, nil, ErrNotBookingOwner
	}

	prior := b.Status
	if err := b.Cancel(input.Reason, now); err != nil {
		return booking.Booking{}, nil, transitionErr(err)
	}

	if err := deps.BookingStore.Cancel(ctx, b, prior); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return booking.Booking{}, nil, ErrBookingChanged
		}
		return booking.Booking{}, nil, failure.Store(err)
	}

	log.Info().Str("event", "booking_cancelled").Str("booking_id", b.ID).Str("member_id", b.MemberID).Str("course_id", b.CourseID).Str("prior", string(prior)).Bool("by_member", input.ActorMemberID != "").Msg("booking_event")
	publish(ctx, deps.Events, events.Event{Type: events.BookingCancelled, OccurredAt: now, MemberID: b.MemberID, CourseID: b.CourseID, BookingID: b.ID})

	return b, cancellationNotice(ctx, b, deps), nil
}

func cancellationNotice(ctx context.Context, b booking.Booking, deps CancelBookingDeps) *email.SendRequest {
	if deps.Mailer == nil || deps.MemberStore == nil || deps.CourseStore == nil {
		return nil
	}
	m, err := deps.MemberStore.GetByID(ctx, b.MemberID)
	if err != nil || m.Email == "" {
		return nil
	}
	c, err := deps.CourseStore.GetByID(ctx, b.CourseID)
	if err != nil {
		return nil
	}
	req, err := email.BookingCancelled(email.BookingNotice{MemberName: m.Name, MemberEmail: m.Email, CourseName: c.Name, CourseTime: c.CourseTime, Reason: b.CancelReason})
	if err != nil {
		return nil
	}
	return &req
}
