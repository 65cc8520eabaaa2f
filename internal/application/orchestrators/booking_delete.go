package orchestrators

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"fitclub/internal/adapters/events"
	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/booking"
	"fitclub/internal/domain/failure"
)

// BookingDeleter is the booking store surface needed for hard deletes.
type BookingDeleter interface {
	GetByID(ctx context.Context, id string) (booking.Booking, error)
	Delete(ctx context.Context, id string) error
}

// DeleteBookingDeps holds dependencies for DeleteBooking.
type DeleteBookingDeps struct {
	BookingStore BookingDeleter
	Events       events.Publisher // optional
	Now          func() time.Time
}

// ExecuteDeleteBooking removes a cancelled booking.
// PRE: bookingID refers to a cancelled booking
// POST: Booking row is gone; pending and confirmed bookings are never deleted
func ExecuteDeleteBooking(ctx context.Context, bookingID string, deps DeleteBookingDeps) error {
	b, err := deps.BookingStore.GetByID(ctx, bookingID)
	if err != nil {
		return lookupErr(err, ErrBookingNotFound)
	}
	if err := b.CanDelete(); err != nil {
		return transitionErr(err)
	}

	err = deps.BookingStore.Delete(ctx, bookingID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrBookingNotFound
	case errors.Is(err, storage.ErrConflict):
		return failure.Wrap(failure.KindInvalidState, booking.ErrNotCancelled.Error(), err)
	case err != nil:
		return failure.Store(err)
	}

	log.Info().Str("event", "booking_deleted").Str("booking_id", b.ID).Str("member_id", b.MemberID).Msg("booking_event")
	publish(ctx, deps.Events, events.Event{Type: events.BookingDeleted, OccurredAt: nowOr(deps.Now), MemberID: b.MemberID, CourseID: b.CourseID, BookingID: b.ID})
	return nil
}
