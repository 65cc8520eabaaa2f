package orchestrators

import (
	"context"
	"time"

	"fitclub/internal/adapters/storage"
	"fitclub/internal/domain/booking"
	"fitclub/internal/domain/failure"
)

// BookingReader is the booking store surface needed for booking queries.
type BookingReader interface {
	GetByID(ctx context.Context, id string) (booking.Booking, error)
	ListByMember(ctx context.Context, memberID string) ([]booking.Booking, error)
	ListByCourse(ctx context.Context, courseID string) ([]booking.Booking, error)
	ListByStatus(ctx context.Context, status booking.Status) ([]booking.Booking, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]booking.Booking, error)
}

// BookingQueryDeps holds dependencies for booking queries.
type BookingQueryDeps struct {
	BookingStore BookingReader
	Now          func() time.Time // local clock; defines "today"
}

// ExecuteGetBooking returns one booking.
func ExecuteGetBooking(ctx context.Context, bookingID string, deps BookingQueryDeps) (booking.Booking, error) {
	b, err := deps.BookingStore.GetByID(ctx, bookingID)
	if err != nil {
		return booking.Booking{}, lookupErr(err, ErrBookingNotFound)
	}
	return b, nil
}

// ListBookingsInput selects bookings. Every non-empty field narrows the
// result; From and To must be set together and exclude Today.
type ListBookingsInput struct {
	MemberID string
	CourseID string
	Status   booking.Status
	From     time.Time
	To       time.Time
	Today    bool // bookings made during the current local calendar day
}

// ExecuteListBookings returns the bookings matching every given filter,
// ordered by booking time.
// PRE: at least one filter is set
// POST: Returns an empty, non-nil slice when nothing matches
func ExecuteListBookings(ctx context.Context, input ListBookingsInput, deps BookingQueryDeps) ([]booking.Booking, error) {
	if input.Today && !input.From.IsZero() {
		return nil, failure.Validation("choose either today or a date range, not both")
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, failure.Validation("status must be 'pending', 'confirmed', or 'cancelled'")
	}
	if input.From.IsZero() != input.To.IsZero() {
		return nil, failure.Validation("date range needs both a start and an end")
	}
	if !input.From.IsZero() && !input.To.After(input.From) {
		return nil, failure.Validation("date range end must be after its start")
	}
	if input.Today {
		input.From, input.To = storage.DayBounds(nowOr(deps.Now))
	}

	var (
		list []booking.Booking
		err  error
	)
	switch {
	case input.MemberID != "":
		list, err = deps.BookingStore.ListByMember(ctx, input.MemberID)
	case input.CourseID != "":
		list, err = deps.BookingStore.ListByCourse(ctx, input.CourseID)
	case !input.From.IsZero():
		list, err = deps.BookingStore.ListByDateRange(ctx, input.From, input.To)
	case input.Status != "":
		list, err = deps.BookingStore.ListByStatus(ctx, input.Status)
	default:
		return nil, failure.Validation("choose a member, course, status or date range")
	}
	if err != nil {
		return nil, failure.Store(err)
	}

	out := make([]booking.Booking, 0, len(list))
	for _, b := range list {
		if input.MemberID != "" && b.MemberID != input.MemberID {
			continue
		}
		if input.CourseID != "" && b.CourseID != input.CourseID {
			continue
		}
		if input.Status != "" && b.Status != input.Status {
			continue
		}
		if !input.From.IsZero() && (b.BookingTime.Before(input.From) || !b.BookingTime.Before(input.To)) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
