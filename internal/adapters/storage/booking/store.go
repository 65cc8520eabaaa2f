package booking

import (
	"context"
	"time"

	domain "fitclub/internal/domain/booking"
)

// Store persists bookings. Confirm and Cancel are the commit points for
// the course seat counter and run in a single transaction each.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Booking, error)
	Create(ctx context.Context, value domain.Booking) error
	FindActive(ctx context.Context, memberID, courseID string) (domain.Booking, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.Booking, error)
	ListByCourse(ctx context.Context, courseID string) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Booking, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	Confirm(ctx context.Context, value domain.Booking) error
	Cancel(ctx context.Context, value domain.Booking, prior domain.Status) error
	Delete(ctx context.Context, id string) error
}
