package checkin

import (
	"context"
	"time"

	domain "fitclub/internal/domain/checkin"
)

// Store persists facility check-in sessions.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.CheckIn, error)
	Create(ctx context.Context, value domain.CheckIn) error
	GetOpenByMemberID(ctx context.Context, memberID string) (domain.CheckIn, error)
	CheckOut(ctx context.Context, value domain.CheckIn) error
	ListOpen(ctx context.Context) ([]domain.CheckIn, error)
	ListByMemberID(ctx context.Context, memberID string) ([]domain.CheckIn, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.CheckIn, error)
	ListByMemberIDAndDateRange(ctx context.Context, memberID string, from, to time.Time) ([]domain.CheckIn, error)
	CloseOverdue(ctx context.Context, cutoff, now time.Time) ([]domain.CheckIn, error)
}
