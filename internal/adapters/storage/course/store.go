package course

import (
	"context"
	"time"

	domain "fitclub/internal/domain/course"
)

// Store persists courses and their confirmed-seat counter.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Course, error)
	Save(ctx context.Context, value domain.Course) error
	List(ctx context.Context, from, to time.Time) ([]domain.Course, error)
	// CountConfirmed counts confirmed bookings, the source of truth for availability.
	CountConfirmed(ctx context.Context, courseID string) (int, error)
	UpdateCapacity(ctx context.Context, id string, capacity int) error
}
