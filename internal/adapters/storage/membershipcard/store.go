package membershipcard

import (
	"context"
	"time"

	domain "fitclub/internal/domain/membershipcard"
)

// Store persists membership cards.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Card, error)
	Save(ctx context.Context, value domain.Card) error
	// GetActiveByMemberID returns the active card with the latest end date.
	GetActiveByMemberID(ctx context.Context, memberID string) (domain.Card, error)
	ListByMemberID(ctx context.Context, memberID string) ([]domain.Card, error)
	ExpireLapsed(ctx context.Context, now time.Time) (int, error)
}
