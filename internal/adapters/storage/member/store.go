package member

import (
	"context"

	domain "fitclub/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	SearchByName(ctx context.Context, query string, limit int) ([]domain.Member, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Status domain.Status
}
