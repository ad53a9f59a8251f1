package repository

import (
	"context"

	"clientflow_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

// CriteriaReader exposes the active criteria set in order.
type CriteriaReader interface {
	List(ctx context.Context) ([]domain.Criterion, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Criterion, error)
}

// CriteriaWriter mutates the active criteria set.
type CriteriaWriter interface {
	Create(ctx context.Context, c domain.Criterion) (domain.Criterion, error)
	Update(ctx context.Context, c domain.Criterion) (domain.Criterion, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetWeight(ctx context.Context, id uuid.UUID, weight int) (domain.Criterion, error)
	Replace(ctx context.Context, criteria []domain.Criterion) error
}

// Repository is the scoring criteria store.
type Repository interface {
	CriteriaReader
	CriteriaWriter
}
