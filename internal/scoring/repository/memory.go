package repository

import (
	"context"
	"sync"

	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/platform/apperr"

	"github.com/google/uuid"
)

const msgCriterionNotFound = "scoring criterion not found"

// MemoryRepository holds the criteria set of one session. There is no
// process-wide instance; every session constructs its own.
type MemoryRepository struct {
	mu       sync.RWMutex
	criteria []domain.Criterion
}

// NewMemoryRepository creates a store seeded with copies of seed.
func NewMemoryRepository(seed []domain.Criterion) *MemoryRepository {
	return &MemoryRepository{criteria: domain.CloneAll(seed)}
}

func (r *MemoryRepository) index(id uuid.UUID) int {
	for i := range r.criteria {
		if r.criteria[i].ID == id {
			return i
		}
	}
	return -1
}

// List returns a deep copy of the criteria in order.
func (r *MemoryRepository) List(_ context.Context) ([]domain.Criterion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.CloneAll(r.criteria), nil
}

// GetByID returns the criterion with id.
func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Criterion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.index(id)
	if idx < 0 {
		return domain.Criterion{}, apperr.NotFound(msgCriterionNotFound).WithOp("GetByID")
	}
	return r.criteria[idx].Clone(), nil
}

// Create appends c. A nil ID is replaced with a fresh one.
func (r *MemoryRepository) Create(_ context.Context, c domain.Criterion) (domain.Criterion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if r.index(c.ID) >= 0 {
		return domain.Criterion{}, apperr.Conflict("scoring criterion already exists").WithOp("Create")
	}
	r.criteria = append(r.criteria, c.Clone())
	return c.Clone(), nil
}

// Update replaces the criterion with the same ID, keeping its position.
func (r *MemoryRepository) Update(_ context.Context, c domain.Criterion) (domain.Criterion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(c.ID)
	if idx < 0 {
		return domain.Criterion{}, apperr.NotFound(msgCriterionNotFound).WithOp("Update")
	}
	r.criteria[idx] = c.Clone()
	return c.Clone(), nil
}

// Delete removes the criterion with id.
func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(id)
	if idx < 0 {
		return apperr.NotFound(msgCriterionNotFound).WithOp("Delete")
	}
	r.criteria = append(r.criteria[:idx], r.criteria[idx+1:]...)
	return nil
}

// SetWeight changes one criterion's weight. Other weights are not touched.
func (r *MemoryRepository) SetWeight(_ context.Context, id uuid.UUID, weight int) (domain.Criterion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(id)
	if idx < 0 {
		return domain.Criterion{}, apperr.NotFound(msgCriterionNotFound).WithOp("SetWeight")
	}
	r.criteria[idx].Weight = weight
	return r.criteria[idx].Clone(), nil
}

// Replace swaps the whole set.
func (r *MemoryRepository) Replace(_ context.Context, criteria []domain.Criterion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.criteria = domain.CloneAll(criteria)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
