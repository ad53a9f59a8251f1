// Package ports defines the interfaces the scoring domain needs from the
// customer record store. They are shaped by what scoring consumes, not by
// what the customers module offers.
package ports

import (
	"context"
	"time"

	"clientflow_backend/internal/scoring/domain"

	"github.com/google/uuid"
)

// ScoredCustomer is a customer as the scoring engine sees it: identity,
// the stored lead score and the resolved attribute snapshot.
type ScoredCustomer struct {
	ID        uuid.UUID
	Name      string
	Company   string
	LeadScore int
	Subject   domain.Subject
}

// ScoreUpdate is a new lead score for one customer together with the
// history entry that records it.
type ScoreUpdate struct {
	CustomerID uuid.UUID
	Name       string
	Previous   int
	Score      int
	Date       time.Time
	Reason     string
}

// CustomerReader lists customers with their scoring attributes resolved.
type CustomerReader interface {
	// ListScoredCustomers returns every customer in store order.
	ListScoredCustomers(ctx context.Context) ([]ScoredCustomer, error)
	// GetScoredCustomer returns one customer. Unknown IDs are NotFound.
	GetScoredCustomer(ctx context.Context, id uuid.UUID) (ScoredCustomer, error)
}

// ScoreWriter persists a new lead score. Each call is one store update for
// one customer: the score is set and the history entry appended.
type ScoreWriter interface {
	ApplyScore(ctx context.Context, update ScoreUpdate) error
}

// CustomerStore is everything scoring needs from the record store.
type CustomerStore interface {
	CustomerReader
	ScoreWriter
}
