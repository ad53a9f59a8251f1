package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	custrepo "clientflow_backend/internal/customers/repository"
	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/internal/scoring/ports"
)

// ScoringCustomerStore adapts the customers repository for the scoring
// domain. It resolves each customer's scoring attributes, including the
// deal value taken from the customer's deals, and writes new lead scores
// back. It implements scoring/ports.CustomerStore.
type ScoringCustomerStore struct {
	repo custrepo.Repository
}

// NewScoringCustomerStore creates a new customer store adapter.
func NewScoringCustomerStore(repo custrepo.Repository) *ScoringCustomerStore {
	return &ScoringCustomerStore{repo: repo}
}

// ListScoredCustomers returns every customer in store order.
func (a *ScoringCustomerStore) ListScoredCustomers(ctx context.Context) ([]ports.ScoredCustomer, error) {
	customers, err := a.repo.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoring adapter: list customers: %w", err)
	}
	deals, err := a.repo.ListDeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoring adapter: list deals: %w", err)
	}

	byCustomer := make(map[uuid.UUID][]custrepo.Deal, len(customers))
	for _, d := range deals {
		byCustomer[d.CustomerID] = append(byCustomer[d.CustomerID], d)
	}

	out := make([]ports.ScoredCustomer, 0, len(customers))
	for _, c := range customers {
		out = append(out, toScoredCustomer(c, byCustomer[c.ID]))
	}
	return out, nil
}

// GetScoredCustomer returns one customer with its attributes resolved.
func (a *ScoringCustomerStore) GetScoredCustomer(ctx context.Context, id uuid.UUID) (ports.ScoredCustomer, error) {
	c, err := a.repo.GetCustomer(ctx, id)
	if err != nil {
		return ports.ScoredCustomer{}, fmt.Errorf("scoring adapter: get customer: %w", err)
	}
	deals, err := a.repo.ListDealsByCustomer(ctx, id)
	if err != nil {
		return ports.ScoredCustomer{}, fmt.Errorf("scoring adapter: list deals: %w", err)
	}
	return toScoredCustomer(c, deals), nil
}

// ApplyScore sets the lead score and appends the history entry in a single
// customer update.
func (a *ScoringCustomerStore) ApplyScore(ctx context.Context, update ports.ScoreUpdate) error {
	c, err := a.repo.GetCustomer(ctx, update.CustomerID)
	if err != nil {
		return fmt.Errorf("scoring adapter: get customer: %w", err)
	}
	c.LeadScore = update.Score
	c.ScoringHistory = append(c.ScoringHistory, custrepo.ScoreHistoryEntry{
		Date:   update.Date,
		Score:  update.Score,
		Reason: update.Reason,
	})
	c.UpdatedAt = update.Date
	if _, err := a.repo.UpdateCustomer(ctx, c); err != nil {
		return fmt.Errorf("scoring adapter: update customer: %w", err)
	}
	return nil
}

func toScoredCustomer(c custrepo.Customer, deals []custrepo.Deal) ports.ScoredCustomer {
	return ports.ScoredCustomer{
		ID:        c.ID,
		Name:      c.Name,
		Company:   c.Company,
		LeadScore: c.LeadScore,
		Subject:   SubjectFor(c, deals),
	}
}

// SubjectFor builds the scoring snapshot of a customer. The deal value is
// the value of the customer's most valuable open deal; without an open
// deal it stays unresolved.
func SubjectFor(c custrepo.Customer, deals []custrepo.Deal) domain.Subject {
	subject := domain.Subject{
		CompanySize:     c.CompanySize,
		LeadSource:      c.LeadSource,
		EngagementLevel: c.EngagementLevel,
		ResponseTime:    c.ResponseTime,
	}
	for _, d := range deals {
		if d.CustomerID != c.ID || !d.IsOpen() {
			continue
		}
		if subject.DealValue == nil || d.Value > *subject.DealValue {
			value := d.Value
			subject.DealValue = &value
		}
	}
	return subject
}

var _ ports.CustomerStore = (*ScoringCustomerStore)(nil)
