package service

import (
	"context"

	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/internal/scoring/transport"

	"github.com/google/uuid"
)

// ScoreCustomer evaluates one customer against the active set without
// touching the stored score.
func (s *Service) ScoreCustomer(ctx context.Context, customerID uuid.UUID) (transport.ScoreResponse, error) {
	customer, err := s.customers.GetScoredCustomer(ctx, customerID)
	if err != nil {
		return transport.ScoreResponse{}, err
	}
	criteria, err := s.repo.List(ctx)
	if err != nil {
		return transport.ScoreResponse{}, err
	}
	return toScoreResponse(customer, domain.Evaluate(customer.Subject, criteria)), nil
}

// Dashboard scores every customer against the active set and summarises
// the computed scores per bucket.
func (s *Service) Dashboard(ctx context.Context) (transport.DashboardResponse, error) {
	customers, err := s.customers.ListScoredCustomers(ctx)
	if err != nil {
		return transport.DashboardResponse{}, err
	}
	criteria, err := s.repo.List(ctx)
	if err != nil {
		return transport.DashboardResponse{}, err
	}

	entries := make([]transport.DashboardEntry, 0, len(customers))
	scores := make([]int, 0, len(customers))
	for _, c := range customers {
		eval := domain.Evaluate(c.Subject, criteria)
		scores = append(scores, eval.Score)
		entries = append(entries, transport.DashboardEntry{
			CustomerID:  c.ID,
			Name:        c.Name,
			Company:     c.Company,
			StoredScore: c.LeadScore,
			Score:       eval.Score,
			Bucket:      string(eval.Bucket()),
		})
	}

	summary := domain.Summarize(scores)
	return transport.DashboardResponse{
		Customers:    entries,
		Count:        summary.Count,
		High:         summary.High,
		Medium:       summary.Medium,
		Low:          summary.Low,
		AverageScore: summary.Average,
	}, nil
}
