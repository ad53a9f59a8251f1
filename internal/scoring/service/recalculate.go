package service

import (
	"context"
	"time"

	"clientflow_backend/internal/events"
	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/internal/scoring/ports"
	"clientflow_backend/internal/scoring/transport"
	"clientflow_backend/platform/apperr"
)

// Recalculate evaluates every customer against criteria and returns one
// update per customer whose rounded score differs from the stored one, in
// input order. Customers whose score is unchanged produce nothing.
func Recalculate(customers []ports.ScoredCustomer, criteria []domain.Criterion, at time.Time, reason string) []ports.ScoreUpdate {
	var updates []ports.ScoreUpdate
	for _, c := range customers {
		score := domain.Evaluate(c.Subject, criteria).Score
		if score == c.LeadScore {
			continue
		}
		updates = append(updates, ports.ScoreUpdate{
			CustomerID: c.ID,
			Name:       c.Name,
			Previous:   c.LeadScore,
			Score:      score,
			Date:       at,
			Reason:     reason,
		})
	}
	return updates
}

// RecalculateAll rescores every customer with the active set and writes back
// the scores that changed, one store update per customer. There is no
// transaction: the first failed update stops the pass, the customers
// updated before it keep their new score and the error is returned with
// the partial result.
func (s *Service) RecalculateAll(ctx context.Context) (transport.RecalculationResult, error) {
	criteria, err := s.repo.List(ctx)
	if err != nil {
		return transport.RecalculationResult{}, err
	}
	customers, err := s.customers.ListScoredCustomers(ctx)
	if err != nil {
		return transport.RecalculationResult{}, err
	}

	log := s.log.WithContext(ctx)
	updates := Recalculate(customers, criteria, s.now(), s.reason)
	result := transport.RecalculationResult{
		Evaluated: len(customers),
		Changed:   make([]transport.ScoreChange, 0, len(updates)),
	}

	for _, u := range updates {
		if err := ctx.Err(); err != nil {
			failed := apperr.Wrap(apperr.KindInternal, "recalculation cancelled", err).WithOp("RecalculateAll")
			log.RecalculationFinished(result.Evaluated, len(result.Changed), failed)
			return result, failed
		}
		if err := s.customers.ApplyScore(ctx, u); err != nil {
			failed := apperr.Wrap(apperr.KindInternal, "update lead score for "+u.Name, err).WithOp("RecalculateAll")
			log.RecalculationFinished(result.Evaluated, len(result.Changed), failed)
			return result, failed
		}

		bucket := string(domain.Classify(float64(u.Score)))
		result.Changed = append(result.Changed, transport.ScoreChange{
			CustomerID: u.CustomerID,
			Name:       u.Name,
			Previous:   u.Previous,
			Current:    u.Score,
			Bucket:     bucket,
			ChangedAt:  u.Date,
		})
		s.publish(ctx, events.LeadScoreChanged{
			BaseEvent:    events.BaseEventAt(u.Date),
			CustomerID:   u.CustomerID,
			CustomerName: u.Name,
			Previous:     u.Previous,
			Current:      u.Score,
			Bucket:       bucket,
			Reason:       u.Reason,
		})
	}

	log.RecalculationFinished(result.Evaluated, len(result.Changed), nil)
	return result, nil
}
