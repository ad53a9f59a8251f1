// Package notification provides event handlers that report scoring and
// pipeline activity in response to domain events. Domain modules publish
// events and never need to know who listens.
package notification

import (
	"context"

	"clientflow_backend/internal/events"
	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	log *logger.Logger
}

// New creates a new notification module.
func New(log *logger.Logger) *Module {
	return &Module{log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes the module to the events it reports on.
func (m *Module) RegisterHandlers(bus events.Bus) {
	// Scoring domain events
	bus.Subscribe(events.LeadScoreChanged{}.EventName(), m)
	bus.Subscribe(events.CriteriaChanged{}.EventName(), m)

	// Pipeline events
	bus.Subscribe(events.DealStageChanged{}.EventName(), m)

	m.log.Debug("notification module registered event handlers")
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadScoreChanged:
		return m.handleLeadScoreChanged(ctx, e)
	case events.CriteriaChanged:
		m.log.WithContext(ctx).CriteriaChanged(e.Action, e.CriterionID.String(), e.Name)
		return nil
	case events.DealStageChanged:
		m.log.WithContext(ctx).Info("deal_stage_changed",
			"deal_id", e.DealID,
			"title", e.Title,
			"from", e.OldStage,
			"to", e.NewStage,
		)
		return nil
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadScoreChanged(ctx context.Context, e events.LeadScoreChanged) error {
	log := m.log.WithContext(ctx)
	log.ScoreChanged(e.CustomerID.String(), e.Previous, e.Current, e.Bucket)

	// Reported only when the score crosses into high.
	if domain.Classify(float64(e.Current)) == domain.BucketHigh &&
		domain.Classify(float64(e.Previous)) != domain.BucketHigh {
		log.Warn("hot_lead",
			"customer_id", e.CustomerID,
			"customer", e.CustomerName,
			"score", e.Current,
		)
	}
	return nil
}
