// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"clientflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent = events.NewBaseEvent
	BaseEventAt  = events.BaseEventAt
)

// =============================================================================
// Scoring Domain Events
// =============================================================================

// LeadScoreChanged is published after a recalculation rewrote a customer's
// stored lead score.
type LeadScoreChanged struct {
	BaseEvent
	CustomerID   uuid.UUID `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Previous     int       `json:"previous"`
	Current      int       `json:"current"`
	Bucket       string    `json:"bucket"`
	Reason       string    `json:"reason"`
}

func (e LeadScoreChanged) EventName() string { return "scoring.lead_score.changed" }

// Criteria change actions.
const (
	CriteriaActionAdded    = "added"
	CriteriaActionEdited   = "edited"
	CriteriaActionDeleted  = "deleted"
	CriteriaActionWeighted = "weight_changed"
	CriteriaActionLoaded   = "loaded"
)

// CriteriaChanged is published after any configuration operation on the
// active criteria set.
type CriteriaChanged struct {
	BaseEvent
	CriterionID uuid.UUID `json:"criterionId"`
	Name        string    `json:"name"`
	Action      string    `json:"action"`
}

func (e CriteriaChanged) EventName() string { return "scoring.criteria.changed" }

// =============================================================================
// Pipeline Domain Events
// =============================================================================

// DealStageChanged is published when a deal is moved to another pipeline
// stage.
type DealStageChanged struct {
	BaseEvent
	DealID     uuid.UUID `json:"dealId"`
	CustomerID uuid.UUID `json:"customerId"`
	Title      string    `json:"title"`
	OldStage   string    `json:"oldStage"`
	NewStage   string    `json:"newStage"`
}

func (e DealStageChanged) EventName() string { return "customers.deal.stage_changed" }
