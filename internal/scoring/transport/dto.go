package transport

import (
	"time"

	"github.com/google/uuid"
)

// Category is one categorical mapping in a request or response.
type Category struct {
	Value string  `json:"value" yaml:"value" validate:"required,max=100"`
	Score float64 `json:"score" yaml:"score" validate:"gte=0"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty" validate:"max=100"`
}

// Range is one inclusive numeric bucket. A nil Max means unbounded.
type Range struct {
	Min   float64  `json:"min" yaml:"min"`
	Max   *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Score float64  `json:"score" yaml:"score" validate:"gte=0"`
	Label string   `json:"label,omitempty" yaml:"label,omitempty" validate:"max=100"`
}

// CreateCriterionRequest describes a new scoring criterion. It is also the
// shape of one entry in a criteria file.
type CreateCriterionRequest struct {
	Name        string     `json:"name" yaml:"name" validate:"required,max=100"`
	Description string     `json:"description" yaml:"description" validate:"required,max=500"`
	Weight      int        `json:"weight" yaml:"weight" validate:"min=0,max=100"`
	Type        string     `json:"type" yaml:"type" validate:"required,criterion_type"`
	Attribute   string     `json:"attribute" yaml:"attribute" validate:"required,attribute_key"`
	Categories  []Category `json:"categories,omitempty" yaml:"categories,omitempty" validate:"dive"`
	Ranges      []Range    `json:"ranges,omitempty" yaml:"ranges,omitempty" validate:"dive"`
}

// UpdateCriterionRequest patches a criterion. Nil fields are left alone; a
// non-nil table replaces the existing one.
type UpdateCriterionRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Weight      *int       `json:"weight,omitempty" validate:"omitempty,min=0,max=100"`
	Type        *string    `json:"type,omitempty" validate:"omitempty,criterion_type"`
	Attribute   *string    `json:"attribute,omitempty" validate:"omitempty,attribute_key"`
	Categories  []Category `json:"categories,omitempty" validate:"omitempty,dive"`
	Ranges      []Range    `json:"ranges,omitempty" validate:"omitempty,dive"`
}

// CriteriaFile is the document read by LoadCriteria.
type CriteriaFile struct {
	Criteria []CreateCriterionRequest `yaml:"criteria"`
}

// CriterionResponse represents a criterion in command output.
type CriterionResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Weight      int        `json:"weight"`
	Type        string     `json:"type"`
	Attribute   string     `json:"attribute"`
	Categories  []Category `json:"categories,omitempty"`
	Ranges      []Range    `json:"ranges,omitempty"`
}

// CriteriaListResponse is the active criteria set.
type CriteriaListResponse struct {
	Items       []CriterionResponse `json:"items"`
	TotalWeight int                 `json:"totalWeight"`
}

// IssueResponse is one finding of the validation pass.
type IssueResponse struct {
	CriterionID *uuid.UUID `json:"criterionId,omitempty"`
	Criterion   string     `json:"criterion,omitempty"`
	Code        string     `json:"code"`
	Message     string     `json:"message"`
}

// ValidationResponse is the result of validating the active set.
type ValidationResponse struct {
	Valid       bool            `json:"valid"`
	TotalWeight int             `json:"totalWeight"`
	Issues      []IssueResponse `json:"issues"`
}

// CriterionResultResponse is one row of a score breakdown.
type CriterionResultResponse struct {
	CriterionID uuid.UUID `json:"criterionId"`
	Name        string    `json:"name"`
	Attribute   string    `json:"attribute"`
	Weight      int       `json:"weight"`
	Matched     bool      `json:"matched"`
	MatchLabel  string    `json:"matchLabel,omitempty"`
	RawScore    float64   `json:"rawScore"`
	Weighted    float64   `json:"weighted"`
}

// ScoreResponse is the evaluation of one customer against the active set.
type ScoreResponse struct {
	CustomerID  uuid.UUID                 `json:"customerId"`
	Name        string                    `json:"name"`
	Company     string                    `json:"company"`
	StoredScore int                       `json:"storedScore"`
	Total       float64                   `json:"total"`
	Score       int                       `json:"score"`
	Bucket      string                    `json:"bucket"`
	Breakdown   []CriterionResultResponse `json:"breakdown"`
}

// DashboardEntry is one customer on the dashboard.
type DashboardEntry struct {
	CustomerID  uuid.UUID `json:"customerId"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	StoredScore int       `json:"storedScore"`
	Score       int       `json:"score"`
	Bucket      string    `json:"bucket"`
}

// DashboardResponse summarises computed scores across all customers.
type DashboardResponse struct {
	Customers    []DashboardEntry `json:"customers"`
	Count        int              `json:"count"`
	High         int              `json:"high"`
	Medium       int              `json:"medium"`
	Low          int              `json:"low"`
	AverageScore float64          `json:"averageScore"`
}

// ScoreChange is a customer whose stored score was rewritten.
type ScoreChange struct {
	CustomerID uuid.UUID `json:"customerId"`
	Name       string    `json:"name"`
	Previous   int       `json:"previous"`
	Current    int       `json:"current"`
	Bucket     string    `json:"bucket"`
	ChangedAt  time.Time `json:"changedAt"`
}

// RecalculationResult reports a recalculation pass. On a partial failure
// Changed holds the customers updated before the failure.
type RecalculationResult struct {
	Evaluated int           `json:"evaluated"`
	Changed   []ScoreChange `json:"changed"`
}
