package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Pipeline stages in board order.
const (
	StageLead        = "lead"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageClosed      = "closed"
)

// PipelineStages lists every stage in the order deals move through them.
var PipelineStages = []string{StageLead, StageQualified, StageProposal, StageNegotiation, StageClosed}

// IsPipelineStage reports whether stage is a known stage id.
func IsPipelineStage(stage string) bool {
	for _, s := range PipelineStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Engagement levels recorded on a customer.
const (
	EngagementHigh   = "High"
	EngagementMedium = "Medium"
	EngagementLow    = "Low"
	EngagementNone   = "None"
)

// ScoreHistoryEntry is one append-only record of a lead score change.
type ScoreHistoryEntry struct {
	Date   time.Time `yaml:"date" json:"date"`
	Score  int       `yaml:"score" json:"score"`
	Reason string    `yaml:"reason" json:"reason"`
}

// Customer is a CRM contact together with the attributes lead scoring reads.
type Customer struct {
	ID              uuid.UUID           `yaml:"id"`
	Name            string              `yaml:"name"`
	Email           string              `yaml:"email"`
	Phone           string              `yaml:"phone"`
	Company         string              `yaml:"company"`
	Status          string              `yaml:"status"`
	LeadSource      string              `yaml:"leadSource"`
	AssignedTo      string              `yaml:"assignedTo"`
	CompanySize     int                 `yaml:"companySize"`
	EngagementLevel string              `yaml:"engagementLevel"`
	ResponseTime    int                 `yaml:"responseTime"`
	LeadScore       int                 `yaml:"leadScore"`
	ScoringHistory  []ScoreHistoryEntry `yaml:"scoringHistory"`
	CreatedAt       time.Time           `yaml:"createdAt"`
	UpdatedAt       time.Time           `yaml:"updatedAt"`
}

// Clone returns a copy that shares no slices with c.
func (c Customer) Clone() Customer {
	out := c
	if c.ScoringHistory != nil {
		out.ScoringHistory = append([]ScoreHistoryEntry(nil), c.ScoringHistory...)
	}
	return out
}

// Deal is an opportunity moving across the sales pipeline.
type Deal struct {
	ID                uuid.UUID `yaml:"id"`
	Title             string    `yaml:"title"`
	CustomerID        uuid.UUID `yaml:"customerId"`
	Value             float64   `yaml:"value"`
	Stage             string    `yaml:"stage"`
	Probability       int       `yaml:"probability"`
	ExpectedCloseDate time.Time `yaml:"expectedCloseDate"`
	AssignedTo        string    `yaml:"assignedTo"`
	CreatedAt         time.Time `yaml:"createdAt"`
	UpdatedAt         time.Time `yaml:"updatedAt"`
}

// IsOpen reports whether the deal has not been closed yet.
func (d Deal) IsOpen() bool {
	return d.Stage != StageClosed
}

// CustomerReader provides read operations for customers.
type CustomerReader interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
}

// CustomerWriter provides write operations for customers.
type CustomerWriter interface {
	CreateCustomer(ctx context.Context, customer Customer) (Customer, error)
	UpdateCustomer(ctx context.Context, customer Customer) (Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

// DealReader provides read operations for deals.
type DealReader interface {
	GetDeal(ctx context.Context, id uuid.UUID) (Deal, error)
	ListDeals(ctx context.Context) ([]Deal, error)
	ListDealsByCustomer(ctx context.Context, customerID uuid.UUID) ([]Deal, error)
}

// DealWriter provides write operations for deals.
type DealWriter interface {
	CreateDeal(ctx context.Context, deal Deal) (Deal, error)
	UpdateDeal(ctx context.Context, deal Deal) (Deal, error)
	DeleteDeal(ctx context.Context, id uuid.UUID) error
}

// Repository combines all customer and deal operations.
type Repository interface {
	CustomerReader
	CustomerWriter
	DealReader
	DealWriter
}
