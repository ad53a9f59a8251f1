package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateCustomerRequest contains data for creating a customer.
type CreateCustomerRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email,max=254"`
	Phone           string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Company         string `json:"company" validate:"required,max=200"`
	Status          string `json:"status,omitempty" validate:"omitempty,oneof=Lead Prospect Active Inactive"`
	LeadSource      string `json:"leadSource,omitempty" validate:"omitempty,max=100"`
	AssignedTo      string `json:"assignedTo,omitempty" validate:"omitempty,max=200"`
	CompanySize     int    `json:"companySize" validate:"min=0"`
	EngagementLevel string `json:"engagementLevel,omitempty" validate:"omitempty,oneof=High Medium Low None"`
	ResponseTime    int    `json:"responseTime" validate:"min=0"`
}

// UpdateCustomerRequest contains the fields to change on a customer.
type UpdateCustomerRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Company         *string `json:"company,omitempty" validate:"omitempty,min=1,max=200"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=Lead Prospect Active Inactive"`
	LeadSource      *string `json:"leadSource,omitempty" validate:"omitempty,max=100"`
	AssignedTo      *string `json:"assignedTo,omitempty" validate:"omitempty,max=200"`
	CompanySize     *int    `json:"companySize,omitempty" validate:"omitempty,min=0"`
	EngagementLevel *string `json:"engagementLevel,omitempty" validate:"omitempty,oneof=High Medium Low None"`
	ResponseTime    *int    `json:"responseTime,omitempty" validate:"omitempty,min=0"`
}

// CreateDealRequest contains data for creating a deal.
type CreateDealRequest struct {
	Title             string    `json:"title" validate:"required,max=200"`
	CustomerID        uuid.UUID `json:"customerId" validate:"required"`
	Value             float64   `json:"value" validate:"gt=0"`
	Stage             string    `json:"stage,omitempty" validate:"omitempty,pipeline_stage"`
	Probability       int       `json:"probability" validate:"min=0,max=100"`
	ExpectedCloseDate time.Time `json:"expectedCloseDate"`
	AssignedTo        string    `json:"assignedTo,omitempty" validate:"omitempty,max=200"`
}

// MoveDealRequest moves a deal to another pipeline stage.
type MoveDealRequest struct {
	DealID uuid.UUID `json:"dealId" validate:"required"`
	Stage  string    `json:"stage" validate:"required,pipeline_stage"`
}

// CustomerResponse represents a customer in command output.
type CustomerResponse struct {
	ID              uuid.UUID              `json:"id"`
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	Phone           string                 `json:"phone,omitempty"`
	Company         string                 `json:"company"`
	Status          string                 `json:"status"`
	LeadSource      string                 `json:"leadSource"`
	AssignedTo      string                 `json:"assignedTo,omitempty"`
	CompanySize     int                    `json:"companySize"`
	EngagementLevel string                 `json:"engagementLevel"`
	ResponseTime    int                    `json:"responseTime"`
	LeadScore       int                    `json:"leadScore"`
	ScoringHistory  []ScoreHistoryResponse `json:"scoringHistory"`
	CreatedAt       string                 `json:"createdAt"`
	UpdatedAt       string                 `json:"updatedAt"`
}

// ScoreHistoryResponse is one recorded lead score.
type ScoreHistoryResponse struct {
	Date   time.Time `json:"date"`
	Score  int       `json:"score"`
	Reason string    `json:"reason"`
}

// CustomerListResponse wraps a list of customers.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Total int                `json:"total"`
}

// DealResponse represents a deal in command output.
type DealResponse struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	CustomerID        uuid.UUID `json:"customerId"`
	CustomerName      string    `json:"customerName"`
	Value             float64   `json:"value"`
	Stage             string    `json:"stage"`
	Probability       int       `json:"probability"`
	ExpectedCloseDate string    `json:"expectedCloseDate"`
	AssignedTo        string    `json:"assignedTo,omitempty"`
}

// StageCount is the number and value of deals in one pipeline stage.
type StageCount struct {
	Stage string  `json:"stage"`
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// PipelineMetricsResponse holds the pipeline figures shown on the dashboard.
type PipelineMetricsResponse struct {
	TotalDeals         int          `json:"totalDeals"`
	TotalPipelineValue float64      `json:"totalPipelineValue"`
	ConversionRate     int          `json:"conversionRate"`
	AverageDealSize    int          `json:"averageDealSize"`
	Stages             []StageCount `json:"stages"`
}
