package service

import (
	"time"

	"github.com/google/uuid"

	"clientflow_backend/internal/customers/repository"
	"clientflow_backend/internal/customers/transport"
)

func toCustomerResponse(c repository.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Company:         c.Company,
		Status:          c.Status,
		LeadSource:      c.LeadSource,
		AssignedTo:      c.AssignedTo,
		CompanySize:     c.CompanySize,
		EngagementLevel: c.EngagementLevel,
		ResponseTime:    c.ResponseTime,
		LeadScore:       c.LeadScore,
		ScoringHistory:  toScoreHistory(c.ScoringHistory),
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.Format(time.RFC3339),
	}
}

func toScoreHistory(entries []repository.ScoreHistoryEntry) []transport.ScoreHistoryResponse {
	out := make([]transport.ScoreHistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, transport.ScoreHistoryResponse{Date: e.Date, Score: e.Score, Reason: e.Reason})
	}
	return out
}

func toCustomerListResponse(customers []repository.Customer) transport.CustomerListResponse {
	items := make([]transport.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		items = append(items, toCustomerResponse(c))
	}
	return transport.CustomerListResponse{Items: items, Total: len(items)}
}

func toDealResponse(d repository.Deal, names map[uuid.UUID]string) transport.DealResponse {
	name, ok := names[d.CustomerID]
	if !ok {
		name = "Unknown Customer"
	}
	return transport.DealResponse{
		ID:                d.ID,
		Title:             d.Title,
		CustomerID:        d.CustomerID,
		CustomerName:      name,
		Value:             d.Value,
		Stage:             d.Stage,
		Probability:       d.Probability,
		ExpectedCloseDate: d.ExpectedCloseDate.Format(time.DateOnly),
		AssignedTo:        d.AssignedTo,
	}
}
