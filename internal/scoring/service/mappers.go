package service

import (
	"math"

	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/internal/scoring/ports"
	"clientflow_backend/internal/scoring/transport"

	"github.com/google/uuid"
)

func toCriterionResponse(c domain.Criterion) transport.CriterionResponse {
	return transport.CriterionResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Weight:      c.Weight,
		Type:        string(c.Type),
		Attribute:   string(c.Attribute),
		Categories:  toTransportCategories(c.Categories),
		Ranges:      toTransportRanges(c.Ranges),
	}
}

func toCriteriaListResponse(criteria []domain.Criterion) transport.CriteriaListResponse {
	items := make([]transport.CriterionResponse, 0, len(criteria))
	for _, c := range criteria {
		items = append(items, toCriterionResponse(c))
	}
	return transport.CriteriaListResponse{Items: items, TotalWeight: domain.TotalWeight(criteria)}
}

// toCriterionRequest is the inverse of buildCriterion, used when writing a
// criteria file.
func toCriterionRequest(c domain.Criterion) transport.CreateCriterionRequest {
	return transport.CreateCriterionRequest{
		Name:        c.Name,
		Description: c.Description,
		Weight:      c.Weight,
		Type:        string(c.Type),
		Attribute:   string(c.Attribute),
		Categories:  toTransportCategories(c.Categories),
		Ranges:      toTransportRanges(c.Ranges),
	}
}

func toTransportCategories(cats []domain.Category) []transport.Category {
	if cats == nil {
		return nil
	}
	out := make([]transport.Category, len(cats))
	for i, c := range cats {
		out[i] = transport.Category{Value: c.Value, Score: c.Score, Label: c.Label}
	}
	return out
}

func toTransportRanges(ranges []domain.Range) []transport.Range {
	if ranges == nil {
		return nil
	}
	out := make([]transport.Range, len(ranges))
	for i, r := range ranges {
		out[i] = transport.Range{Min: r.Min, Score: r.Score, Label: r.Label}
		if !math.IsInf(r.Max, 1) {
			upper := r.Max
			out[i].Max = &upper
		}
	}
	return out
}

func toDomainCategories(cats []transport.Category) []domain.Category {
	if cats == nil {
		return nil
	}
	out := make([]domain.Category, len(cats))
	for i, c := range cats {
		out[i] = domain.Category{Value: c.Value, Score: c.Score, Label: c.Label}
	}
	return out
}

func toDomainRanges(ranges []transport.Range) []domain.Range {
	if ranges == nil {
		return nil
	}
	out := make([]domain.Range, len(ranges))
	for i, r := range ranges {
		out[i] = domain.Range{Min: r.Min, Max: math.Inf(1), Score: r.Score, Label: r.Label}
		if r.Max != nil {
			out[i].Max = *r.Max
		}
	}
	return out
}

func toIssueResponses(issues domain.Issues) []transport.IssueResponse {
	out := make([]transport.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		resp := transport.IssueResponse{
			Criterion: issue.Criterion,
			Code:      issue.Code,
			Message:   issue.Message,
		}
		if issue.CriterionID != uuid.Nil {
			id := issue.CriterionID
			resp.CriterionID = &id
		}
		out = append(out, resp)
	}
	return out
}

func toScoreResponse(c ports.ScoredCustomer, eval domain.Evaluation) transport.ScoreResponse {
	breakdown := make([]transport.CriterionResultResponse, 0, len(eval.Breakdown))
	for _, r := range eval.Breakdown {
		breakdown = append(breakdown, transport.CriterionResultResponse{
			CriterionID: r.CriterionID,
			Name:        r.Name,
			Attribute:   string(r.Attribute),
			Weight:      r.Weight,
			Matched:     r.Matched,
			MatchLabel:  r.MatchLabel,
			RawScore:    r.RawScore,
			Weighted:    r.Weighted,
		})
	}
	return transport.ScoreResponse{
		CustomerID:  c.ID,
		Name:        c.Name,
		Company:     c.Company,
		StoredScore: c.LeadScore,
		Total:       eval.Total,
		Score:       eval.Score,
		Bucket:      string(eval.Bucket()),
		Breakdown:   breakdown,
	}
}
