package service

import (
	"context"
	"math"

	"clientflow_backend/internal/customers/repository"
	"clientflow_backend/internal/customers/transport"
)

var stageNames = map[string]string{
	repository.StageLead:        "Lead",
	repository.StageQualified:   "Qualified",
	repository.StageProposal:    "Proposal",
	repository.StageNegotiation: "Negotiation",
	repository.StageClosed:      "Closed Won",
}

// StageName returns the board label for a stage id.
func StageName(stage string) string {
	if name, ok := stageNames[stage]; ok {
		return name
	}
	return stage
}

// PipelineMetrics computes the dashboard pipeline figures.
func (s *Service) PipelineMetrics(ctx context.Context) (transport.PipelineMetricsResponse, error) {
	deals, err := s.repo.ListDeals(ctx)
	if err != nil {
		return transport.PipelineMetricsResponse{}, err
	}
	return ComputePipelineMetrics(deals), nil
}

// ComputePipelineMetrics derives totals, conversion rate and average deal
// size. Rates are rounded to whole numbers and are 0 for an empty pipeline.
func ComputePipelineMetrics(deals []repository.Deal) transport.PipelineMetricsResponse {
	byStage := make(map[string]*transport.StageCount, len(repository.PipelineStages))
	stages := make([]transport.StageCount, len(repository.PipelineStages))
	for i, stage := range repository.PipelineStages {
		stages[i] = transport.StageCount{Stage: stage, Name: StageName(stage)}
		byStage[stage] = &stages[i]
	}

	var total float64
	closed := 0
	for _, d := range deals {
		total += d.Value
		if sc, ok := byStage[d.Stage]; ok {
			sc.Count++
			sc.Value += d.Value
		}
		if d.Stage == repository.StageClosed {
			closed++
		}
	}

	resp := transport.PipelineMetricsResponse{
		TotalDeals:         len(deals),
		TotalPipelineValue: total,
		Stages:             stages,
	}
	if len(deals) > 0 {
		resp.ConversionRate = int(math.Round(float64(closed) / float64(len(deals)) * 100))
		resp.AverageDealSize = int(math.Round(total / float64(len(deals))))
	}
	return resp
}
