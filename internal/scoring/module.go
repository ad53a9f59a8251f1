// Package scoring provides the lead scoring bounded context module: the
// criteria store of one session, evaluation and the recalculation driver.
package scoring

import (
	"context"

	"clientflow_backend/internal/events"
	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/internal/scoring/ports"
	"clientflow_backend/internal/scoring/repository"
	"clientflow_backend/internal/scoring/service"
	"clientflow_backend/platform/config"
	"clientflow_backend/platform/logger"
	"clientflow_backend/platform/validator"
)

// Module is the scoring bounded context module.
type Module struct {
	service *service.Service
}

// NewModule seeds a criteria store with the default criteria, or with the
// configured criteria file when one is set.
func NewModule(ctx context.Context, customers ports.CustomerStore, bus events.Bus, val *validator.Validator, cfg config.ScoringConfig, log *logger.Logger) (*Module, error) {
	repo := repository.NewMemoryRepository(domain.DefaultCriteria())
	svc := service.New(repo, customers, val, cfg, log)
	svc.SetEventBus(bus)

	if path := cfg.GetCriteriaPath(); path != "" {
		if _, err := svc.LoadCriteria(ctx, path); err != nil {
			return nil, err
		}
	}
	return &Module{service: svc}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "scoring"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}
