// Package customers provides the customers and deals bounded context module.
// It is the record store the scoring module reads from and writes lead
// scores back to.
package customers

import (
	"clientflow_backend/internal/customers/repository"
	"clientflow_backend/internal/customers/service"
	"clientflow_backend/platform/config"
	"clientflow_backend/platform/logger"
	"clientflow_backend/platform/validator"
)

// Module is the customers bounded context module.
type Module struct {
	service *service.Service
	repo    *repository.MemoryRepository
}

// NewModule seeds a session repository from the configured fixtures.
func NewModule(cfg config.FixturesConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	repo, err := repository.NewSeededRepository(cfg.GetFixturesPath())
	if err != nil {
		return nil, err
	}
	return NewModuleWithRepository(repo, val, log), nil
}

// NewModuleWithRepository wires the module around an existing repository.
func NewModuleWithRepository(repo *repository.MemoryRepository, val *validator.Validator, log *logger.Logger) *Module {
	return &Module{
		service: service.New(repo, val, log),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "customers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters.
func (m *Module) Repository() repository.Repository {
	return m.repo
}
