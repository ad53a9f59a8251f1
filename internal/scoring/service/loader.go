package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clientflow_backend/internal/events"
	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/internal/scoring/transport"
	"clientflow_backend/platform/apperr"
)

// ParseCriteria decodes a YAML criteria document. Each entry is validated
// like AddCriterion input; weight sums are not checked.
func (s *Service) ParseCriteria(data []byte) ([]domain.Criterion, error) {
	var file transport.CriteriaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "criteria file is not valid YAML", err)
	}
	if len(file.Criteria) == 0 {
		return nil, apperr.Validation("criteria file defines no criteria")
	}

	criteria := make([]domain.Criterion, 0, len(file.Criteria))
	for i, req := range file.Criteria {
		c, err := s.buildCriterion(req)
		if err != nil {
			wrapped := apperr.Wrap(apperr.GetKind(err), fmt.Sprintf("criterion %d (%s)", i+1, req.Name), err)
			var inner *apperr.Error
			if errors.As(err, &inner) {
				wrapped.Details = inner.Details
			}
			return nil, wrapped
		}
		criteria = append(criteria, c)
	}
	return criteria, nil
}

// LoadCriteria replaces the active set with the criteria in the YAML file
// at path.
func (s *Service) LoadCriteria(ctx context.Context, path string) (transport.CriteriaListResponse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return transport.CriteriaListResponse{}, apperr.Wrap(apperr.KindBadRequest, "read criteria file", err)
	}
	criteria, err := s.ParseCriteria(data)
	if err != nil {
		return transport.CriteriaListResponse{}, err
	}
	if err := s.repo.Replace(ctx, criteria); err != nil {
		return transport.CriteriaListResponse{}, err
	}

	s.log.WithContext(ctx).Info("criteria loaded", "path", path, "count", len(criteria))
	s.publish(ctx, events.CriteriaChanged{
		BaseEvent: events.BaseEventAt(s.now()),
		Name:      path,
		Action:    events.CriteriaActionLoaded,
	})
	return toCriteriaListResponse(criteria), nil
}

// ExportCriteria encodes the active set as a criteria file that
// LoadCriteria accepts.
func (s *Service) ExportCriteria(ctx context.Context) ([]byte, error) {
	criteria, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	file := transport.CriteriaFile{Criteria: make([]transport.CreateCriterionRequest, 0, len(criteria))}
	for _, c := range criteria {
		file.Criteria = append(file.Criteria, toCriterionRequest(c))
	}
	return yaml.Marshal(file)
}
