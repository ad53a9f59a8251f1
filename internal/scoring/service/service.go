package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"clientflow_backend/internal/events"
	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/internal/scoring/ports"
	"clientflow_backend/internal/scoring/repository"
	"clientflow_backend/internal/scoring/transport"
	"clientflow_backend/platform/apperr"
	"clientflow_backend/platform/config"
	"clientflow_backend/platform/logger"
	"clientflow_backend/platform/sanitize"
	platformvalidator "clientflow_backend/platform/validator"
)

const (
	msgValidationFailed = "validation failed"
	msgBlankText        = "name and description cannot be blank"
)

// Service provides criteria configuration, scoring and recalculation for
// one session.
type Service struct {
	repo      repository.Repository
	customers ports.CustomerStore
	val       *platformvalidator.Validator
	bus       events.Bus
	log       *logger.Logger
	reason    string
	now       func() time.Time
}

// New creates a new scoring service and registers the attribute_key and
// criterion_type validation rules on val.
func New(repo repository.Repository, customers ports.CustomerStore, val *platformvalidator.Validator, cfg config.ScoringConfig, log *logger.Logger) *Service {
	_ = val.RegisterValidation("attribute_key", func(fl validator.FieldLevel) bool {
		return domain.AttributeKey(fl.Field().String()).Valid()
	})
	_ = val.RegisterValidation("criterion_type", func(fl validator.FieldLevel) bool {
		return domain.CriterionType(fl.Field().String()).Valid()
	})

	reason := strings.TrimSpace(cfg.GetHistoryReason())
	if reason == "" {
		reason = config.DefaultHistoryReason
	}
	return &Service{
		repo:      repo,
		customers: customers,
		val:       val,
		log:       log,
		reason:    reason,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetEventBus sets the bus scoring events are published on.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// SetClock overrides the time source used for history entries.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

// ListCriteria returns the active set in evaluation order.
func (s *Service) ListCriteria(ctx context.Context) (transport.CriteriaListResponse, error) {
	criteria, err := s.repo.List(ctx)
	if err != nil {
		return transport.CriteriaListResponse{}, err
	}
	return toCriteriaListResponse(criteria), nil
}

// ResolveCriterion finds a criterion by ID or, failing that, by exact
// case-insensitive name.
func (s *Service) ResolveCriterion(ctx context.Context, ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	criteria, err := s.repo.List(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	for _, c := range criteria {
		if strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}
	return uuid.Nil, apperr.NotFound(fmt.Sprintf("no scoring criterion named %q", ref)).WithOp("ResolveCriterion")
}

// AddCriterion validates and appends a new criterion. Weights of the other
// criteria are not adjusted.
func (s *Service) AddCriterion(ctx context.Context, req transport.CreateCriterionRequest) (transport.CriterionResponse, error) {
	c, err := s.buildCriterion(req)
	if err != nil {
		return transport.CriterionResponse{}, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return transport.CriterionResponse{}, err
	}
	s.criteriaChanged(ctx, events.CriteriaActionAdded, created)
	return toCriterionResponse(created), nil
}

// EditCriterion merges the non-nil patch fields into the criterion.
func (s *Service) EditCriterion(ctx context.Context, id uuid.UUID, req transport.UpdateCriterionRequest) (transport.CriterionResponse, error) {
	if err := s.val.Check(req, msgValidationFailed); err != nil {
		return transport.CriterionResponse{}, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CriterionResponse{}, err
	}

	if req.Name != nil {
		c.Name = sanitize.Text(*req.Name)
	}
	if req.Description != nil {
		c.Description = sanitize.Text(*req.Description)
	}
	if c.Name == "" || c.Description == "" {
		return transport.CriterionResponse{}, apperr.Validation(msgBlankText)
	}
	if req.Weight != nil {
		c.Weight = *req.Weight
	}
	if req.Type != nil {
		c.Type = domain.CriterionType(*req.Type)
	}
	if req.Attribute != nil {
		c.Attribute = domain.AttributeKey(*req.Attribute)
	}
	if req.Categories != nil {
		c.Categories = toDomainCategories(req.Categories)
	}
	if req.Ranges != nil {
		c.Ranges = toDomainRanges(req.Ranges)
	}
	if err := checkTable(&c); err != nil {
		return transport.CriterionResponse{}, err
	}

	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return transport.CriterionResponse{}, err
	}
	s.criteriaChanged(ctx, events.CriteriaActionEdited, updated)
	return toCriterionResponse(updated), nil
}

// DeleteCriterion removes a criterion. Stored scores are left as they are
// until the next recalculation.
func (s *Service) DeleteCriterion(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.criteriaChanged(ctx, events.CriteriaActionDeleted, c)
	return nil
}

// SetWeight changes one criterion's weight. The other weights are not
// renormalized, so the set may stop summing to 100.
func (s *Service) SetWeight(ctx context.Context, id uuid.UUID, weight int) (transport.CriterionResponse, error) {
	if weight < 0 || weight > 100 {
		return transport.CriterionResponse{}, apperr.Validation(fmt.Sprintf("weight %d is outside 0-100", weight)).WithOp("SetWeight")
	}
	updated, err := s.repo.SetWeight(ctx, id, weight)
	if err != nil {
		return transport.CriterionResponse{}, err
	}
	s.criteriaChanged(ctx, events.CriteriaActionWeighted, updated)
	return toCriterionResponse(updated), nil
}

// ValidateCriteria runs the validation pass over the active set. It reports
// problems and never changes the set.
func (s *Service) ValidateCriteria(ctx context.Context) (transport.ValidationResponse, error) {
	criteria, err := s.repo.List(ctx)
	if err != nil {
		return transport.ValidationResponse{}, err
	}
	resp := transport.ValidationResponse{
		Valid:       true,
		TotalWeight: domain.TotalWeight(criteria),
		Issues:      []transport.IssueResponse{},
	}

	err = domain.ValidateCriteria(criteria)
	if err == nil {
		return resp, nil
	}
	var issues domain.Issues
	if !errors.As(err, &issues) {
		return transport.ValidationResponse{}, err
	}
	resp.Valid = false
	resp.Issues = toIssueResponses(issues)
	return resp, nil
}

func (s *Service) buildCriterion(req transport.CreateCriterionRequest) (domain.Criterion, error) {
	req.Name = sanitize.Text(req.Name)
	req.Description = sanitize.Text(req.Description)
	if err := s.val.Check(req, msgValidationFailed); err != nil {
		return domain.Criterion{}, err
	}
	c := domain.Criterion{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Weight:      req.Weight,
		Type:        domain.CriterionType(req.Type),
		Attribute:   domain.AttributeKey(req.Attribute),
		Categories:  toDomainCategories(req.Categories),
		Ranges:      toDomainRanges(req.Ranges),
	}
	if err := checkTable(&c); err != nil {
		return domain.Criterion{}, err
	}
	return c, nil
}

// checkTable enforces the per-criterion table rules and drops the table the
// type does not read.
func checkTable(c *domain.Criterion) error {
	switch c.Type {
	case domain.TypeCategorical:
		if len(c.Categories) == 0 {
			return apperr.Validation("categorical criterion needs at least one category")
		}
		c.Ranges = nil
	case domain.TypeRange:
		if !c.Attribute.Numeric() {
			return apperr.Validation(fmt.Sprintf("attribute %s is not numeric and cannot use ranges", c.Attribute))
		}
		if len(c.Ranges) == 0 {
			return apperr.Validation("range criterion needs at least one range")
		}
		for i, r := range c.Ranges {
			if math.IsNaN(r.Min) || r.Min > r.Max {
				return apperr.Validation(fmt.Sprintf("range %d has min above max", i+1))
			}
		}
		c.Categories = nil
	default:
		return apperr.Validation(fmt.Sprintf("unknown criterion type %q", c.Type))
	}
	return nil
}

func (s *Service) criteriaChanged(ctx context.Context, action string, c domain.Criterion) {
	s.publish(ctx, events.CriteriaChanged{
		BaseEvent:   events.BaseEventAt(s.now()),
		CriterionID: c.ID,
		Name:        c.Name,
		Action:      action,
	})
}
