package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"clientflow_backend/internal/customers/repository"
	"clientflow_backend/internal/customers/transport"
	"clientflow_backend/internal/events"
	"clientflow_backend/platform/apperr"
	"clientflow_backend/platform/logger"
	"clientflow_backend/platform/phone"
	"clientflow_backend/platform/sanitize"
	platformvalidator "clientflow_backend/platform/validator"
)

const (
	msgValidationFailed = "validation failed"
	defaultStatus       = "Lead"
	defaultLeadSource   = "Website"
	defaultEngagement   = repository.EngagementNone
)

// Service provides customer and pipeline operations for one session.
type Service struct {
	repo repository.Repository
	val  *platformvalidator.Validator
	log  *logger.Logger
	bus  events.Bus
	now  func() time.Time
}

// New creates a new customers service and registers the pipeline_stage
// validation rule on val.
func New(repo repository.Repository, val *platformvalidator.Validator, log *logger.Logger) *Service {
	_ = val.RegisterValidation("pipeline_stage", func(fl validator.FieldLevel) bool {
		return repository.IsPipelineStage(fl.Field().String())
	})
	return &Service{
		repo: repo,
		val:  val,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// SetEventBus sets the bus pipeline events are published on.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// SetClock overrides the time source used for timestamps.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// GetCustomer returns one customer.
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (transport.CustomerResponse, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return transport.CustomerResponse{}, err
	}
	return toCustomerResponse(c), nil
}

// ResolveCustomer finds a customer by ID or, failing that, by exact
// case-insensitive name.
func (s *Service) ResolveCustomer(ctx context.Context, ref string) (repository.Customer, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return s.repo.GetCustomer(ctx, id)
	}
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return repository.Customer{}, err
	}
	for _, c := range customers {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return repository.Customer{}, apperr.NotFound("customer not found").WithOp("ResolveCustomer")
}

// ListCustomers returns every customer in the session.
func (s *Service) ListCustomers(ctx context.Context) (transport.CustomerListResponse, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return transport.CustomerListResponse{}, err
	}
	return toCustomerListResponse(customers), nil
}

// SearchCustomers returns customers whose name, company or email contains
// term, ignoring case. An empty term matches everyone.
func (s *Service) SearchCustomers(ctx context.Context, term string) (transport.CustomerListResponse, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return transport.CustomerListResponse{}, err
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return toCustomerListResponse(customers), nil
	}

	matched := make([]repository.Customer, 0, len(customers))
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Company), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) {
			matched = append(matched, c)
		}
	}
	return toCustomerListResponse(matched), nil
}

// CreateCustomer validates and stores a new customer.
func (s *Service) CreateCustomer(ctx context.Context, req transport.CreateCustomerRequest) (transport.CustomerResponse, error) {
	req.Name = sanitize.Text(req.Name)
	req.Company = sanitize.Text(req.Company)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.val.Check(req, msgValidationFailed); err != nil {
		return transport.CustomerResponse{}, err
	}

	now := s.now()
	customer := repository.Customer{
		ID:              uuid.New(),
		Name:            req.Name,
		Email:           req.Email,
		Phone:           phone.NormalizeE164(req.Phone),
		Company:         req.Company,
		Status:          valueOr(req.Status, defaultStatus),
		LeadSource:      valueOr(req.LeadSource, defaultLeadSource),
		AssignedTo:      sanitize.Text(req.AssignedTo),
		CompanySize:     req.CompanySize,
		EngagementLevel: valueOr(req.EngagementLevel, defaultEngagement),
		ResponseTime:    req.ResponseTime,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return transport.CustomerResponse{}, err
	}
	s.log.WithContext(ctx).Info("customer created", "id", created.ID, "name", created.Name)
	return toCustomerResponse(created), nil
}

// UpdateCustomer merges the non-nil request fields into the customer.
func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, req transport.UpdateCustomerRequest) (transport.CustomerResponse, error) {
	if err := s.val.Check(req, msgValidationFailed); err != nil {
		return transport.CustomerResponse{}, err
	}
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return transport.CustomerResponse{}, err
	}

	if req.Name != nil {
		c.Name = sanitize.Text(*req.Name)
	}
	if req.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		c.Phone = phone.NormalizeE164(*req.Phone)
	}
	if req.Company != nil {
		c.Company = sanitize.Text(*req.Company)
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	if req.LeadSource != nil {
		c.LeadSource = *req.LeadSource
	}
	if req.AssignedTo != nil {
		c.AssignedTo = sanitize.Text(*req.AssignedTo)
	}
	if req.CompanySize != nil {
		c.CompanySize = *req.CompanySize
	}
	if req.EngagementLevel != nil {
		c.EngagementLevel = *req.EngagementLevel
	}
	if req.ResponseTime != nil {
		c.ResponseTime = *req.ResponseTime
	}
	if c.Name == "" || c.Company == "" {
		return transport.CustomerResponse{}, apperr.Validation("name and company cannot be blank")
	}
	c.UpdatedAt = s.now()

	updated, err := s.repo.UpdateCustomer(ctx, c)
	if err != nil {
		return transport.CustomerResponse{}, err
	}
	return toCustomerResponse(updated), nil
}

// DeleteCustomer removes a customer and the deals linked to it.
func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("customer deleted", "id", id)
	return nil
}

// ListDeals returns every deal with its customer name resolved.
func (s *Service) ListDeals(ctx context.Context) ([]transport.DealResponse, error) {
	deals, err := s.repo.ListDeals(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.customerNames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.DealResponse, 0, len(deals))
	for _, d := range deals {
		out = append(out, toDealResponse(d, names))
	}
	return out, nil
}

// CreateDeal validates and stores a new deal for an existing customer.
func (s *Service) CreateDeal(ctx context.Context, req transport.CreateDealRequest) (transport.DealResponse, error) {
	req.Title = sanitize.Text(req.Title)
	if err := s.val.Check(req, msgValidationFailed); err != nil {
		return transport.DealResponse{}, err
	}

	now := s.now()
	deal := repository.Deal{
		ID:                uuid.New(),
		Title:             req.Title,
		CustomerID:        req.CustomerID,
		Value:             req.Value,
		Stage:             valueOr(req.Stage, repository.StageLead),
		Probability:       req.Probability,
		ExpectedCloseDate: req.ExpectedCloseDate,
		AssignedTo:        sanitize.Text(req.AssignedTo),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	created, err := s.repo.CreateDeal(ctx, deal)
	if err != nil {
		return transport.DealResponse{}, err
	}
	names, err := s.customerNames(ctx)
	if err != nil {
		return transport.DealResponse{}, err
	}
	return toDealResponse(created, names), nil
}

// MoveDeal moves a deal to another pipeline stage. Dropping a deal on the
// stage it is already in changes nothing, not even UpdatedAt.
func (s *Service) MoveDeal(ctx context.Context, req transport.MoveDealRequest) (transport.DealResponse, error) {
	req.Stage = strings.ToLower(strings.TrimSpace(req.Stage))
	if err := s.val.Check(req, msgValidationFailed); err != nil {
		return transport.DealResponse{}, err
	}
	deal, err := s.repo.GetDeal(ctx, req.DealID)
	if err != nil {
		return transport.DealResponse{}, err
	}
	if deal.Stage != req.Stage {
		from := deal.Stage
		deal.Stage = req.Stage
		deal.UpdatedAt = s.now()
		if deal, err = s.repo.UpdateDeal(ctx, deal); err != nil {
			return transport.DealResponse{}, err
		}
		s.log.WithContext(ctx).Info("deal moved", "id", deal.ID, "from", from, "to", deal.Stage)
		if s.bus != nil {
			s.bus.Publish(ctx, events.DealStageChanged{
				BaseEvent:  events.BaseEventAt(deal.UpdatedAt),
				DealID:     deal.ID,
				CustomerID: deal.CustomerID,
				Title:      deal.Title,
				OldStage:   from,
				NewStage:   deal.Stage,
			})
		}
	}
	names, err := s.customerNames(ctx)
	if err != nil {
		return transport.DealResponse{}, err
	}
	return toDealResponse(deal, names), nil
}

func (s *Service) customerNames(ctx context.Context) (map[uuid.UUID]string, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return names, nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
