package repository

import (
	"context"
	"sync"

	"clientflow_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	msgCustomerNotFound = "customer not found"
	msgDealNotFound     = "deal not found"
)

// MemoryRepository keeps one session's customers and deals in process
// memory. Records are copied on the way in and out, and insertion order
// is preserved for listings.
type MemoryRepository struct {
	mu        sync.RWMutex
	customers []Customer
	deals     []Deal
}

// NewMemoryRepository creates a repository holding copies of the seed data.
func NewMemoryRepository(customers []Customer, deals []Deal) *MemoryRepository {
	r := &MemoryRepository{
		customers: make([]Customer, 0, len(customers)),
		deals:     make([]Deal, 0, len(deals)),
	}
	for _, c := range customers {
		r.customers = append(r.customers, c.Clone())
	}
	r.deals = append(r.deals, deals...)
	return r
}

func (r *MemoryRepository) customerIndex(id uuid.UUID) int {
	for i := range r.customers {
		if r.customers[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepository) dealIndex(id uuid.UUID) int {
	for i := range r.deals {
		if r.deals[i].ID == id {
			return i
		}
	}
	return -1
}

// GetCustomer returns a copy of the customer with id.
func (r *MemoryRepository) GetCustomer(_ context.Context, id uuid.UUID) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.customerIndex(id)
	if idx < 0 {
		return Customer{}, apperr.NotFound(msgCustomerNotFound).WithOp("GetCustomer")
	}
	return r.customers[idx].Clone(), nil
}

// ListCustomers returns copies of all customers in insertion order.
func (r *MemoryRepository) ListCustomers(_ context.Context) ([]Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c.Clone())
	}
	return out, nil
}

// CreateCustomer appends a customer. A zero ID is replaced with a fresh one.
func (r *MemoryRepository) CreateCustomer(_ context.Context, customer Customer) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	} else if r.customerIndex(customer.ID) >= 0 {
		return Customer{}, apperr.Conflict("customer already exists").WithOp("CreateCustomer")
	}
	r.customers = append(r.customers, customer.Clone())
	return customer.Clone(), nil
}

// UpdateCustomer replaces the stored customer with the same ID.
func (r *MemoryRepository) UpdateCustomer(_ context.Context, customer Customer) (Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.customerIndex(customer.ID)
	if idx < 0 {
		return Customer{}, apperr.NotFound(msgCustomerNotFound).WithOp("UpdateCustomer")
	}
	r.customers[idx] = customer.Clone()
	return customer.Clone(), nil
}

// DeleteCustomer removes the customer and its deals.
func (r *MemoryRepository) DeleteCustomer(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.customerIndex(id)
	if idx < 0 {
		return apperr.NotFound(msgCustomerNotFound).WithOp("DeleteCustomer")
	}
	r.customers = append(r.customers[:idx], r.customers[idx+1:]...)

	kept := r.deals[:0]
	for _, d := range r.deals {
		if d.CustomerID != id {
			kept = append(kept, d)
		}
	}
	r.deals = kept
	return nil
}

// GetDeal returns the deal with id.
func (r *MemoryRepository) GetDeal(_ context.Context, id uuid.UUID) (Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.dealIndex(id)
	if idx < 0 {
		return Deal{}, apperr.NotFound(msgDealNotFound).WithOp("GetDeal")
	}
	return r.deals[idx], nil
}

// ListDeals returns all deals in insertion order.
func (r *MemoryRepository) ListDeals(_ context.Context) ([]Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Deal(nil), r.deals...), nil
}

// ListDealsByCustomer returns the deals linked to customerID.
func (r *MemoryRepository) ListDealsByCustomer(_ context.Context, customerID uuid.UUID) ([]Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Deal
	for _, d := range r.deals {
		if d.CustomerID == customerID {
			out = append(out, d)
		}
	}
	return out, nil
}

// CreateDeal appends a deal. A zero ID is replaced with a fresh one.
func (r *MemoryRepository) CreateDeal(_ context.Context, deal Deal) (Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.customerIndex(deal.CustomerID) < 0 {
		return Deal{}, apperr.NotFound(msgCustomerNotFound).WithOp("CreateDeal")
	}
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	} else if r.dealIndex(deal.ID) >= 0 {
		return Deal{}, apperr.Conflict("deal already exists").WithOp("CreateDeal")
	}
	r.deals = append(r.deals, deal)
	return deal, nil
}

// UpdateDeal replaces the stored deal with the same ID.
func (r *MemoryRepository) UpdateDeal(_ context.Context, deal Deal) (Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.dealIndex(deal.ID)
	if idx < 0 {
		return Deal{}, apperr.NotFound(msgDealNotFound).WithOp("UpdateDeal")
	}
	r.deals[idx] = deal
	return deal, nil
}

// DeleteDeal removes the deal with id.
func (r *MemoryRepository) DeleteDeal(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.dealIndex(id)
	if idx < 0 {
		return apperr.NotFound(msgDealNotFound).WithOp("DeleteDeal")
	}
	r.deals = append(r.deals[:idx], r.deals[idx+1:]...)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
