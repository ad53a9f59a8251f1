package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	custrepo "clientflow_backend/internal/customers/repository"
	"clientflow_backend/internal/scoring/ports"
)

const unexpectedDealValueMsg = "unexpected deal value: %v"

var (
	storeCustomerID = uuid.MustParse("7c1d5f0e-2a4b-4c61-9a3e-0f1b2c3d4e01")
	otherCustomerID = uuid.MustParse("7c1d5f0e-2a4b-4c61-9a3e-0f1b2c3d4e02")
)

func storeCustomer() custrepo.Customer {
	return custrepo.Customer{
		ID:              storeCustomerID,
		Name:            "John Smith",
		Company:         "TechCorp Solutions",
		LeadSource:      "Website",
		CompanySize:     500,
		EngagementLevel: "High",
		ResponseTime:    4,
		LeadScore:       62,
		ScoringHistory: []custrepo.ScoreHistoryEntry{
			{Date: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), Score: 62, Reason: "Initial scoring"},
		},
	}
}

func TestSubjectForUsesLargestOpenDeal(t *testing.T) {
	deals := []custrepo.Deal{
		{CustomerID: storeCustomerID, Value: 8000, Stage: custrepo.StageQualified},
		{CustomerID: storeCustomerID, Value: 45000, Stage: custrepo.StageProposal},
		{CustomerID: storeCustomerID, Value: 90000, Stage: custrepo.StageClosed},
		{CustomerID: otherCustomerID, Value: 70000, Stage: custrepo.StageLead},
	}

	subject := SubjectFor(storeCustomer(), deals)
	if subject.DealValue == nil || *subject.DealValue != 45000 {
		t.Fatalf(unexpectedDealValueMsg, subject.DealValue)
	}
	if subject.CompanySize != 500 || subject.LeadSource != "Website" || subject.ResponseTime != 4 {
		t.Fatalf("unexpected subject: %+v", subject)
	}
}

func TestSubjectForLeavesDealValueUnresolvedWithoutOpenDeal(t *testing.T) {
	deals := []custrepo.Deal{{CustomerID: storeCustomerID, Value: 12000, Stage: custrepo.StageClosed}}

	if subject := SubjectFor(storeCustomer(), deals); subject.DealValue != nil {
		t.Fatalf(unexpectedDealValueMsg, *subject.DealValue)
	}
	if subject := SubjectFor(storeCustomer(), nil); subject.DealValue != nil {
		t.Fatalf(unexpectedDealValueMsg, *subject.DealValue)
	}
}

func TestApplyScoreAppendsHistory(t *testing.T) {
	repo := custrepo.NewMemoryRepository([]custrepo.Customer{storeCustomer()}, nil)
	store := NewScoringCustomerStore(repo)
	at := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	err := store.ApplyScore(context.Background(), ports.ScoreUpdate{
		CustomerID: storeCustomerID,
		Previous:   62,
		Score:      50,
		Date:       at,
		Reason:     "Scoring criteria updated",
	})
	if err != nil {
		t.Fatalf("apply score: %v", err)
	}

	got, err := repo.GetCustomer(context.Background(), storeCustomerID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if got.LeadScore != 50 {
		t.Fatalf("expected lead score 50, got %d", got.LeadScore)
	}
	if len(got.ScoringHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(got.ScoringHistory))
	}
	last := got.ScoringHistory[1]
	if last.Score != 50 || !last.Date.Equal(at) || last.Reason != "Scoring criteria updated" {
		t.Fatalf("unexpected history entry: %+v", last)
	}
	if !got.UpdatedAt.Equal(at) {
		t.Fatalf("expected UpdatedAt %v, got %v", at, got.UpdatedAt)
	}
}

func TestApplyScoreUnknownCustomer(t *testing.T) {
	store := NewScoringCustomerStore(custrepo.NewMemoryRepository(nil, nil))
	if err := store.ApplyScore(context.Background(), ports.ScoreUpdate{CustomerID: uuid.New(), Score: 10}); err == nil {
		t.Fatal("expected an error for an unknown customer")
	}
}

func TestListScoredCustomersKeepsStoreOrder(t *testing.T) {
	other := storeCustomer()
	other.ID = otherCustomerID
	other.Name = "Emily Davis"
	repo := custrepo.NewMemoryRepository(
		[]custrepo.Customer{storeCustomer(), other},
		[]custrepo.Deal{{ID: uuid.New(), CustomerID: otherCustomerID, Value: 12000, Stage: custrepo.StageNegotiation}},
	)

	got, err := NewScoringCustomerStore(repo).ListScoredCustomers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].Name != "John Smith" || got[1].Name != "Emily Davis" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].Subject.DealValue != nil {
		t.Fatal("expected no deal value for a customer without deals")
	}
	if got[1].Subject.DealValue == nil || *got[1].Subject.DealValue != 12000 {
		t.Fatalf(unexpectedDealValueMsg, got[1].Subject.DealValue)
	}
}
