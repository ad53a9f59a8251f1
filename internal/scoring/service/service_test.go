package service

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientflow_backend/internal/events"
	"clientflow_backend/internal/scoring/domain"
	"clientflow_backend/internal/scoring/ports"
	"clientflow_backend/internal/scoring/repository"
	"clientflow_backend/internal/scoring/transport"
	"clientflow_backend/platform/apperr"
	"clientflow_backend/platform/logger"
	platformvalidator "clientflow_backend/platform/validator"
)

type testScoringConfig struct{ reason string }

func (c testScoringConfig) GetCriteriaPath() string  { return "" }
func (c testScoringConfig) GetHistoryReason() string { return c.reason }

var errStoreDown = errors.New("store unavailable")

type historyEntry struct {
	date   time.Time
	score  int
	reason string
}

// fakeStore keeps scored customers in memory and records every update.
// ApplyScore fails on the call numbered failOn (1-based) when set.
type fakeStore struct {
	customers []ports.ScoredCustomer
	history   map[uuid.UUID][]historyEntry
	calls     int
	failOn    int
}

func newFakeStore(customers ...ports.ScoredCustomer) *fakeStore {
	return &fakeStore{customers: customers, history: make(map[uuid.UUID][]historyEntry)}
}

func (f *fakeStore) ListScoredCustomers(context.Context) ([]ports.ScoredCustomer, error) {
	return append([]ports.ScoredCustomer(nil), f.customers...), nil
}

func (f *fakeStore) GetScoredCustomer(_ context.Context, id uuid.UUID) (ports.ScoredCustomer, error) {
	for _, c := range f.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return ports.ScoredCustomer{}, apperr.NotFound("customer not found")
}

func (f *fakeStore) ApplyScore(_ context.Context, u ports.ScoreUpdate) error {
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return errStoreDown
	}
	for i := range f.customers {
		if f.customers[i].ID == u.CustomerID {
			f.customers[i].LeadScore = u.Score
			f.history[u.CustomerID] = append(f.history[u.CustomerID], historyEntry{u.Date, u.Score, u.Reason})
			return nil
		}
	}
	return apperr.NotFound("customer not found")
}

func dealValue(v float64) *float64 { return &v }

func fixtureCustomers() []ports.ScoredCustomer {
	return []ports.ScoredCustomer{
		{
			ID: uuid.New(), Name: "John Smith", Company: "TechCorp Solutions", LeadScore: 62,
			Subject: domain.Subject{CompanySize: 500, DealValue: dealValue(45000), LeadSource: "Website", EngagementLevel: "High", ResponseTime: 4},
		},
		{
			ID: uuid.New(), Name: "Emily Davis", Company: "Innovate Digital", LeadScore: 45,
			Subject: domain.Subject{CompanySize: 150, DealValue: dealValue(12000), LeadSource: "Referral", EngagementLevel: "High", ResponseTime: 2},
		},
		{
			ID: uuid.New(), Name: "David Rodriguez", Company: "StartupXYZ", LeadScore: 20,
			Subject: domain.Subject{CompanySize: 25, DealValue: dealValue(8000), LeadSource: "LinkedIn", EngagementLevel: "Medium", ResponseTime: 30},
		},
	}
}

var fixedNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store ports.CustomerStore) (*Service, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository(domain.DefaultCriteria())
	svc := New(repo, store, platformvalidator.New(), testScoringConfig{}, logger.Discard())
	svc.SetClock(func() time.Time { return fixedNow })
	return svc, repo
}

func findCriterion(t *testing.T, svc *Service, name string) uuid.UUID {
	t.Helper()
	id, err := svc.ResolveCriterion(context.Background(), name)
	require.NoError(t, err)
	return id
}

func TestRecalculateAllUpdatesChangedCustomersOnly(t *testing.T) {
	store := newFakeStore(fixtureCustomers()...)
	svc, _ := newTestService(store)

	result, err := svc.RecalculateAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Evaluated)
	require.Len(t, result.Changed, 2)
	assert.Equal(t, "John Smith", result.Changed[0].Name)
	assert.Equal(t, 62, result.Changed[0].Previous)
	assert.Equal(t, 50, result.Changed[0].Current)
	assert.Equal(t, "medium", result.Changed[0].Bucket)
	assert.Equal(t, "David Rodriguez", result.Changed[1].Name)
	assert.Equal(t, 27, result.Changed[1].Current)

	assert.Equal(t, 2, store.calls, "one update per changed customer")
	assert.Empty(t, store.history[store.customers[1].ID])

	john := store.history[store.customers[0].ID]
	require.Len(t, john, 1)
	assert.Equal(t, historyEntry{fixedNow, 50, "Scoring criteria updated"}, john[0])
}

func TestRecalculateAllIsIdempotent(t *testing.T) {
	store := newFakeStore(fixtureCustomers()...)
	svc, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.RecalculateAll(ctx)
	require.NoError(t, err)

	second, err := svc.RecalculateAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Changed)
	assert.Equal(t, 2, store.calls)
}

func TestRecalculateAllAppendsHistory(t *testing.T) {
	store := newFakeStore(fixtureCustomers()...)
	svc, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.RecalculateAll(ctx)
	require.NoError(t, err)

	_, err = svc.SetWeight(ctx, findCriterion(t, svc, "Company Size"), 50)
	require.NoError(t, err)
	_, err = svc.RecalculateAll(ctx)
	require.NoError(t, err)

	john := store.history[store.customers[0].ID]
	require.Len(t, john, 2)
	assert.Equal(t, 50, john[0].score)
	assert.Equal(t, 68, john[1].score)
}

func TestRecalculateAllStopsAtFirstFailure(t *testing.T) {
	store := newFakeStore(fixtureCustomers()...)
	store.failOn = 2
	svc, _ := newTestService(store)

	result, err := svc.RecalculateAll(context.Background())

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
	assert.ErrorIs(t, err, errStoreDown)
	require.Len(t, result.Changed, 1)
	assert.Equal(t, "John Smith", result.Changed[0].Name)
	assert.Equal(t, 50, store.customers[0].LeadScore, "earlier updates are kept")
	assert.Equal(t, 20, store.customers[2].LeadScore)
}

func TestRecalculateAllHonoursCancellation(t *testing.T) {
	store := newFakeStore(fixtureCustomers()...)
	svc, _ := newTestService(store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.RecalculateAll(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, result.Changed)
	assert.Zero(t, store.calls)
}

func TestRecalculateAllPublishesScoreChanges(t *testing.T) {
	store := newFakeStore(fixtureCustomers()...)
	svc, _ := newTestService(store)
	bus := events.NewInMemoryBus(logger.Discard())
	svc.SetEventBus(bus)

	var got []events.LeadScoreChanged
	bus.Subscribe(events.LeadScoreChanged{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		got = append(got, e.(events.LeadScoreChanged))
		return nil
	}))

	_, err := svc.RecalculateAll(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 62, got[0].Previous)
	assert.Equal(t, 50, got[0].Current)
	assert.Equal(t, fixedNow, got[0].OccurredAt())
}

func TestRecalculateUsesConfiguredReason(t *testing.T) {
	customers := fixtureCustomers()
	updates := Recalculate(customers, domain.DefaultCriteria(), fixedNow, "Quarterly review")

	require.Len(t, updates, 2)
	for _, u := range updates {
		assert.Equal(t, "Quarterly review", u.Reason)
		assert.Equal(t, fixedNow, u.Date)
	}
	assert.Equal(t, 62, customers[0].LeadScore, "input is not modified")
}

func TestScoreCustomer(t *testing.T) {
	customers := fixtureCustomers()
	customers[1].Subject.DealValue = nil
	store := newFakeStore(customers...)
	svc, _ := newTestService(store)

	resp, err := svc.ScoreCustomer(context.Background(), customers[1].ID)
	require.NoError(t, err)

	assert.InDelta(t, 30.25, resp.Total, 1e-9)
	assert.Equal(t, 30, resp.Score)
	assert.Equal(t, "low", resp.Bucket)
	assert.Equal(t, 45, resp.StoredScore)
	require.Len(t, resp.Breakdown, 5)
	assert.False(t, resp.Breakdown[1].Matched)

	_, err = svc.ScoreCustomer(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDashboard(t *testing.T) {
	store := newFakeStore(fixtureCustomers()...)
	svc, _ := newTestService(store)

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, 0, resp.High)
	assert.Equal(t, 2, resp.Medium)
	assert.Equal(t, 1, resp.Low)
	assert.InDelta(t, float64(50+45+27)/3, resp.AverageScore, 1e-9)
	assert.Equal(t, 62, resp.Customers[0].StoredScore)
	assert.Equal(t, 50, resp.Customers[0].Score)
}

func TestAddCriterion(t *testing.T) {
	svc, repo := newTestService(newFakeStore())
	ctx := context.Background()

	resp, err := svc.AddCriterion(ctx, transport.CreateCriterionRequest{
		Name:        "  <b>Industry</b> fit ",
		Description: "Lead source as an industry proxy",
		Weight:      10,
		Type:        "categorical",
		Attribute:   "leadSource",
		Categories:  []transport.Category{{Value: "Referral", Score: 80}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Industry fit", resp.Name)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	all, _ := repo.List(ctx)
	require.Len(t, all, 6)
	assert.Equal(t, 110, domain.TotalWeight(all), "other weights are not adjusted")
}

func TestAddCriterionRejectsInvalidInput(t *testing.T) {
	svc, repo := newTestService(newFakeStore())
	ctx := context.Background()

	tests := []struct {
		name string
		req  transport.CreateCriterionRequest
	}{
		{"blank name", transport.CreateCriterionRequest{Name: " ", Description: "d", Type: "categorical", Attribute: "leadSource", Categories: []transport.Category{{Value: "x"}}}},
		{"unknown attribute", transport.CreateCriterionRequest{Name: "n", Description: "d", Type: "categorical", Attribute: "industry", Categories: []transport.Category{{Value: "x"}}}},
		{"unknown type", transport.CreateCriterionRequest{Name: "n", Description: "d", Type: "lookup", Attribute: "leadSource"}},
		{"weight too large", transport.CreateCriterionRequest{Name: "n", Description: "d", Weight: 120, Type: "categorical", Attribute: "leadSource", Categories: []transport.Category{{Value: "x"}}}},
		{"empty categories", transport.CreateCriterionRequest{Name: "n", Description: "d", Type: "categorical", Attribute: "leadSource"}},
		{"range on text", transport.CreateCriterionRequest{Name: "n", Description: "d", Type: "range", Attribute: "leadSource", Ranges: []transport.Range{{Min: 0, Score: 1}}}},
		{"inverted range", transport.CreateCriterionRequest{Name: "n", Description: "d", Type: "range", Attribute: "companySize", Ranges: []transport.Range{{Min: 10, Max: dealValue(5), Score: 1}}}},
	}
	for _, tt := range tests {
		_, err := svc.AddCriterion(ctx, tt.req)
		assert.True(t, apperr.Is(err, apperr.KindValidation), tt.name)
	}

	all, _ := repo.List(ctx)
	assert.Len(t, all, 5, "failed adds leave the set unchanged")
}

func TestEditCriterion(t *testing.T) {
	svc, repo := newTestService(newFakeStore())
	ctx := context.Background()
	id := findCriterion(t, svc, "Response Time")

	name := "Reply speed"
	resp, err := svc.EditCriterion(ctx, id, transport.UpdateCriterionRequest{
		Name:   &name,
		Ranges: []transport.Range{{Min: 0, Score: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Reply speed", resp.Name)
	require.Len(t, resp.Ranges, 1)
	assert.Nil(t, resp.Ranges[0].Max)

	stored, _ := repo.GetByID(ctx, id)
	assert.True(t, math.IsInf(stored.Ranges[0].Max, 1))
	assert.Equal(t, 10, stored.Weight)

	blank := "  "
	_, err = svc.EditCriterion(ctx, id, transport.UpdateCriterionRequest{Description: &blank})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.EditCriterion(ctx, uuid.New(), transport.UpdateCriterionRequest{Name: &name})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSetWeight(t *testing.T) {
	svc, repo := newTestService(newFakeStore())
	ctx := context.Background()
	id := findCriterion(t, svc, "deal value")

	_, err := svc.SetWeight(ctx, id, 101)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.SetWeight(ctx, id, -1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.SetWeight(ctx, uuid.New(), 10)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	resp, err := svc.SetWeight(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Weight)

	all, _ := repo.List(ctx)
	assert.Equal(t, 70, domain.TotalWeight(all))
}

func TestDeleteCriterion(t *testing.T) {
	store := newFakeStore(fixtureCustomers()...)
	svc, repo := newTestService(store)
	ctx := context.Background()

	require.NoError(t, svc.DeleteCriterion(ctx, findCriterion(t, svc, "Lead Source Quality")))
	all, _ := repo.List(ctx)
	assert.Len(t, all, 4)
	assert.Equal(t, 62, store.customers[0].LeadScore, "stored scores are untouched")

	assert.True(t, apperr.Is(svc.DeleteCriterion(ctx, uuid.New()), apperr.KindNotFound))
}

func TestValidateCriteriaReportsWithoutChanging(t *testing.T) {
	svc, repo := newTestService(newFakeStore())
	ctx := context.Background()

	resp, err := svc.ValidateCriteria(ctx)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Issues)

	_, err = svc.SetWeight(ctx, findCriterion(t, svc, "Company Size"), 40)
	require.NoError(t, err)

	resp, err = svc.ValidateCriteria(ctx)
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, 115, resp.TotalWeight)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, domain.IssueWeightSum, resp.Issues[0].Code)
	assert.Nil(t, resp.Issues[0].CriterionID)

	all, _ := repo.List(ctx)
	assert.Equal(t, 115, domain.TotalWeight(all))
}

const criteriaYAML = `criteria:
  - name: Company Size
    description: Employees
    weight: 60
    type: range
    attribute: companySize
    ranges:
      - {min: 0, max: 100, score: 40}
      - {min: 101, score: 100}
  - name: Engagement
    description: Interaction level
    weight: 40
    type: categorical
    attribute: engagementLevel
    categories:
      - {value: High, score: 100}
      - {value: Low, score: 10}
`

func TestLoadCriteria(t *testing.T) {
	svc, repo := newTestService(newFakeStore())
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	require.NoError(t, os.WriteFile(path, []byte(criteriaYAML), 0o600))

	resp, err := svc.LoadCriteria(ctx, path)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 100, resp.TotalWeight)

	all, _ := repo.List(ctx)
	require.Len(t, all, 2)
	assert.True(t, math.IsInf(all[0].Ranges[1].Max, 1))

	eval := domain.Evaluate(domain.Subject{CompanySize: 500, EngagementLevel: "High"}, all)
	assert.InDelta(t, 100, eval.Total, 1e-9)
}

func TestLoadCriteriaRejectsBadFiles(t *testing.T) {
	svc, repo := newTestService(newFakeStore())
	ctx := context.Background()
	dir := t.TempDir()

	_, err := svc.LoadCriteria(ctx, filepath.Join(dir, "missing.yaml"))
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = svc.ParseCriteria([]byte("criteria: [\n"))
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	_, err = svc.ParseCriteria([]byte("criteria: []\n"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.ParseCriteria([]byte("criteria:\n  - name: X\n    description: Y\n    type: range\n    attribute: leadSource\n    ranges: [{min: 0, score: 1}]\n"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	all, _ := repo.List(ctx)
	assert.Len(t, all, 5)
}

func TestExportCriteriaRoundTripsThroughLoad(t *testing.T) {
	svc, _ := newTestService(newFakeStore())
	ctx := context.Background()

	data, err := svc.ExportCriteria(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "attribute: companySize")

	parsed, err := svc.ParseCriteria(data)
	require.NoError(t, err)
	require.Len(t, parsed, 5)

	subject := domain.Subject{CompanySize: 150, LeadSource: "Referral", EngagementLevel: "High", ResponseTime: 2}
	assert.InDelta(t, 30.25, domain.Evaluate(subject, parsed).Total, 1e-9)
}
