package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientflow_backend/internal/adapters"
	"clientflow_backend/internal/customers"
	"clientflow_backend/internal/events"
	"clientflow_backend/internal/notification"
	"clientflow_backend/internal/scoring"
	scoringtransport "clientflow_backend/internal/scoring/transport"
	"clientflow_backend/platform/apperr"
	"clientflow_backend/platform/config"
	"clientflow_backend/platform/format"
	"clientflow_backend/platform/logger"
	"clientflow_backend/platform/validator"
)

const (
	emilyDealID = "3f9a6b2c-8d41-4e7f-b5a0-1c2d3e4f5a02"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		HistoryReason:  config.DefaultHistoryReason,
		CurrencyLocale: "en-US",
		CurrencyCode:   "USD",
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	log := logger.Discard()
	val := validator.New()
	bus := events.NewInMemoryBus(log)
	notification.New(log).RegisterHandlers(bus)

	customersModule, err := customers.NewModule(testConfig(), val, log)
	require.NoError(t, err)
	customersModule.Service().SetEventBus(bus)

	store := adapters.NewScoringCustomerStore(customersModule.Repository())
	scoringModule, err := scoring.NewModule(context.Background(), store, bus, val, testConfig(), log)
	require.NoError(t, err)

	return &Session{
		ID:        "test-session",
		Customers: customersModule.Service(),
		Scoring:   scoringModule.Service(),
		Format:    format.Default(),
		Now:       func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func run(t *testing.T, s *Session, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(s)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCriteriaList(t *testing.T) {
	out, err := run(t, newTestSession(t), "criteria", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Company Size")
	assert.Contains(t, out, "Lead Source Quality")
	assert.Contains(t, out, "Total weight: 100")
}

func TestCriteriaListJSON(t *testing.T) {
	out, err := run(t, newTestSession(t), "criteria", "list", "--json")
	require.NoError(t, err)

	var list scoringtransport.CriteriaListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Items, 5)
	assert.Equal(t, 100, list.TotalWeight)
	last := list.Items[0].Ranges[len(list.Items[0].Ranges)-1]
	assert.Nil(t, last.Max, "open-ended range has no max")
}

func TestCriteriaWeightThenStrictValidateFails(t *testing.T) {
	s := newTestSession(t)

	out, err := run(t, s, "criteria", "weight", "Deal Value", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Reweighted")

	out, err = run(t, s, "criteria", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "weights sum to 110")

	_, err = run(t, s, "criteria", "validate", "--strict")
	require.Error(t, err)
	assert.Equal(t, 2, apperr.ExitCode(err))
}

func TestCriteriaWeightOutOfRange(t *testing.T) {
	_, err := run(t, newTestSession(t), "criteria", "weight", "Deal Value", "150")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCriteriaDeleteUnknownIsNotFound(t *testing.T) {
	_, err := run(t, newTestSession(t), "criteria", "delete", "Industry")
	require.Error(t, err)
	assert.Equal(t, 3, apperr.ExitCode(err))
}

func TestCriteriaAddAndDelete(t *testing.T) {
	s := newTestSession(t)

	out, err := run(t, s, "criteria", "add",
		"--name", "Team Size",
		"--description", "Employees again",
		"--type", "range",
		"--attribute", "companySize",
		"--weight", "5",
		"--range", "1-50=20",
		"--range", "51-=80:Large",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Large")

	out, err = run(t, s, "criteria", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Team Size")
	assert.Contains(t, out, "Total weight: 105")

	out, err = run(t, s, "criteria", "delete", "team size")
	require.NoError(t, err)
	assert.Contains(t, out, "Total weight: 100")
}

func TestCriteriaAddRejectsBadInput(t *testing.T) {
	s := newTestSession(t)

	_, err := run(t, s, "criteria", "add", "--name", "X", "--description", "Y",
		"--type", "categorical", "--attribute", "industry", "--category", "Tech=50")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = run(t, s, "criteria", "add", "--name", "X", "--description", "Y",
		"--type", "categorical", "--attribute", "leadSource", "--category", "Tech")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestCriteriaEdit(t *testing.T) {
	s := newTestSession(t)

	out, err := run(t, s, "criteria", "edit", "Engagement Level", "--name", "Engagement", "--weight", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated")
	assert.Contains(t, out, "weight 20%")

	out, err = run(t, s, "criteria", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total weight: 105")
}

func TestScoreShowsBreakdown(t *testing.T) {
	out, err := run(t, newTestSession(t), "score", "John Smith")
	require.NoError(t, err)
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "Score 50/100")
	assert.Contains(t, out, "$10K-$50K")
	assert.Contains(t, out, "stored score 62")
}

func TestScoreUnknownCustomer(t *testing.T) {
	_, err := run(t, newTestSession(t), "score", "Nobody")
	require.Error(t, err)
	assert.Equal(t, 3, apperr.ExitCode(err))
}

func TestClosedDealLeavesDealValueUnresolved(t *testing.T) {
	s := newTestSession(t)

	out, err := run(t, s, "deals", "move", emilyDealID, "closed")
	require.NoError(t, err)
	assert.Contains(t, out, "Closed Won")

	out, err = run(t, s, "score", "Emily Davis", "--json")
	require.NoError(t, err)

	var resp scoringtransport.ScoreResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.InDelta(t, 30.25, resp.Total, 1e-9)
	assert.Equal(t, 30, resp.Score)
	assert.Equal(t, "low", resp.Bucket)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	s := newTestSession(t)

	out, err := run(t, s, "recalculate")
	require.NoError(t, err)
	assert.Contains(t, out, "Evaluated 3 customers, 2 changed")
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "David Rodriguez")

	out, err = run(t, s, "recalculate")
	require.NoError(t, err)
	assert.Contains(t, out, "Evaluated 3 customers, 0 changed")

	out, err = run(t, s, "customers", "show", "John Smith", "--json")
	require.NoError(t, err)
	var customer struct {
		LeadScore      int `json:"leadScore"`
		ScoringHistory []struct {
			Score  int    `json:"score"`
			Reason string `json:"reason"`
		} `json:"scoringHistory"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &customer))
	assert.Equal(t, 50, customer.LeadScore)
	require.Len(t, customer.ScoringHistory, 2)
	assert.Equal(t, "Initial scoring", customer.ScoringHistory[0].Reason)
	assert.Equal(t, "Scoring criteria updated", customer.ScoringHistory[1].Reason)
}

func TestRecalculateWithWeightOverride(t *testing.T) {
	out, err := run(t, newTestSession(t), "recalculate", "--weight", "Company Size=50", "--json")
	require.NoError(t, err)

	var result scoringtransport.RecalculationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.Changed)
	assert.Equal(t, "John Smith", result.Changed[0].Name)
	assert.Equal(t, 68, result.Changed[0].Current)
}

func TestRecalculateRejectsBadOverride(t *testing.T) {
	_, err := run(t, newTestSession(t), "recalculate", "--weight", "Company Size")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestDashboard(t *testing.T) {
	out, err := run(t, newTestSession(t), "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Lead scores")
	assert.Contains(t, out, "$65,000")
	assert.Contains(t, out, "Closed Won")
	assert.Contains(t, out, "conversion 0%")
}

func TestCustomersSearch(t *testing.T) {
	out, err := run(t, newTestSession(t), "customers", "search", "TECH")
	require.NoError(t, err)
	assert.Contains(t, out, "TechCorp Solutions")
	assert.NotContains(t, out, "Innovate Digital")
}

func TestDealsMoveRejectsUnknownStage(t *testing.T) {
	s := newTestSession(t)

	_, err := run(t, s, "deals", "move", emilyDealID, "won")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = run(t, s, "deals", "move", "not-a-uuid", "lead")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestCriteriaFlagLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`criteria:
  - name: Engagement only
    description: Engagement decides everything
    weight: 100
    type: categorical
    attribute: engagementLevel
    categories:
      - {value: High, score: 90}
`), 0o600))

	out, err := run(t, newTestSession(t), "--criteria", path, "score", "Emily Davis", "--json")
	require.NoError(t, err)

	var resp scoringtransport.ScoreResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 90, resp.Score)
	assert.Equal(t, "high", resp.Bucket)
}

func TestCriteriaExport(t *testing.T) {
	out, err := run(t, newTestSession(t), "criteria", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "criteria:")
	assert.Contains(t, out, "attribute: dealValue")
}

func TestPrintErrorIncludesFieldIssues(t *testing.T) {
	s := newTestSession(t)
	_, err := run(t, s, "criteria", "add", "--type", "range", "--attribute", "companySize", "--range", "1-10=5")
	require.Error(t, err)

	var buf bytes.Buffer
	PrintError(&buf, err)
	assert.Contains(t, buf.String(), "validation failed")
	assert.Contains(t, buf.String(), "name failed required")
}
