package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationIssues(t *testing.T, criteria []Criterion) Issues {
	t.Helper()
	err := ValidateCriteria(criteria)
	require.Error(t, err)
	var issues Issues
	require.True(t, errors.As(err, &issues))
	return issues
}

func TestValidateCriteriaAcceptsDefaults(t *testing.T) {
	assert.NoError(t, ValidateCriteria(DefaultCriteria()))
	assert.NoError(t, ValidateCriteria(nil))
}

func TestValidateCriteriaWeightSum(t *testing.T) {
	criteria := DefaultCriteria()
	criteria[0].Weight = 40

	issues := validationIssues(t, criteria)

	assert.True(t, issues.Has(IssueWeightSum))
	assert.Len(t, issues, 1)
	assert.Contains(t, issues.Error(), "weights sum to 115")
}

func TestValidateCriteriaDoesNotMutate(t *testing.T) {
	criteria := DefaultCriteria()
	criteria[0].Weight = 40
	before := CloneAll(criteria)

	_ = ValidateCriteria(criteria)

	assert.Equal(t, before, criteria)
}

func TestValidateCriteriaDetectsTableProblems(t *testing.T) {
	criteria := []Criterion{
		{
			Name: "Size", Weight: 50, Type: TypeRange, Attribute: AttributeCompanySize,
			Ranges: []Range{
				{Min: 0, Max: 10, Score: 10},
				{Min: 5, Max: 20, Score: 20},
				{Min: 50, Max: 30, Score: 30},
			},
		},
		{
			Name: "Source", Weight: 50, Type: TypeCategorical, Attribute: AttributeLeadSource,
			Categories: []Category{{Value: "Referral", Score: 50}, {Value: "Referral", Score: 10}},
		},
	}

	issues := validationIssues(t, criteria)

	assert.True(t, issues.Has(IssueOverlappingRange))
	assert.True(t, issues.Has(IssueInvertedRange))
	assert.True(t, issues.Has(IssueDuplicateValue))
	assert.False(t, issues.Has(IssueWeightSum))
}

func TestValidateCriteriaDetectsShapeProblems(t *testing.T) {
	criteria := []Criterion{
		{Name: "Empty", Weight: -5, Type: TypeCategorical, Attribute: AttributeLeadSource},
		{Name: "Heavy", Weight: 105, Type: TypeRange, Attribute: AttributeEngagementLevel,
			Ranges: []Range{{Min: 0, Max: math.Inf(1), Score: 1}}},
		{Name: "Mystery", Weight: 0, Type: CriterionType("lookup"), Attribute: AttributeKey("industry")},
		{Name: "empty ", Weight: 0, Type: TypeRange, Attribute: AttributeResponseTime},
	}

	issues := validationIssues(t, criteria)

	for _, code := range []string{
		IssueNegativeWeight, IssueWeightTooLarge, IssueUnknownAttribute, IssueUnknownType,
		IssueTypeMismatch, IssueEmptyTable, IssueDuplicateName,
	} {
		assert.True(t, issues.Has(code), code)
	}
}

func TestValidateCriteriaAllowsTouchingOpenEndedRanges(t *testing.T) {
	criteria := []Criterion{{
		Name: "Deal", Weight: 100, Type: TypeRange, Attribute: AttributeDealValue,
		Ranges: []Range{
			{Min: 1, Max: 9999, Score: 20},
			{Min: 10000, Max: math.Inf(1), Score: 100},
		},
	}}

	assert.NoError(t, ValidateCriteria(criteria))
}
