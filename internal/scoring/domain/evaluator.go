package domain

import (
	"math"
	"strconv"

	"github.com/google/uuid"
)

// Subject is the attribute snapshot of one customer as the evaluator sees
// it. DealValue is nil when the customer has no open deal.
type Subject struct {
	CompanySize     int
	DealValue       *float64
	LeadSource      string
	EngagementLevel string
	ResponseTime    int
}

// attribute is a resolved value. present is false when the value is
// missing or the attribute key is unknown.
type attribute struct {
	number  float64
	text    string
	present bool
}

func (s Subject) resolve(key AttributeKey) attribute {
	switch key {
	case AttributeCompanySize:
		return numeric(float64(s.CompanySize))
	case AttributeDealValue:
		if s.DealValue == nil {
			return attribute{}
		}
		return numeric(*s.DealValue)
	case AttributeLeadSource:
		return attribute{text: s.LeadSource, present: true}
	case AttributeEngagementLevel:
		return attribute{text: s.EngagementLevel, present: true}
	case AttributeResponseTime:
		return numeric(float64(s.ResponseTime))
	default:
		return attribute{}
	}
}

// numeric values also carry their decimal text so a categorical criterion
// can match them exactly, e.g. a company size of "150".
func numeric(v float64) attribute {
	return attribute{number: v, text: strconv.FormatFloat(v, 'f', -1, 64), present: true}
}

// CriterionResult is the contribution of one criterion to a total.
type CriterionResult struct {
	CriterionID uuid.UUID
	Name        string
	Attribute   AttributeKey
	Type        CriterionType
	Weight      int
	Matched     bool
	MatchLabel  string
	RawScore    float64
	Weighted    float64
}

// Evaluation is the outcome of scoring one subject.
type Evaluation struct {
	// Total is the unrounded weighted sum. It is not clamped and can leave
	// [0,100] when weights do not sum to 100.
	Total float64
	// Score is Total rounded half away from zero.
	Score     int
	Breakdown []CriterionResult
}

// Bucket classifies the rounded score.
func (e Evaluation) Bucket() Bucket {
	return Classify(float64(e.Score))
}

// Evaluate scores subject against criteria in list order. An unresolved
// attribute, an unknown attribute key or a value matching no category or
// range contributes a raw score of 0; none of these is an error.
func Evaluate(subject Subject, criteria []Criterion) Evaluation {
	eval := Evaluation{Breakdown: make([]CriterionResult, 0, len(criteria))}
	for _, c := range criteria {
		result := evaluateCriterion(subject, c)
		eval.Total += result.Weighted
		eval.Breakdown = append(eval.Breakdown, result)
	}
	eval.Score = RoundScore(eval.Total)
	return eval
}

// RoundScore rounds a total to the integer stored as a lead score.
func RoundScore(total float64) int {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return int(math.Round(total))
}

func evaluateCriterion(subject Subject, c Criterion) CriterionResult {
	result := CriterionResult{
		CriterionID: c.ID,
		Name:        c.Name,
		Attribute:   c.Attribute,
		Type:        c.Type,
		Weight:      c.Weight,
	}

	value := subject.resolve(c.Attribute)
	if !value.present {
		return result
	}

	switch c.Type {
	case TypeCategorical:
		for _, cat := range c.Categories {
			if cat.Value == value.text {
				result.Matched = true
				result.MatchLabel = cat.Label
				result.RawScore = cat.Score
				break
			}
		}
	case TypeRange:
		if !c.Attribute.Numeric() {
			return result
		}
		for _, r := range c.Ranges {
			if r.Contains(value.number) {
				result.Matched = true
				result.MatchLabel = r.Label
				result.RawScore = r.Score
				break
			}
		}
	}

	result.Weighted = result.RawScore * float64(c.Weight) / 100
	return result
}
