// Package domain holds the lead scoring model: criteria, the weighted
// evaluator, the score classifier and the optional criteria validation pass.
// Everything here is pure and safe to call from tests without setup.
package domain

import "github.com/google/uuid"

// AttributeKey selects which customer attribute a criterion reads. The
// display name of a criterion has no effect on evaluation.
type AttributeKey string

const (
	AttributeCompanySize     AttributeKey = "companySize"
	AttributeDealValue       AttributeKey = "dealValue"
	AttributeLeadSource      AttributeKey = "leadSource"
	AttributeEngagementLevel AttributeKey = "engagementLevel"
	AttributeResponseTime    AttributeKey = "responseTime"
)

// AttributeKeys lists every attribute a criterion can read.
var AttributeKeys = []AttributeKey{
	AttributeCompanySize,
	AttributeDealValue,
	AttributeLeadSource,
	AttributeEngagementLevel,
	AttributeResponseTime,
}

// Valid reports whether k is a known attribute.
func (k AttributeKey) Valid() bool {
	switch k {
	case AttributeCompanySize, AttributeDealValue, AttributeLeadSource,
		AttributeEngagementLevel, AttributeResponseTime:
		return true
	}
	return false
}

// Numeric reports whether the attribute is matched against ranges.
func (k AttributeKey) Numeric() bool {
	switch k {
	case AttributeCompanySize, AttributeDealValue, AttributeResponseTime:
		return true
	}
	return false
}

// CriterionType selects how a criterion maps a value to a raw score.
type CriterionType string

const (
	TypeCategorical CriterionType = "categorical"
	TypeRange       CriterionType = "range"
)

// Valid reports whether t is a known criterion type.
func (t CriterionType) Valid() bool {
	return t == TypeCategorical || t == TypeRange
}

// Category maps one exact attribute value to a raw score.
type Category struct {
	Value string  `yaml:"value" json:"value"`
	Score float64 `yaml:"score" json:"score"`
	Label string  `yaml:"label" json:"label"`
}

// Range maps an inclusive numeric interval to a raw score.
type Range struct {
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
	Score float64 `yaml:"score" json:"score"`
	Label string  `yaml:"label" json:"label"`
}

// Contains reports whether v lies within the inclusive bounds.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Overlaps reports whether r and o share at least one value.
func (r Range) Overlaps(o Range) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

// Criterion is a named, weighted rule. Only Categories or Ranges is read,
// depending on Type. Weight is a percentage that is not required to sum to
// 100 across the active set.
type Criterion struct {
	ID          uuid.UUID
	Name        string
	Description string
	Weight      int
	Type        CriterionType
	Attribute   AttributeKey
	Categories  []Category
	Ranges      []Range
}

// Clone returns a copy sharing no slices with c.
func (c Criterion) Clone() Criterion {
	out := c
	if c.Categories != nil {
		out.Categories = append([]Category(nil), c.Categories...)
	}
	if c.Ranges != nil {
		out.Ranges = append([]Range(nil), c.Ranges...)
	}
	return out
}

// CloneAll deep-copies a criteria list.
func CloneAll(criteria []Criterion) []Criterion {
	out := make([]Criterion, len(criteria))
	for i, c := range criteria {
		out[i] = c.Clone()
	}
	return out
}

// TotalWeight sums the weights of all criteria.
func TotalWeight(criteria []Criterion) int {
	total := 0
	for _, c := range criteria {
		total += c.Weight
	}
	return total
}
