package domain

import (
	"math"

	"github.com/google/uuid"
)

// unbounded is the upper bound of the last bucket of an open-ended range.
var unbounded = math.Inf(1)

// DefaultCriteria returns the seeded criteria set. Weights sum to 100 at
// seed time; nothing keeps them that way afterwards. Each call returns new
// IDs and slices.
func DefaultCriteria() []Criterion {
	return []Criterion{
		{
			ID:          uuid.New(),
			Name:        "Company Size",
			Description: "Number of employees at the customer's company",
			Weight:      25,
			Type:        TypeRange,
			Attribute:   AttributeCompanySize,
			Ranges: []Range{
				{Min: 1, Max: 10, Score: 15, Label: "1-10 employees"},
				{Min: 11, Max: 50, Score: 25, Label: "11-50 employees"},
				{Min: 51, Max: 200, Score: 35, Label: "51-200 employees"},
				{Min: 201, Max: 1000, Score: 70, Label: "201-1000 employees"},
				{Min: 1001, Max: unbounded, Score: 100, Label: "1000+ employees"},
			},
		},
		{
			ID:          uuid.New(),
			Name:        "Deal Value",
			Description: "Value of the customer's most valuable open deal",
			Weight:      30,
			Type:        TypeRange,
			Attribute:   AttributeDealValue,
			Ranges: []Range{
				{Min: 1, Max: 9999, Score: 20, Label: "Under $10K"},
				{Min: 10000, Max: 49999, Score: 50, Label: "$10K-$50K"},
				{Min: 50000, Max: 99999, Score: 75, Label: "$50K-$100K"},
				{Min: 100000, Max: unbounded, Score: 100, Label: "$100K+"},
			},
		},
		{
			ID:          uuid.New(),
			Name:        "Lead Source Quality",
			Description: "How the customer found us",
			Weight:      20,
			Type:        TypeCategorical,
			Attribute:   AttributeLeadSource,
			Categories: []Category{
				{Value: "Referral", Score: 50, Label: "Referral"},
				{Value: "LinkedIn", Score: 40, Label: "LinkedIn"},
				{Value: "Trade Show", Score: 35, Label: "Trade Show"},
				{Value: "Website", Score: 30, Label: "Website"},
				{Value: "Social Media", Score: 25, Label: "Social Media"},
				{Value: "Email Campaign", Score: 20, Label: "Email Campaign"},
				{Value: "Cold Call", Score: 10, Label: "Cold Call"},
			},
		},
		{
			ID:          uuid.New(),
			Name:        "Engagement Level",
			Description: "Interaction with emails, calls and meetings",
			Weight:      15,
			Type:        TypeCategorical,
			Attribute:   AttributeEngagementLevel,
			Categories: []Category{
				{Value: "High", Score: 50, Label: "High engagement"},
				{Value: "Medium", Score: 30, Label: "Medium engagement"},
				{Value: "Low", Score: 15, Label: "Low engagement"},
				{Value: "None", Score: 0, Label: "No engagement"},
			},
		},
		{
			ID:          uuid.New(),
			Name:        "Response Time",
			Description: "Hours the customer takes to answer outreach",
			Weight:      10,
			Type:        TypeRange,
			Attribute:   AttributeResponseTime,
			Ranges: []Range{
				{Min: 0, Max: 1, Score: 50, Label: "Within an hour"},
				{Min: 2, Max: 24, Score: 40, Label: "Same day"},
				{Min: 25, Max: 72, Score: 20, Label: "Within 3 days"},
				{Min: 73, Max: unbounded, Score: 5, Label: "Slower than 3 days"},
			},
		},
	}
}
