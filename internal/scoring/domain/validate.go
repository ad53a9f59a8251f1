package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Issue codes reported by ValidateCriteria.
const (
	IssueWeightSum        = "weight_sum"
	IssueNegativeWeight   = "negative_weight"
	IssueWeightTooLarge   = "weight_too_large"
	IssueUnknownAttribute = "unknown_attribute"
	IssueUnknownType      = "unknown_type"
	IssueTypeMismatch     = "type_mismatch"
	IssueEmptyTable       = "empty_table"
	IssueInvertedRange    = "inverted_range"
	IssueOverlappingRange = "overlapping_range"
	IssueDuplicateValue   = "duplicate_category"
	IssueDuplicateName    = "duplicate_name"
)

// Issue is one problem found in a criteria set. CriterionID is uuid.Nil for
// issues about the set as a whole.
type Issue struct {
	CriterionID uuid.UUID
	Criterion   string
	Code        string
	Message     string
}

// Issues is the error returned by ValidateCriteria.
type Issues []Issue

func (is Issues) Error() string {
	msgs := make([]string, len(is))
	for i, issue := range is {
		if issue.Criterion != "" {
			msgs[i] = issue.Criterion + ": " + issue.Message
		} else {
			msgs[i] = issue.Message
		}
	}
	return fmt.Sprintf("%d criteria issue(s): %s", len(is), strings.Join(msgs, "; "))
}

// Has reports whether an issue with code was found.
func (is Issues) Has(code string) bool {
	for _, issue := range is {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// ValidateCriteria checks a criteria set without changing it. It returns nil
// for a clean set and Issues otherwise. Evaluation never calls this; callers
// that need bounded scores opt in.
func ValidateCriteria(criteria []Criterion) error {
	var issues Issues

	if len(criteria) > 0 {
		if total := TotalWeight(criteria); total != 100 {
			issues = append(issues, Issue{
				Code:    IssueWeightSum,
				Message: fmt.Sprintf("weights sum to %d, expected 100", total),
			})
		}
	}

	names := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if _, dup := names[key]; dup {
			issues = append(issues, issueFor(c, IssueDuplicateName, "name is used by another criterion"))
		}
		names[key] = struct{}{}
		issues = append(issues, validateCriterion(c)...)
	}

	if len(issues) == 0 {
		return nil
	}
	return issues
}

func validateCriterion(c Criterion) Issues {
	var issues Issues

	if c.Weight < 0 {
		issues = append(issues, issueFor(c, IssueNegativeWeight, fmt.Sprintf("weight %d is negative", c.Weight)))
	}
	if c.Weight > 100 {
		issues = append(issues, issueFor(c, IssueWeightTooLarge, fmt.Sprintf("weight %d exceeds 100", c.Weight)))
	}
	if !c.Attribute.Valid() {
		issues = append(issues, issueFor(c, IssueUnknownAttribute, fmt.Sprintf("attribute %q is not scored", c.Attribute)))
	}

	switch c.Type {
	case TypeCategorical:
		if len(c.Categories) == 0 {
			issues = append(issues, issueFor(c, IssueEmptyTable, "categorical criterion has no categories"))
		}
		seen := make(map[string]struct{}, len(c.Categories))
		for _, cat := range c.Categories {
			if _, dup := seen[cat.Value]; dup {
				issues = append(issues, issueFor(c, IssueDuplicateValue,
					fmt.Sprintf("category %q appears more than once; only the first is used", cat.Value)))
			}
			seen[cat.Value] = struct{}{}
		}
	case TypeRange:
		if c.Attribute.Valid() && !c.Attribute.Numeric() {
			issues = append(issues, issueFor(c, IssueTypeMismatch,
				fmt.Sprintf("attribute %q is not numeric and cannot be matched by ranges", c.Attribute)))
		}
		if len(c.Ranges) == 0 {
			issues = append(issues, issueFor(c, IssueEmptyTable, "range criterion has no ranges"))
		}
		for i, r := range c.Ranges {
			if r.Min > r.Max {
				issues = append(issues, issueFor(c, IssueInvertedRange,
					fmt.Sprintf("range %d has min %v above max %v", i+1, r.Min, r.Max)))
			}
		}
		for i := 0; i < len(c.Ranges); i++ {
			for j := i + 1; j < len(c.Ranges); j++ {
				a, b := c.Ranges[i], c.Ranges[j]
				if a.Min <= a.Max && b.Min <= b.Max && a.Overlaps(b) {
					issues = append(issues, issueFor(c, IssueOverlappingRange,
						fmt.Sprintf("ranges %d and %d overlap; range %d wins for shared values", i+1, j+1, i+1)))
				}
			}
		}
	default:
		issues = append(issues, issueFor(c, IssueUnknownType, fmt.Sprintf("type %q is not supported", c.Type)))
	}

	return issues
}

func issueFor(c Criterion, code, message string) Issue {
	return Issue{CriterionID: c.ID, Criterion: c.Name, Code: code, Message: message}
}
