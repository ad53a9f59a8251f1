package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"clientflow_backend/internal/scoring/transport"
	"clientflow_backend/platform/apperr"
)

// parseCategory reads "value=score[:label]".
func parseCategory(s string) (transport.Category, error) {
	value, rest, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(value) == "" {
		return transport.Category{}, apperr.BadRequest(fmt.Sprintf("category %q must look like value=score[:label]", s))
	}
	score, label, err := parseScoreLabel(rest)
	if err != nil {
		return transport.Category{}, apperr.BadRequest(fmt.Sprintf("category %q: %v", s, err))
	}
	return transport.Category{Value: strings.TrimSpace(value), Score: score, Label: label}, nil
}

// parseRange reads "min-max=score[:label]". An empty max or "inf" leaves
// the range unbounded.
func parseRange(s string) (transport.Range, error) {
	bounds, rest, ok := strings.Cut(s, "=")
	if !ok {
		return transport.Range{}, apperr.BadRequest(fmt.Sprintf("range %q must look like min-max=score[:label]", s))
	}
	lo, hi, ok := strings.Cut(bounds, "-")
	if !ok {
		return transport.Range{}, apperr.BadRequest(fmt.Sprintf("range %q is missing the '-' between min and max", s))
	}

	lower, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return transport.Range{}, apperr.BadRequest(fmt.Sprintf("range %q: bad min", s))
	}
	r := transport.Range{Min: lower}

	hi = strings.TrimSpace(hi)
	if hi != "" && !strings.EqualFold(hi, "inf") {
		upper, err := strconv.ParseFloat(hi, 64)
		if err != nil || math.IsInf(upper, 0) {
			return transport.Range{}, apperr.BadRequest(fmt.Sprintf("range %q: bad max", s))
		}
		r.Max = &upper
	}

	r.Score, r.Label, err = parseScoreLabel(rest)
	if err != nil {
		return transport.Range{}, apperr.BadRequest(fmt.Sprintf("range %q: %v", s, err))
	}
	return r, nil
}

func parseScoreLabel(s string) (float64, string, error) {
	raw, label, _ := strings.Cut(s, ":")
	score, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, "", fmt.Errorf("bad score %q", raw)
	}
	return score, strings.TrimSpace(label), nil
}

type weightOverride struct {
	ref    string
	weight int
}

// parseWeightOverride reads "name=weight". The name may itself contain '='.
func parseWeightOverride(s string) (weightOverride, error) {
	idx := strings.LastIndex(s, "=")
	if idx <= 0 {
		return weightOverride{}, apperr.BadRequest(fmt.Sprintf("weight %q must look like name=weight", s))
	}
	weight, err := strconv.Atoi(strings.TrimSpace(s[idx+1:]))
	if err != nil {
		return weightOverride{}, apperr.BadRequest(fmt.Sprintf("weight %q is not a whole number", s))
	}
	return weightOverride{ref: strings.TrimSpace(s[:idx]), weight: weight}, nil
}
