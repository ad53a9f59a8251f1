package cli

import (
	"fmt"
	"strings"
	"time"

	customerstransport "clientflow_backend/internal/customers/transport"
	"clientflow_backend/internal/scoring/transport"
	"clientflow_backend/platform/format"
)

func renderCriteriaList(f *format.Formatter, list transport.CriteriaListResponse) string {
	var b strings.Builder
	b.WriteString(heading("Scoring criteria"))

	t := newTable("#", "Name", "Attribute", "Type", "Weight", "Table")
	for i, c := range list.Items {
		t.Row(
			fmt.Sprint(i+1),
			c.Name,
			c.Attribute,
			f.Title(c.Type),
			fmt.Sprintf("%d%%", c.Weight),
			tableSummary(c),
		)
	}
	b.WriteString(t.String() + "\n")
	b.WriteString(weightNote(list.TotalWeight) + "\n")
	return b.String()
}

func tableSummary(c transport.CriterionResponse) string {
	if c.Type == "range" {
		return fmt.Sprintf("%d ranges", len(c.Ranges))
	}
	return fmt.Sprintf("%d categories", len(c.Categories))
}

func renderCriterion(c transport.CriterionResponse) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s · %s on %s · weight %d%%", c.ID, c.Type, c.Attribute, c.Weight)) + "\n")
	if c.Description != "" {
		b.WriteString(c.Description + "\n")
	}

	if c.Type == "range" {
		t := newTable("Min", "Max", "Score", "Label")
		for _, r := range c.Ranges {
			upper := "∞"
			if r.Max != nil {
				upper = formatPoints(*r.Max)
			}
			t.Row(formatPoints(r.Min), upper, formatPoints(r.Score), r.Label)
		}
		b.WriteString(t.String() + "\n")
		return b.String()
	}

	t := newTable("Value", "Score", "Label")
	for _, cat := range c.Categories {
		t.Row(cat.Value, formatPoints(cat.Score), cat.Label)
	}
	b.WriteString(t.String() + "\n")
	return b.String()
}

func renderValidation(resp transport.ValidationResponse) string {
	var b strings.Builder
	if resp.Valid {
		b.WriteString(okStyle.Render("✓ criteria set is valid") + "\n")
		b.WriteString(weightNote(resp.TotalWeight) + "\n")
		return b.String()
	}

	b.WriteString(warnStyle.Render(fmt.Sprintf("%d issue(s) found", len(resp.Issues))) + "\n")
	for _, issue := range resp.Issues {
		line := "  ● "
		if issue.Criterion != "" {
			line += issue.Criterion + ": "
		}
		line += issue.Message + " " + dimStyle.Render("["+issue.Code+"]")
		b.WriteString(line + "\n")
	}
	return b.String()
}

func renderScore(resp transport.ScoreResponse) string {
	var b strings.Builder

	header := titleStyle.Render(resp.Name) + "  " + dimStyle.Render(resp.Company) + "\n" +
		fmt.Sprintf("Score %d/100  %s", resp.Score, badge(resp.Bucket)) + "\n" +
		dimStyle.Render(fmt.Sprintf("weighted total %s · stored score %d", formatPoints(resp.Total), resp.StoredScore))
	b.WriteString(boxStyle.Render(header) + "\n")

	t := newTable("Criterion", "Weight", "Match", "Raw", "Weighted")
	for _, r := range resp.Breakdown {
		match := r.MatchLabel
		if !r.Matched {
			match = dimStyle.Render("no match")
		} else if match == "" {
			match = "matched"
		}
		t.Row(r.Name, fmt.Sprintf("%d%%", r.Weight), match, formatPoints(r.RawScore), formatPoints(r.Weighted))
	}
	b.WriteString(t.String() + "\n")
	return b.String()
}

func renderRecalculation(resp transport.RecalculationResult, now time.Time) string {
	var b strings.Builder
	b.WriteString(heading("Recalculation"))
	b.WriteString(fmt.Sprintf("Evaluated %d customers, %d changed\n", resp.Evaluated, len(resp.Changed)))
	if len(resp.Changed) == 0 {
		b.WriteString(dimStyle.Render("All stored scores already match the active criteria.") + "\n")
		return b.String()
	}

	t := newTable("Customer", "Previous", "Current", "Bucket", "Recorded")
	for _, c := range resp.Changed {
		t.Row(c.Name, fmt.Sprint(c.Previous), fmt.Sprint(c.Current), badge(c.Bucket), format.Relative(c.ChangedAt, now))
	}
	b.WriteString(t.String() + "\n")
	return b.String()
}

func renderDashboard(s *Session, scores transport.DashboardResponse, pipeline customerstransport.PipelineMetricsResponse) string {
	f := s.Format
	var b strings.Builder
	b.WriteString(heading("Lead scores"))

	t := newTable("Customer", "Company", "Stored", "Score", "Bucket")
	for _, c := range scores.Customers {
		t.Row(c.Name, c.Company, fmt.Sprint(c.StoredScore), fmt.Sprint(c.Score), badge(c.Bucket))
	}
	b.WriteString(t.String() + "\n")
	b.WriteString(fmt.Sprintf("%s %d   %s %d   %s %d   average %s\n",
		badge("high"), scores.High,
		badge("medium"), scores.Medium,
		badge("low"), scores.Low,
		f.Decimal(scores.AverageScore, 1),
	))

	b.WriteString("\n" + heading("Pipeline"))
	b.WriteString(fmt.Sprintf("Total value %s · %s deals · conversion %d%% · average deal %s\n",
		f.Currency(pipeline.TotalPipelineValue),
		f.Integer(pipeline.TotalDeals),
		pipeline.ConversionRate,
		f.Currency(float64(pipeline.AverageDealSize)),
	))
	st := newTable("Stage", "Deals", "Value")
	for _, stage := range pipeline.Stages {
		st.Row(stage.Name, fmt.Sprint(stage.Count), f.Currency(stage.Value))
	}
	b.WriteString(st.String() + "\n")
	return b.String()
}
