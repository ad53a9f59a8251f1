package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	accent  = lipgloss.Color("#2563EB")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle    = lipgloss.NewStyle().Foreground(dim)
	okStyle     = lipgloss.NewStyle().Foreground(success)
	warnStyle   = lipgloss.NewStyle().Foreground(warning)
	errorStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)

	bucketColors = map[string]lipgloss.Color{
		"high":   success,
		"medium": warning,
		"low":    danger,
	}
)

// badge renders a bucket as a coloured upper-case tag.
func badge(bucket string) string {
	color, ok := bucketColors[bucket]
	if !ok {
		color = dim
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(strings.ToUpper(bucket))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func heading(title string) string {
	return titleStyle.Render(title) + "\n"
}

func weightNote(total int) string {
	line := fmt.Sprintf("Total weight: %d", total)
	if total != 100 {
		return warnStyle.Render(line + " (scores may fall outside 0-100)")
	}
	return dimStyle.Render(line)
}

func formatPoints(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
