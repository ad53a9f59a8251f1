// Package format provides locale-aware display formatting for amounts,
// dates and labels. This is part of the platform layer and contains no
// business logic.
package format

import (
	"fmt"
	"strings"
	"time"

	"clientflow_backend/platform/config"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const shortDateLayout = "Jan 02"

// Formatter renders values for a single locale and currency.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
	title   cases.Caser
}

// New creates a Formatter from configuration.
func New(cfg config.FormatConfig) (*Formatter, error) {
	tag, err := language.Parse(cfg.GetCurrencyLocale())
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", cfg.GetCurrencyLocale(), err)
	}
	unit, err := currency.ParseISO(cfg.GetCurrencyCode())
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", cfg.GetCurrencyCode(), err)
	}
	return &Formatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
		title:   cases.Title(tag),
	}, nil
}

// Default returns an en-US / USD formatter.
func Default() *Formatter {
	return &Formatter{
		printer: message.NewPrinter(language.AmericanEnglish),
		unit:    currency.USD,
		title:   cases.Title(language.AmericanEnglish),
	}
}

// Currency renders a whole-unit amount with digit grouping, e.g. "$45,000".
func (f *Formatter) Currency(value float64) string {
	amount := f.printer.Sprint(number.Decimal(value, number.MaxFractionDigits(0)))
	if f.unit == currency.USD {
		return "$" + amount
	}
	return f.unit.String() + " " + amount
}

// Integer renders n with locale digit grouping.
func (f *Formatter) Integer(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Decimal renders v with at most digits fraction digits.
func (f *Formatter) Decimal(v float64, digits int) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(digits)))
}

// Title renders an identifier such as "negotiation" or "trade show" as a
// display title.
func (f *Formatter) Title(s string) string {
	return f.title.String(strings.ReplaceAll(strings.TrimSpace(s), "_", " "))
}

// ShortDate renders a date as "Jan 02".
func ShortDate(t time.Time) string {
	return t.Format(shortDateLayout)
}

// InputDate renders a date as "2006-01-02".
func InputDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Relative renders t relative to now, e.g. "3 days ago".
func Relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
