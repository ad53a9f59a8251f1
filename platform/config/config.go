// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// LoggingConfig provides logger settings.
type LoggingConfig interface {
	GetEnv() string
}

// FixturesConfig provides the location of the seed data for a session.
type FixturesConfig interface {
	GetFixturesPath() string
}

// ScoringConfig provides settings for the scoring module.
type ScoringConfig interface {
	GetCriteriaPath() string
	GetHistoryReason() string
}

// FormatConfig provides display formatting settings.
type FormatConfig interface {
	GetCurrencyLocale() string
	GetCurrencyCode() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env            string
	FixturesPath   string
	CriteriaPath   string
	HistoryReason  string
	CurrencyLocale string
	CurrencyCode   string
}

// LoggingConfig implementation
func (c *Config) GetEnv() string { return c.Env }

// FixturesConfig implementation
func (c *Config) GetFixturesPath() string { return c.FixturesPath }

// ScoringConfig implementation
func (c *Config) GetCriteriaPath() string  { return c.CriteriaPath }
func (c *Config) GetHistoryReason() string { return c.HistoryReason }

// FormatConfig implementation
func (c *Config) GetCurrencyLocale() string { return c.CurrencyLocale }
func (c *Config) GetCurrencyCode() string   { return c.CurrencyCode }

// DefaultHistoryReason is written to a customer's scoring history when a
// recalculation changes the score.
const DefaultHistoryReason = "Scoring criteria updated"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		FixturesPath:   strings.TrimSpace(getEnv("FIXTURES_PATH", "")),
		CriteriaPath:   strings.TrimSpace(getEnv("CRITERIA_PATH", "")),
		HistoryReason:  getEnv("SCORE_HISTORY_REASON", DefaultHistoryReason),
		CurrencyLocale: getEnv("CURRENCY_LOCALE", "en-US"),
		CurrencyCode:   strings.ToUpper(getEnv("CURRENCY_CODE", "USD")),
	}

	if strings.TrimSpace(cfg.HistoryReason) == "" {
		return nil, fmt.Errorf("SCORE_HISTORY_REASON cannot be blank")
	}
	if len(cfg.CurrencyCode) != 3 {
		return nil, fmt.Errorf("CURRENCY_CODE must be a three letter ISO 4217 code, got %q", cfg.CurrencyCode)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
