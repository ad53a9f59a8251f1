// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// SessionIDKey is the context key for the in-memory session ID
	SessionIDKey contextKey = "session_id"
	// OperationKey is the context key for the command being executed
	OperationKey contextKey = "operation"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment. Records go to stderr so
// command output on stdout stays machine readable.
func New(env string) *Logger {
	return NewWithWriter(env, os.Stderr)
}

// NewWithWriter creates a logger that writes to w.
func NewWithWriter(env string, w io.Writer) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops every record. Useful in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithContext returns a logger with context values extracted.
// Supports session_id and operation from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if sessionID, ok := ctx.Value(SessionIDKey).(string); ok && sessionID != "" {
		newLogger = newLogger.WithSessionID(sessionID)
	}

	if op, ok := ctx.Value(OperationKey).(string); ok && op != "" {
		newLogger = &Logger{
			Logger: newLogger.With(slog.String("operation", op)),
		}
	}

	return newLogger
}

// WithSessionID returns a logger with session ID
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("session_id", sessionID)),
	}
}

// ScoreChanged logs a lead score transition for one customer
func (l *Logger) ScoreChanged(customerID string, previous, current int, bucket string) {
	l.Info("lead_score_changed",
		slog.String("customer_id", customerID),
		slog.Int("previous", previous),
		slog.Int("current", current),
		slog.String("bucket", bucket),
	)
}

// CriteriaChanged logs a configuration operation on the criteria set
func (l *Logger) CriteriaChanged(action, criterionID, name string) {
	l.Info("criteria_changed",
		slog.String("action", action),
		slog.String("criterion_id", criterionID),
		slog.String("name", name),
	)
}

// RecalculationFinished logs the outcome of a recalculation pass
func (l *Logger) RecalculationFinished(evaluated, changed int, err error) {
	if err != nil {
		l.Error("recalculation_failed",
			slog.Int("evaluated", evaluated),
			slog.Int("changed", changed),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Info("recalculation_finished",
		slog.Int("evaluated", evaluated),
		slog.Int("changed", changed),
	)
}
