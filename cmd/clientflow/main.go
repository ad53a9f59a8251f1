package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clientflow_backend/internal/adapters"
	"clientflow_backend/internal/cli"
	"clientflow_backend/internal/customers"
	"clientflow_backend/internal/events"
	"clientflow_backend/internal/notification"
	"clientflow_backend/internal/scoring"
	"clientflow_backend/platform/apperr"
	"clientflow_backend/platform/config"
	"clientflow_backend/platform/format"
	"clientflow_backend/platform/logger"
	"clientflow_backend/platform/validator"

	"github.com/google/uuid"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config: "+err.Error())
		return 1
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	sessionID := uuid.NewString()
	log.Debug("starting session", "env", cfg.Env, "session_id", sessionID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	val := validator.New()
	eventBus := events.NewInMemoryBus(log)

	formatter, err := format.New(cfg)
	if err != nil {
		log.Error("invalid format settings", "error", err)
		return 1
	}

	// ========================================================================
	// Domain Modules
	// ========================================================================

	notificationModule := notification.New(log)
	notificationModule.RegisterHandlers(eventBus)

	customersModule, err := customers.NewModule(cfg, val, log)
	if err != nil {
		log.Error("failed to seed customers", "error", err)
		cli.PrintError(os.Stderr, err)
		return apperr.ExitCode(err)
	}
	customersModule.Service().SetEventBus(eventBus)

	// Scoring reads customers and writes lead scores back through an adapter.
	customerStore := adapters.NewScoringCustomerStore(customersModule.Repository())
	scoringModule, err := scoring.NewModule(ctx, customerStore, eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to load scoring criteria", "error", err)
		cli.PrintError(os.Stderr, err)
		return apperr.ExitCode(err)
	}

	session := &cli.Session{
		ID:        sessionID,
		Customers: customersModule.Service(),
		Scoring:   scoringModule.Service(),
		Format:    formatter,
	}

	if err := cli.Execute(ctx, session); err != nil {
		cli.PrintError(os.Stderr, err)
		return apperr.ExitCode(err)
	}
	return 0
}
