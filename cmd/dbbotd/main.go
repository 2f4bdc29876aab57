package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentoz/dbbot/internal/billing"
	"github.com/talentoz/dbbot/internal/bot"
	"github.com/talentoz/dbbot/internal/common"
	"github.com/talentoz/dbbot/internal/export"
	"github.com/talentoz/dbbot/internal/llm/openai"
	repo "github.com/talentoz/dbbot/internal/repository"
	"github.com/talentoz/dbbot/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := repo.Open(ctx, repo.Config{
		URI:            cfg.Database.URI,
		Name:           cfg.Database.Name,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SelectTimeout:  cfg.Database.SelectTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer repo.Close(context.Background(), client, logger)

	// repos
	timesheetsRepo := repo.NewTimesheetRepository(db, logger)
	invoicesRepo := repo.NewInvoiceRepository(db, logger)
	expensesRepo := repo.NewExpenseRepository(db, logger)
	projectsRepo := repo.NewProjectRepository(db, logger)
	ratesRepo := repo.NewRateRepository(db, logger)

	// services
	billingSvc := billing.NewService(timesheetsRepo, expensesRepo, invoicesRepo, ratesRepo, logger)
	exportSvc := export.NewService(invoicesRepo, logger)

	parser := openai.NewClient(openai.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	orchestrator := bot.NewOrchestrator(
		parser, timesheetsRepo, invoicesRepo, expensesRepo, projectsRepo, billingSvc, logger)

	health := func(ctx context.Context) error {
		return repo.HealthCheck(ctx, client, 3*time.Second, logger)
	}

	srv := server.New(orchestrator, exportSvc, projectsRepo, health, cfg.Server.APIKey, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
