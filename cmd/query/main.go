package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/talentoz/dbbot/internal/billing"
	"github.com/talentoz/dbbot/internal/bot"
	"github.com/talentoz/dbbot/internal/common"
	"github.com/talentoz/dbbot/internal/llm/openai"
	repo "github.com/talentoz/dbbot/internal/repository"
)

// One-shot natural language query against the production database, for
// trying out the bot without running the HTTP server.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: query \"<natural language query>\" [user_id]")
		os.Exit(2)
	}
	query := os.Args[1]
	userID := ""
	if len(os.Args) >= 3 {
		userID = os.Args[2]
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, db, err := repo.Open(ctx, repo.Config{
		URI:            cfg.Database.URI,
		Name:           cfg.Database.Name,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SelectTimeout:  cfg.Database.SelectTimeout,
	}, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "opening DB:", err)
		os.Exit(1)
	}
	defer repo.Close(context.Background(), client, logger)

	timesheetsRepo := repo.NewTimesheetRepository(db, logger)
	invoicesRepo := repo.NewInvoiceRepository(db, logger)
	expensesRepo := repo.NewExpenseRepository(db, logger)
	projectsRepo := repo.NewProjectRepository(db, logger)
	ratesRepo := repo.NewRateRepository(db, logger)

	billingSvc := billing.NewService(timesheetsRepo, expensesRepo, invoicesRepo, ratesRepo, logger)
	parser := openai.NewClient(openai.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	orchestrator := bot.NewOrchestrator(
		parser, timesheetsRepo, invoicesRepo, expensesRepo, projectsRepo, billingSvc, logger)

	resp := orchestrator.ProcessQuery(ctx, query, userID)
	if !resp.Success {
		fmt.Fprintln(os.Stderr, bot.FormatError(resp.Error+": "+resp.Message))
		os.Exit(1)
	}

	fmt.Println(resp.Result)
	if resp.Metadata != nil {
		meta, _ := json.MarshalIndent(resp.Metadata, "", "  ")
		fmt.Fprintln(os.Stderr, string(meta))
	}
}
