package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/talentoz/dbbot/internal/common"
	repo "github.com/talentoz/dbbot/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, db, err := repo.Open(ctx, repo.Config{
		URI:            cfg.Database.URI,
		Name:           cfg.Database.Name,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SelectTimeout:  cfg.Database.SelectTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening DB", "error", err)
		os.Exit(1)
	}
	defer repo.Close(context.Background(), client, logger)

	if err := repo.HealthCheck(ctx, client, 3*time.Second, logger); err != nil {
		logger.Error("DB health: FAIL", "error", err)
		os.Exit(1)
	}
	logger.Info("DB health: OK", "database", cfg.Database.Name)

	for _, coll := range []string{
		repo.CollTimesheets,
		repo.CollInvoices,
		repo.CollExpenses,
		repo.CollProjects,
		repo.CollTalents,
		repo.CollRates,
		repo.CollBillingInfo,
	} {
		n, err := db.Collection(coll).EstimatedDocumentCount(ctx)
		if err != nil {
			logger.Error("count failed", "collection", coll, "error", err)
			continue
		}
		logger.Info("collection", "name", coll, "documents", n)
	}
}
