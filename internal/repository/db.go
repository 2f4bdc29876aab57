package repository

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names in the production database.
const (
	CollTimesheets  = "timesheets"
	CollInvoices    = "invoices"
	CollExpenses    = "expenses"
	CollProjects    = "projects"
	CollTalents     = "talents"
	CollRates       = "talentInvoice"
	CollBillingInfo = "billingInformation"
)

type Config struct {
	URI            string
	Name           string
	ConnectTimeout time.Duration
	SelectTimeout  time.Duration
}

// Open connects to MongoDB, verifies the connection with a ping, and returns
// the client together with the selected database handle.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	logger.Info("connecting to database", "database", cfg.Name)

	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.SelectTimeout > 0 {
		opts = opts.SetServerSelectionTimeout(cfg.SelectTimeout)
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info("successfully connected to database")
	return client, client.Database(cfg.Name), nil
}

// Close disconnects the client gracefully.
func Close(ctx context.Context, client *mongo.Client, logger *slog.Logger) {
	logger.Info("closing database connection")
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("failed to disconnect from database", "error", err)
		}
	}
	logger.Info("database connection closed")
}

// HealthCheck pings the server to catch connectivity issues early.
func HealthCheck(ctx context.Context, client *mongo.Client, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}
	logger.Debug("database ping successful")
	return nil
}
