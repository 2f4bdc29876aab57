package repository

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/talentoz/dbbot/internal/common"
	"github.com/talentoz/dbbot/internal/entity"
)

// RateRepository reads the invoicing configuration collections. Both lookups
// return (nil, nil) when no document matches; callers decide whether a
// missing record is an error.
type RateRepository interface {
	GetRateSettings(ctx context.Context, projectID, talentID string) (*entity.RateSettings, error)
	GetBillingInfo(ctx context.Context, projectID string) (*entity.BillingInfo, error)
}

type rateRepository struct {
	rates   *mongo.Collection
	billing *mongo.Collection
	logger  *slog.Logger
}

func NewRateRepository(db *mongo.Database, logger *slog.Logger) RateRepository {
	return &rateRepository{
		rates:   db.Collection(CollRates),
		billing: db.Collection(CollBillingInfo),
		logger:  logger,
	}
}

func (r *rateRepository) GetRateSettings(ctx context.Context, projectID, talentID string) (*entity.RateSettings, error) {
	var rs entity.RateSettings
	err := r.rates.FindOne(ctx, bson.M{"project_id": projectID, "talent_id": talentID}).Decode(&rs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get rate settings",
			"project_id", projectID, "talent_id", talentID, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return &rs, nil
}

func (r *rateRepository) GetBillingInfo(ctx context.Context, projectID string) (*entity.BillingInfo, error) {
	var bi entity.BillingInfo
	err := r.billing.FindOne(ctx, bson.M{"project_id": projectID}).Decode(&bi)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get billing information", "project_id", projectID, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return &bi, nil
}
