package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/talentoz/dbbot/internal/common"
	"github.com/talentoz/dbbot/internal/entity"
)

// CreateTimesheetParams wraps parameters for creating a timesheet.
type CreateTimesheetParams struct {
	ProjectID   string
	TalentID    string
	StartDate   string
	EndDate     string
	HoursPerDay float64
}

// TimesheetFilter narrows a timesheet listing. Zero-valued fields are
// ignored.
type TimesheetFilter struct {
	ProjectID string
	TalentID  string
	Status    string
	StartDate string
	EndDate   string
}

type TimesheetRepository interface {
	Get(ctx context.Context, timesheetID string) (*entity.Timesheet, error)
	List(ctx context.Context, filter TimesheetFilter) ([]*entity.Timesheet, error)
	Create(ctx context.Context, params CreateTimesheetParams) (*entity.Timesheet, error)
	UpdateStatus(ctx context.Context, timesheetID, status string) (*entity.Timesheet, error)
	UpdateDates(ctx context.Context, timesheetID, startDate, endDate string, hoursPerDay float64) (*entity.Timesheet, error)
}

type timesheetRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewTimesheetRepository(db *mongo.Database, logger *slog.Logger) TimesheetRepository {
	return &timesheetRepository{
		coll:   db.Collection(CollTimesheets),
		logger: logger,
	}
}

// timesheetQuery builds the find filter. When both dates are present the
// start_date field carries the whole range, so the filter matches timesheets
// whose start falls inside it; a lone end date matches on end_date instead.
func timesheetQuery(f TimesheetFilter) bson.M {
	q := bson.M{}
	if f.ProjectID != "" {
		q["project_id"] = f.ProjectID
	}
	if f.TalentID != "" {
		q["user_id"] = f.TalentID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.StartDate != "" {
		q["start_date"] = bson.M{"$gte": f.StartDate}
	}
	if f.EndDate != "" {
		if rng, ok := q["start_date"].(bson.M); ok {
			rng["$lte"] = f.EndDate
		} else {
			q["end_date"] = bson.M{"$lte": f.EndDate}
		}
	}
	return q
}

func (r *timesheetRepository) Get(ctx context.Context, timesheetID string) (*entity.Timesheet, error) {
	var ts entity.Timesheet
	err := r.coll.FindOne(ctx, bson.M{"timesheet_id": timesheetID}).Decode(&ts)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get timesheet", "timesheet_id", timesheetID, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return &ts, nil
}

func (r *timesheetRepository) List(ctx context.Context, filter TimesheetFilter) ([]*entity.Timesheet, error) {
	cursor, err := r.coll.Find(ctx, timesheetQuery(filter))
	if err != nil {
		r.logger.Error("failed to list timesheets", "error", err)
		return nil, common.WrapError(err, "database error")
	}
	var results []*entity.Timesheet
	if err := cursor.All(ctx, &results); err != nil {
		r.logger.Error("failed to decode timesheets", "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return results, nil
}

func (r *timesheetRepository) Create(ctx context.Context, params CreateTimesheetParams) (*entity.Timesheet, error) {
	entries, totalHours, err := entity.GenerateEntries(params.StartDate, params.EndDate, params.HoursPerDay)
	if err != nil {
		return nil, common.NewValidationError(err.Error())
	}

	now := time.Now().UTC()
	ts := &entity.Timesheet{
		TimesheetID: entity.NewTimesheetID(now),
		ProjectID:   params.ProjectID,
		UserID:      params.TalentID,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		Status:      entity.TimesheetStatusDraft,
		Entries:     entries,
		TotalHours:  totalHours,
		CreatedAt:   now.Format(time.RFC3339),
		UpdatedAt:   now.Format(time.RFC3339),
	}

	if _, err := r.coll.InsertOne(ctx, ts); err != nil {
		r.logger.Error("failed to insert timesheet", "timesheet_id", ts.TimesheetID, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	r.logger.Info("timesheet created", "timesheet_id", ts.TimesheetID, "total_hours", totalHours)
	return ts, nil
}

func (r *timesheetRepository) UpdateStatus(ctx context.Context, timesheetID, status string) (*entity.Timesheet, error) {
	if !entity.ValidTimesheetStatus(status) {
		return nil, common.NewValidationErrorf("Invalid status: %s", status)
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"timesheet_id": timesheetID},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		}},
	)
	if err != nil {
		r.logger.Error("failed to update timesheet status", "timesheet_id", timesheetID, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	if res.ModifiedCount == 0 {
		return nil, common.NewNotFoundErrorf("Timesheet %s not found", timesheetID)
	}
	return r.Get(ctx, timesheetID)
}

func (r *timesheetRepository) UpdateDates(ctx context.Context, timesheetID, startDate, endDate string, hoursPerDay float64) (*entity.Timesheet, error) {
	existing, err := r.Get(ctx, timesheetID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, common.NewNotFoundErrorf("Timesheet %s not found", timesheetID)
	}

	entries, totalHours, err := entity.GenerateEntries(startDate, endDate, hoursPerDay)
	if err != nil {
		return nil, common.NewValidationError(err.Error())
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"timesheet_id": timesheetID},
		bson.M{"$set": bson.M{
			"start_date":  startDate,
			"end_date":    endDate,
			"entries":     entries,
			"total_hours": totalHours,
			"updated_at":  time.Now().UTC().Format(time.RFC3339),
		}},
	)
	if err != nil {
		r.logger.Error("failed to update timesheet dates", "timesheet_id", timesheetID, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	if res.ModifiedCount == 0 {
		return nil, common.NewAppError("DATABASE", "Failed to update timesheet "+timesheetID, common.ErrDatabase)
	}
	return r.Get(ctx, timesheetID)
}
