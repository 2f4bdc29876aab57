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

// ExpenseFilter narrows an expense listing. Zero-valued fields are ignored.
type ExpenseFilter struct {
	ProjectID string
	TalentID  string
	Status    string
}

// ExpenseRepository is read-only: expenses are created upstream.
type ExpenseRepository interface {
	Get(ctx context.Context, expenseID string) (*entity.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]*entity.Expense, error)
}

type expenseRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewExpenseRepository(db *mongo.Database, logger *slog.Logger) ExpenseRepository {
	return &expenseRepository{
		coll:   db.Collection(CollExpenses),
		logger: logger,
	}
}

func expenseQuery(f ExpenseFilter) bson.M {
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
	return q
}

func (r *expenseRepository) Get(ctx context.Context, expenseID string) (*entity.Expense, error) {
	var exp entity.Expense
	err := r.coll.FindOne(ctx, bson.M{"expense_id": expenseID}).Decode(&exp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get expense", "expense_id", expenseID, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return &exp, nil
}

func (r *expenseRepository) List(ctx context.Context, filter ExpenseFilter) ([]*entity.Expense, error) {
	cursor, err := r.coll.Find(ctx, expenseQuery(filter))
	if err != nil {
		r.logger.Error("failed to list expenses", "error", err)
		return nil, common.WrapError(err, "database error")
	}
	var results []*entity.Expense
	if err := cursor.All(ctx, &results); err != nil {
		r.logger.Error("failed to decode expenses", "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return results, nil
}
