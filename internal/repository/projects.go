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

// ProjectRepository reads the project and talent reference collections.
type ProjectRepository interface {
	GetProject(ctx context.Context, projectID string) (*entity.Project, error)
	ListProjects(ctx context.Context) ([]*entity.Project, error)
	GetTalent(ctx context.Context, userID string) (*entity.Talent, error)
}

type projectRepository struct {
	projects *mongo.Collection
	talents  *mongo.Collection
	logger   *slog.Logger
}

func NewProjectRepository(db *mongo.Database, logger *slog.Logger) ProjectRepository {
	return &projectRepository{
		projects: db.Collection(CollProjects),
		talents:  db.Collection(CollTalents),
		logger:   logger,
	}
}

func (r *projectRepository) GetProject(ctx context.Context, projectID string) (*entity.Project, error) {
	var p entity.Project
	err := r.projects.FindOne(ctx, bson.M{"project_id": projectID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get project", "project_id", projectID, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return &p, nil
}

func (r *projectRepository) ListProjects(ctx context.Context) ([]*entity.Project, error) {
	cursor, err := r.projects.Find(ctx, bson.M{})
	if err != nil {
		r.logger.Error("failed to list projects", "error", err)
		return nil, common.WrapError(err, "database error")
	}
	var results []*entity.Project
	if err := cursor.All(ctx, &results); err != nil {
		r.logger.Error("failed to decode projects", "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return results, nil
}

func (r *projectRepository) GetTalent(ctx context.Context, userID string) (*entity.Talent, error) {
	var t entity.Talent
	err := r.talents.FindOne(ctx, bson.M{"user_id": userID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get talent", "user_id", userID, "error", err)
		return nil, common.WrapError(err, "database error")
	}
	return &t, nil
}
