package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("sort_order ASC, created_at ASC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]domain.Task, error) {
	if len(projectIDs) == 0 {
		return []domain.Task{}, nil
	}
	var tasks []domain.Task
	query := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("sort_order ASC, created_at ASC").Find(&tasks).Error
	return tasks, err
}
