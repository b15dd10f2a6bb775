package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
)

type MilestoneRepository struct {
	db *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) Create(ctx context.Context, milestone *domain.Milestone) error {
	return r.db.WithContext(ctx).Create(milestone).Error
}

func (r *MilestoneRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error) {
	var milestones []domain.Milestone
	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("sort_order ASC, due_date ASC NULLS LAST").Find(&milestones).Error
	return milestones, err
}

func (r *MilestoneRepository) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]domain.Milestone, error) {
	if len(projectIDs) == 0 {
		return []domain.Milestone{}, nil
	}
	var milestones []domain.Milestone
	query := r.db.WithContext(ctx).Where("project_id IN ?", projectIDs)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("sort_order ASC, due_date ASC NULLS LAST").Find(&milestones).Error
	return milestones, err
}
