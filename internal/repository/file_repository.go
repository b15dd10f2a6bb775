package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	var file domain.File
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *FileRepository) Update(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Save(file).Error
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyWorkspaceFilter(ctx, query)
	return query.Delete(&domain.File{}).Error
}

func (r *FileRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.File, error) {
	var files []domain.File
	query := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("created_at DESC").Find(&files).Error
	return files, err
}

// ListPendingReview returns files awaiting review that were uploaded
// by the agency. Client uploads never enter the review queue.
func (r *FileRepository) ListPendingReview(ctx context.Context, clientID uuid.UUID) ([]domain.File, error) {
	var files []domain.File
	query := r.db.WithContext(ctx).
		Where("client_id = ? AND approval_status = ? AND sent_by_client = false", clientID, domain.FileApprovalPending)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("updated_at DESC").Find(&files).Error
	return files, err
}
