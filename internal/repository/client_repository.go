package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByEmail resolves a client within a specific workspace. Used during
// token issuance, before any viewer context exists.
func (r *ClientRepository) GetByEmail(ctx context.Context, workspaceID uuid.UUID, email string) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND LOWER(email) = ? AND is_active = true", workspaceID, strings.ToLower(email)).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *ClientRepository) List(ctx context.Context, page, pageSize int) ([]domain.Client, int64, error) {
	var clients []domain.Client
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Client{})
	query = ApplyWorkspaceFilter(ctx, query)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&clients).Error

	return clients, total, err
}
