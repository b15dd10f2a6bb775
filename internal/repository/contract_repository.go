package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

func (r *ContractRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Contract, error) {
	var contracts []domain.Contract
	query := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("updated_at DESC").Find(&contracts).Error
	return contracts, err
}
