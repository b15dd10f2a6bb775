package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/mapper"
	"github.com/jolix/portal-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContractService serves the contract views of a client portal and
// applies signatures. All status transitions go through Reconcile; the
// stored status is always the reconciled composite, never a value a
// handler made up.
type ContractService struct {
	contractRepo    *repository.ContractRepository
	settingsRepo    *repository.PortalSettingsRepository
	activityService *ActivityService
	logger          *zap.Logger
}

// NewContractService creates a new ContractService instance
func NewContractService(
	contractRepo *repository.ContractRepository,
	settingsRepo *repository.PortalSettingsRepository,
	activityService *ActivityService,
	logger *zap.Logger,
) *ContractService {
	return &ContractService{
		contractRepo:    contractRepo,
		settingsRepo:    settingsRepo,
		activityService: activityService,
		logger:          logger,
	}
}

// List returns the client's contracts surviving the project filter.
// Status and DisplayStatus are reconciled per read for the viewer.
func (s *ContractService) List(ctx context.Context, selectedProject *uuid.UUID) ([]domain.ContractDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.Modules.Enabled(domain.ModuleContracts) {
		return nil, ErrModuleDisabled
	}

	contracts, err := s.contractRepo.ListByClient(ctx, viewer.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	contracts = domain.FilterVisible[domain.Contract](contracts, selectedProject, settings.ProjectVisibility)

	dtos := make([]domain.ContractDTO, 0, len(contracts))
	for i := range contracts {
		if viewer.IsClient() && contracts[i].Status == domain.ContractStatusDraft {
			continue
		}
		dtos = append(dtos, mapper.ToContractDTO(&contracts[i], viewer.Role))
	}
	return dtos, nil
}

// Get returns one contract with viewer-relative status
func (s *ContractService) Get(ctx context.Context, id uuid.UUID) (*domain.ContractDTO, error) {
	viewer := auth.MustFromContext(ctx)

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	if viewer.IsClient() && contract.Status == domain.ContractStatusDraft {
		return nil, ErrNotFound
	}

	dto := mapper.ToContractDTO(contract, viewer.Role)
	return &dto, nil
}

// Sign records the viewer's signature on their side of the contract
// and stores the reconciled composite status. Signing a side twice is
// a conflict; signing a terminal contract is rejected.
func (s *ContractService) Sign(ctx context.Context, id uuid.UUID, req *domain.SignContractRequest) (*domain.ContractDTO, error) {
	viewer := auth.MustFromContext(ctx)

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	composite := domain.Reconcile(contract)
	if composite.IsTerminal() || composite == domain.ContractStatusDraft {
		return nil, ErrContractNotSignable
	}

	now := time.Now()
	if viewer.IsClient() {
		if contract.ClientSignature == domain.SignatureSigned {
			return nil, ErrConflict
		}
		contract.ClientSignature = domain.SignatureSigned
		contract.ClientSignedAt = &now
	} else {
		if contract.AgencySignature == domain.SignatureSigned {
			return nil, ErrConflict
		}
		contract.AgencySignature = domain.SignatureSigned
		contract.AgencySignedAt = &now
	}
	contract.Status = domain.Reconcile(contract)

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to save contract signature: %w", err)
	}

	s.activityService.Record(ctx, domain.ActivityTargetContract, contract.ID,
		&contract.ClientID, "Contract signed", fmt.Sprintf("%s signed %q", req.SignerName, contract.Title))
	s.logger.Info("contract signed",
		zap.String("contract_id", contract.ID.String()),
		zap.String("role", string(viewer.Role)),
		zap.String("status", string(contract.Status)),
	)

	dto := mapper.ToContractDTO(contract, viewer.Role)
	return &dto, nil
}

// Decline marks the contract declined. Declined is terminal and holds
// regardless of signatures already applied.
func (s *ContractService) Decline(ctx context.Context, id uuid.UUID, req *domain.DeclineContractRequest) (*domain.ContractDTO, error) {
	viewer := auth.MustFromContext(ctx)

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	composite := domain.Reconcile(contract)
	if composite.IsTerminal() {
		return nil, ErrContractNotSignable
	}

	now := time.Now()
	contract.Status = domain.ContractStatusDeclined
	contract.DeclinedAt = &now

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to decline contract: %w", err)
	}

	s.activityService.Record(ctx, domain.ActivityTargetContract, contract.ID,
		&contract.ClientID, "Contract declined", req.Reason)
	s.logger.Info("contract declined",
		zap.String("contract_id", contract.ID.String()),
		zap.String("role", string(viewer.Role)),
	)

	dto := mapper.ToContractDTO(contract, viewer.Role)
	return &dto, nil
}
