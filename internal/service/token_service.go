package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenService issues portal tokens. Issuance is API-key guarded and
// happens before any viewer context exists, so the lookups here are the
// only unscoped reads in the API.
type TokenService struct {
	workspaceRepo *repository.WorkspaceRepository
	clientRepo    *repository.ClientRepository
	tokens        *auth.TokenManager
	logger        *zap.Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(
	workspaceRepo *repository.WorkspaceRepository,
	clientRepo *repository.ClientRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *TokenService {
	return &TokenService{
		workspaceRepo: workspaceRepo,
		clientRepo:    clientRepo,
		tokens:        tokens,
		logger:        logger,
	}
}

// IssuePortalToken resolves the workspace and client named in the
// request and returns a signed portal token for them. The agency role
// yields a token viewing the same client's portal from the agency side.
func (s *TokenService) IssuePortalToken(ctx context.Context, req *domain.PortalTokenRequest) (*domain.PortalTokenResponse, error) {
	role := domain.ViewerRole(req.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: role must be agency or client", ErrInvalidInput)
	}

	workspace, err := s.workspaceRepo.GetBySlug(ctx, req.WorkspaceSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	client, err := s.clientRepo.GetByEmail(ctx, workspace.ID, req.ClientEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to resolve client: %w", err)
	}

	viewer := &auth.ViewerContext{
		WorkspaceID: workspace.ID,
		ClientID:    client.ID,
		Email:       client.Email,
		DisplayName: client.Name,
		Role:        role,
	}

	token, expiresAt, err := s.tokens.Issue(viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to issue portal token: %w", err)
	}

	s.logger.Info("portal token issued",
		zap.String("workspace", workspace.Slug),
		zap.String("client_id", client.ID.String()),
		zap.String("role", string(role)),
	)

	return &domain.PortalTokenResponse{
		Token:     token,
		ExpiresAt: domain.FormatTime(expiresAt),
	}, nil
}
