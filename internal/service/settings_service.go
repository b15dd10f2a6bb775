package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/mapper"
	"github.com/jolix/portal-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// loadPortalSettings returns the workspace's portal settings, or a
// zero-value row when the portal was never configured. The zero value
// means every module on and every project visible, which is the
// documented default.
func loadPortalSettings(ctx context.Context, repo *repository.PortalSettingsRepository, workspaceID uuid.UUID) (*domain.PortalSettings, error) {
	settings, err := repo.GetByWorkspace(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.PortalSettings{WorkspaceID: workspaceID}, nil
		}
		return nil, fmt.Errorf("failed to load portal settings: %w", err)
	}
	return settings, nil
}

// SettingsService manages per-workspace portal configuration
type SettingsService struct {
	settingsRepo    *repository.PortalSettingsRepository
	projectRepo     *repository.ProjectRepository
	activityService *ActivityService
	logger          *zap.Logger
}

// NewSettingsService creates a new SettingsService instance
func NewSettingsService(
	settingsRepo *repository.PortalSettingsRepository,
	projectRepo *repository.ProjectRepository,
	activityService *ActivityService,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		settingsRepo:    settingsRepo,
		projectRepo:     projectRepo,
		activityService: activityService,
		logger:          logger,
	}
}

// Get returns the portal settings for the viewer's workspace
func (s *SettingsService) Get(ctx context.Context) (*domain.PortalSettingsDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToPortalSettingsDTO(settings)
	return &dto, nil
}

// Update rewrites the portal settings for the viewer's workspace.
// expectedVersion, when non-empty, is the UpdatedAt timestamp the
// editor last saw; a mismatch means someone else saved in between and
// the update is rejected with ErrConflict instead of silently clobbered.
func (s *SettingsService) Update(ctx context.Context, req *domain.UpdatePortalSettingsRequest, expectedVersion string) (*domain.PortalSettingsDTO, error) {
	viewer := auth.MustFromContext(ctx)

	current, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if expectedVersion != "" && current.ID != uuid.Nil &&
		domain.FormatTime(current.UpdatedAt) != expectedVersion {
		return nil, ErrConflict
	}

	if req.Modules != nil {
		for name, enabled := range req.Modules {
			if !knownModule(name) {
				return nil, fmt.Errorf("%w: unknown module %q", ErrInvalidInput, name)
			}
			if name == domain.ModuleHome && !enabled {
				return nil, fmt.Errorf("%w: the home module cannot be disabled", ErrInvalidInput)
			}
		}
		current.Modules = domain.ModuleStates(req.Modules)
	}

	if req.ProjectVisibility != nil {
		visibility := make(domain.VisibilityMap, len(req.ProjectVisibility))
		for key, visible := range req.ProjectVisibility {
			projectID, err := uuid.Parse(key)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid project id %q", ErrInvalidInput, key)
			}
			visibility[projectID] = visible
		}
		current.ProjectVisibility = visibility
	}

	// Absent means keep the stored default; clearing is explicit.
	if req.DefaultProjectID != nil {
		if _, err := s.projectRepo.GetByID(ctx, *req.DefaultProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: default project does not exist", ErrInvalidInput)
			}
			return nil, fmt.Errorf("failed to verify default project: %w", err)
		}
		current.DefaultProjectID = req.DefaultProjectID
	}
	if req.ClearDefaultProject {
		current.DefaultProjectID = nil
	}

	if req.AccentColor != nil {
		current.AccentColor = *req.AccentColor
	}
	if req.WelcomeMessage != nil {
		current.WelcomeMessage = *req.WelcomeMessage
	}
	current.WorkspaceID = viewer.WorkspaceID

	if err := s.settingsRepo.Upsert(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to save portal settings: %w", err)
	}

	s.activityService.Record(ctx, domain.ActivityTargetSettings, current.ID, nil,
		"Portal settings updated", "")
	s.logger.Info("portal settings updated",
		zap.String("workspace_id", viewer.WorkspaceID.String()))

	dto := mapper.ToPortalSettingsDTO(current)
	return &dto, nil
}

func knownModule(name domain.ModuleName) bool {
	for _, known := range domain.KnownModules {
		if known == name {
			return true
		}
	}
	return false
}
