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

// ProjectService serves the project views of a client portal,
// including the milestone timeline and the task list.
type ProjectService struct {
	projectRepo   *repository.ProjectRepository
	milestoneRepo *repository.MilestoneRepository
	taskRepo      *repository.TaskRepository
	settingsRepo  *repository.PortalSettingsRepository
	logger        *zap.Logger
}

// NewProjectService creates a new ProjectService instance
func NewProjectService(
	projectRepo *repository.ProjectRepository,
	milestoneRepo *repository.MilestoneRepository,
	taskRepo *repository.TaskRepository,
	settingsRepo *repository.PortalSettingsRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		milestoneRepo: milestoneRepo,
		taskRepo:      taskRepo,
		settingsRepo:  settingsRepo,
		logger:        logger,
	}
}

// List returns the client's projects. Clients see only projects the
// visibility map allows; the agency sees everything with the visible
// flag carried on each entry.
func (s *ProjectService) List(ctx context.Context) ([]domain.ProjectDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.Modules.Enabled(domain.ModuleProjects) {
		return nil, ErrModuleDisabled
	}

	projects, err := s.projectRepo.ListByClient(ctx, viewer.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	dtos := make([]domain.ProjectDTO, 0, len(projects))
	for i := range projects {
		visible := settings.ProjectVisibility.Visible(projects[i].ID)
		if viewer.IsClient() && !visible {
			continue
		}
		dtos = append(dtos, mapper.ToProjectDTO(&projects[i], visible))
	}
	return dtos, nil
}

// Get returns one project. Hidden projects do not exist for clients.
func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	visible := settings.ProjectVisibility.Visible(project.ID)
	if viewer.IsClient() && !visible {
		return nil, ErrNotFound
	}

	dto := mapper.ToProjectDTO(project, visible)
	return &dto, nil
}

// Milestones returns the timeline entries of one project, in sort
// order then due date.
func (s *ProjectService) Milestones(ctx context.Context, projectID uuid.UUID) ([]domain.MilestoneDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.Modules.Enabled(domain.ModuleTimeline) {
		return nil, ErrModuleDisabled
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if viewer.IsClient() && !settings.ProjectVisibility.Visible(projectID) {
		return nil, ErrNotFound
	}

	milestones, err := s.milestoneRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	dtos := make([]domain.MilestoneDTO, 0, len(milestones))
	for i := range milestones {
		dtos = append(dtos, mapper.ToMilestoneDTO(&milestones[i]))
	}
	return dtos, nil
}

// Tasks returns the work items of one project, in sort order then
// creation time.
func (s *ProjectService) Tasks(ctx context.Context, projectID uuid.UUID) ([]domain.TaskDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.Modules.Enabled(domain.ModuleTasks) {
		return nil, ErrModuleDisabled
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if viewer.IsClient() && !settings.ProjectVisibility.Visible(projectID) {
		return nil, ErrNotFound
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	dtos := make([]domain.TaskDTO, 0, len(tasks))
	for i := range tasks {
		dtos = append(dtos, mapper.ToTaskDTO(&tasks[i]))
	}
	return dtos, nil
}
