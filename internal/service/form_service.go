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

// FormService serves the form views of a client portal and records
// submissions. Pending state is derived per respondent: a form is open
// until a completed submission exists for the (form, email) pair.
type FormService struct {
	formRepo        *repository.FormRepository
	settingsRepo    *repository.PortalSettingsRepository
	activityService *ActivityService
	logger          *zap.Logger
}

// NewFormService creates a new FormService instance
func NewFormService(
	formRepo *repository.FormRepository,
	settingsRepo *repository.PortalSettingsRepository,
	activityService *ActivityService,
	logger *zap.Logger,
) *FormService {
	return &FormService{
		formRepo:        formRepo,
		settingsRepo:    settingsRepo,
		activityService: activityService,
		logger:          logger,
	}
}

// List returns the published forms addressed to the client, each
// flagged pending or done for the viewing respondent.
func (s *FormService) List(ctx context.Context, selectedProject *uuid.UUID) ([]domain.FormDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.Modules.Enabled(domain.ModuleForms) {
		return nil, ErrModuleDisabled
	}

	forms, err := s.formRepo.ListForClient(ctx, viewer.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	forms = domain.FilterVisible[domain.Form](forms, selectedProject, settings.ProjectVisibility)

	submissions, err := s.formRepo.ListSubmissionsByRespondent(ctx, viewer.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list form submissions: %w", err)
	}

	dtos := make([]domain.FormDTO, 0, len(forms))
	for i := range forms {
		pending := forms[i].PendingFor(viewer.Email, submissions)
		dtos = append(dtos, mapper.ToFormDTO(&forms[i], pending))
	}
	return dtos, nil
}

// Get returns one form with the viewer's pending state
func (s *FormService) Get(ctx context.Context, id uuid.UUID) (*domain.FormDTO, error) {
	viewer := auth.MustFromContext(ctx)

	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if viewer.IsClient() && form.Status != domain.FormStatusPublished {
		return nil, ErrNotFound
	}
	if form.ClientID != nil && *form.ClientID != viewer.ClientID {
		return nil, ErrNotFound
	}

	submissions, err := s.formRepo.ListSubmissionsByRespondent(ctx, viewer.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list form submissions: %w", err)
	}

	dto := mapper.ToFormDTO(form, form.PendingFor(viewer.Email, submissions))
	return &dto, nil
}

// Submit records the viewer's answers for a form. Only published forms
// addressed to the viewer's client accept submissions. A completed
// submission closes the form for this respondent; later submissions
// are stored but the first completed one already settled the pending
// state.
func (s *FormService) Submit(ctx context.Context, id uuid.UUID, req *domain.SubmitFormRequest) (*domain.FormSubmissionDTO, error) {
	viewer := auth.MustFromContext(ctx)

	form, err := s.formRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form.Status != domain.FormStatusPublished {
		return nil, ErrFormClosed
	}
	if form.ClientID != nil && *form.ClientID != viewer.ClientID {
		return nil, ErrNotFound
	}

	submission := &domain.FormSubmission{
		WorkspaceID:     viewer.WorkspaceID,
		FormID:          form.ID,
		ClientID:        viewer.ClientID,
		RespondentEmail: viewer.Email,
		Completed:       req.Completed,
		Answers:         req.Answers,
	}
	if req.Completed {
		now := time.Now()
		submission.SubmittedAt = &now
	}

	if err := s.formRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save form submission: %w", err)
	}

	if req.Completed {
		s.activityService.Record(ctx, domain.ActivityTargetForm, form.ID,
			&viewer.ClientID, "Form submitted", form.Title)
	}
	s.logger.Info("form submission recorded",
		zap.String("form_id", form.ID.String()),
		zap.Bool("completed", req.Completed),
	)

	dto := mapper.ToFormSubmissionDTO(submission)
	return &dto, nil
}
