package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
)

type FormRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{db: db}
}

func (r *FormRepository) Create(ctx context.Context, form *domain.Form) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *FormRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Form, error) {
	var form domain.Form
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *FormRepository) Update(ctx context.Context, form *domain.Form) error {
	return r.db.WithContext(ctx).Save(form).Error
}

// ListForClient returns published forms addressed to the client plus
// workspace-wide forms with no client scope. Draft forms never reach
// clients.
func (r *FormRepository) ListForClient(ctx context.Context, clientID uuid.UUID) ([]domain.Form, error) {
	var forms []domain.Form
	query := r.db.WithContext(ctx).
		Where("status = ?", domain.FormStatusPublished).
		Where("client_id = ? OR client_id IS NULL", clientID)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("deadline ASC NULLS LAST, created_at DESC").Find(&forms).Error
	return forms, err
}

func (r *FormRepository) CreateSubmission(ctx context.Context, submission *domain.FormSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// ListSubmissionsByRespondent returns all submissions recorded for a
// respondent email in the workspace.
func (r *FormRepository) ListSubmissionsByRespondent(ctx context.Context, email string) ([]domain.FormSubmission, error) {
	var submissions []domain.FormSubmission
	query := r.db.WithContext(ctx).Where("LOWER(respondent_email) = ?", strings.ToLower(email))
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

// LatestCompletedSubmission returns the binding submission for a
// (form, respondent) pair, or gorm.ErrRecordNotFound.
func (r *FormRepository) LatestCompletedSubmission(ctx context.Context, formID uuid.UUID, email string) (*domain.FormSubmission, error) {
	var submission domain.FormSubmission
	query := r.db.WithContext(ctx).
		Where("form_id = ? AND LOWER(respondent_email) = ? AND completed = true", formID, strings.ToLower(email))
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("submitted_at DESC").First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}
