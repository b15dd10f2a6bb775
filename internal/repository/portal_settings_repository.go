package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PortalSettingsRepository struct {
	db *gorm.DB
}

func NewPortalSettingsRepository(db *gorm.DB) *PortalSettingsRepository {
	return &PortalSettingsRepository{db: db}
}

// GetByWorkspace returns the settings row for a workspace, or
// gorm.ErrRecordNotFound when the portal was never configured.
func (r *PortalSettingsRepository) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*domain.PortalSettings, error) {
	var settings domain.PortalSettings
	err := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the one settings row per workspace
func (r *PortalSettingsRepository) Upsert(ctx context.Context, settings *domain.PortalSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "workspace_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"modules", "project_visibility", "default_project_id",
				"accent_color", "welcome_message", "updated_at",
			}),
		}).
		Create(settings).Error
}
