package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/repository"
	"github.com/jolix/portal-api/internal/service"
	"github.com/jolix/portal-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createSettingsService(db *gorm.DB) *service.SettingsService {
	settingsRepo := repository.NewPortalSettingsRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	logger := zap.NewNop()

	activityService := service.NewActivityService(activityRepo, logger)
	return service.NewSettingsService(settingsRepo, projectRepo, activityService, logger)
}

func TestSettingsService_Get_DefaultsWhenUnconfigured(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createSettingsService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	ctx := testutil.AgencyContext(workspace.ID, client)

	dto, err := svc.Get(ctx)
	require.NoError(t, err)

	// Nothing stored means every module on and nothing hidden
	for _, name := range domain.KnownModules {
		assert.True(t, dto.Modules[name], "module %s should default to enabled", name)
	}
	assert.Empty(t, dto.ProjectVisibility)
	assert.Nil(t, dto.DefaultProjectID)
}

func TestSettingsService_Update_HomeCannotBeDisabled(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createSettingsService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	ctx := testutil.AgencyContext(workspace.ID, client)

	_, err := svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		Modules: map[domain.ModuleName]bool{domain.ModuleHome: false},
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestSettingsService_Update_UnknownModuleRejected(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createSettingsService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	ctx := testutil.AgencyContext(workspace.ID, client)

	_, err := svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		Modules: map[domain.ModuleName]bool{"crystal_ball": true},
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestSettingsService_Update_RoundTrip(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createSettingsService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	project := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Rebrand")
	ctx := testutil.AgencyContext(workspace.ID, client)

	accent := "#ff6600"
	dto, err := svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		Modules:           map[domain.ModuleName]bool{domain.ModuleBookings: false},
		ProjectVisibility: map[string]bool{project.ID.String(): false},
		DefaultProjectID:  &project.ID,
		AccentColor:       &accent,
	}, "")
	require.NoError(t, err)

	assert.False(t, dto.Modules[domain.ModuleBookings])
	assert.True(t, dto.Modules[domain.ModuleHome])
	assert.Equal(t, map[string]bool{project.ID.String(): false}, dto.ProjectVisibility)
	require.NotNil(t, dto.DefaultProjectID)
	assert.Equal(t, project.ID, *dto.DefaultProjectID)
	assert.Equal(t, accent, dto.AccentColor)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, got.Modules[domain.ModuleBookings])
}

func TestSettingsService_Update_PartialUpdateKeepsDefaultProject(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createSettingsService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	project := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Rebrand")
	ctx := testutil.AgencyContext(workspace.ID, client)

	_, err := svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		DefaultProjectID: &project.ID,
	}, "")
	require.NoError(t, err)

	// A save touching only the accent color leaves the default alone
	accent := "#003366"
	dto, err := svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		AccentColor: &accent,
	}, "")
	require.NoError(t, err)
	require.NotNil(t, dto.DefaultProjectID)
	assert.Equal(t, project.ID, *dto.DefaultProjectID)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got.DefaultProjectID)
	assert.Equal(t, project.ID, *got.DefaultProjectID)

	// Clearing is explicit
	dto, err = svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		ClearDefaultProject: true,
	}, "")
	require.NoError(t, err)
	assert.Nil(t, dto.DefaultProjectID)
}

func TestSettingsService_Update_TasksModuleToggle(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createSettingsService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	ctx := testutil.AgencyContext(workspace.ID, client)

	dto, err := svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		Modules: map[domain.ModuleName]bool{domain.ModuleTasks: false},
	}, "")
	require.NoError(t, err)
	assert.False(t, dto.Modules[domain.ModuleTasks])

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, got.Modules[domain.ModuleTasks])
}

func TestSettingsService_Update_StaleVersionRejected(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createSettingsService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	ctx := testutil.AgencyContext(workspace.ID, client)

	first, err := svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		Modules: map[domain.ModuleName]bool{domain.ModuleForms: false},
	}, "")
	require.NoError(t, err)

	// An editor holding a stale version must be rejected
	_, err = svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		Modules: map[domain.ModuleName]bool{domain.ModuleForms: true},
	}, "2001-01-01T00:00:00Z")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrConflict)

	// The current version goes through
	_, err = svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		Modules: map[domain.ModuleName]bool{domain.ModuleForms: true},
	}, first.UpdatedAt)
	require.NoError(t, err)
}

func TestSettingsService_Update_MissingDefaultProjectRejected(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createSettingsService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	ctx := testutil.AgencyContext(workspace.ID, client)

	missing := uuid.New()
	_, err := svc.Update(ctx, &domain.UpdatePortalSettingsRequest{
		DefaultProjectID: &missing,
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
