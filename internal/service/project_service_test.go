package service_test

import (
	"testing"
	"time"

	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/repository"
	"github.com/jolix/portal-api/internal/service"
	"github.com/jolix/portal-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createProjectService(db *gorm.DB) *service.ProjectService {
	return service.NewProjectService(
		repository.NewProjectRepository(db),
		repository.NewMilestoneRepository(db),
		repository.NewTaskRepository(db),
		repository.NewPortalSettingsRepository(db),
		zap.NewNop(),
	)
}

func TestProjectService_Tasks_SortedBySortOrder(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createProjectService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	project := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Launch")

	due := time.Now().AddDate(0, 0, 7)
	require.NoError(t, db.Create(&domain.Task{
		WorkspaceID: workspace.ID,
		ProjectID:   project.ID,
		Title:       "Write copy",
		Status:      domain.TaskStatusInProgress,
		Priority:    domain.TaskPriorityHigh,
		DueDate:     &due,
		SortOrder:   2,
	}).Error)
	require.NoError(t, db.Create(&domain.Task{
		WorkspaceID: workspace.ID,
		ProjectID:   project.ID,
		Title:       "Design homepage",
		Status:      domain.TaskStatusTodo,
		Priority:    domain.TaskPriorityMedium,
		SortOrder:   1,
	}).Error)

	ctx := testutil.ClientContext(workspace.ID, client)
	tasks, err := svc.Tasks(ctx, project.ID)
	require.NoError(t, err)

	require.Len(t, tasks, 2)
	assert.Equal(t, "Design homepage", tasks[0].Title)
	assert.Equal(t, "Write copy", tasks[1].Title)
	assert.Equal(t, domain.TaskStatusInProgress, tasks[1].Status)
	assert.Equal(t, domain.TaskPriorityHigh, tasks[1].Priority)
	require.NotNil(t, tasks[1].DueDate)
}

func TestProjectService_Tasks_ModuleDisabled(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createProjectService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	project := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Launch")
	require.NoError(t, db.Create(&domain.PortalSettings{
		WorkspaceID: workspace.ID,
		Modules:     domain.ModuleStates{domain.ModuleTasks: false},
	}).Error)

	ctx := testutil.ClientContext(workspace.ID, client)
	_, err := svc.Tasks(ctx, project.ID)
	assert.ErrorIs(t, err, service.ErrModuleDisabled)
}

func TestProjectService_Tasks_HiddenProjectNotFoundForClient(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createProjectService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	project := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Internal")
	require.NoError(t, db.Create(&domain.PortalSettings{
		WorkspaceID:       workspace.ID,
		ProjectVisibility: domain.VisibilityMap{project.ID: false},
	}).Error)

	_, err := svc.Tasks(testutil.ClientContext(workspace.ID, client), project.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// The agency still sees tasks on a hidden project
	tasks, err := svc.Tasks(testutil.AgencyContext(workspace.ID, client), project.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
