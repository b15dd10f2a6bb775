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

func createPortalService(db *gorm.DB) *service.PortalService {
	return service.NewPortalService(
		repository.NewWorkspaceRepository(db),
		repository.NewClientRepository(db),
		repository.NewProjectRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewContractRepository(db),
		repository.NewFormRepository(db),
		repository.NewFileRepository(db),
		repository.NewMilestoneRepository(db),
		repository.NewTaskRepository(db),
		repository.NewBookingRepository(db),
		repository.NewMessageRepository(db),
		repository.NewPortalSettingsRepository(db),
		zap.NewNop(),
	)
}

func TestPortalService_Snapshot_Defaults(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createPortalService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	project := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Website redesign")

	ctx := testutil.ClientContext(workspace.ID, client)
	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, workspace.ID, snapshot.Workspace.ID)
	assert.Equal(t, client.ID, snapshot.Client.ID)
	require.Len(t, snapshot.Projects, 1)
	assert.Equal(t, project.ID, snapshot.Projects[0].ID)
	require.NotNil(t, snapshot.DefaultProject)
	assert.Equal(t, project.ID, *snapshot.DefaultProject)
	assert.Empty(t, snapshot.ActionQueue)
	assert.Empty(t, snapshot.Degraded)
	for _, name := range domain.KnownModules {
		assert.True(t, snapshot.Modules[name])
	}
	assert.NotEmpty(t, snapshot.GeneratedAt)
}

func TestPortalService_Snapshot_ActionQueueOrder(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createPortalService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)

	// One actionable item per category, created out of order
	dueNow := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Create(&domain.Invoice{
		WorkspaceID: workspace.ID,
		ClientID:    client.ID,
		Number:      "INV-1",
		Title:       "Overdue invoice",
		Amount:      100,
		Currency:    "USD",
		Status:      domain.InvoiceStatusSent,
		DueDate:     &dueNow,
	}).Error)

	require.NoError(t, db.Create(&domain.File{
		WorkspaceID:    workspace.ID,
		ClientID:       client.ID,
		Filename:       "proposal.pdf",
		ContentType:    "application/pdf",
		Size:           1024,
		StoragePath:    "files/proposal.pdf",
		ApprovalStatus: domain.FileApprovalPending,
		SentByClient:   false,
	}).Error)

	require.NoError(t, db.Create(&domain.Contract{
		WorkspaceID:     workspace.ID,
		ClientID:        client.ID,
		Title:           "Pending contract",
		Status:          domain.ContractStatusAwaitingSignature,
		ClientSignature: domain.SignatureUnsigned,
		AgencySignature: domain.SignatureUnsigned,
	}).Error)

	require.NoError(t, db.Create(&domain.Form{
		WorkspaceID: workspace.ID,
		ClientID:    &client.ID,
		Title:       "Kickoff questionnaire",
		Status:      domain.FormStatusPublished,
	}).Error)

	ctx := testutil.ClientContext(workspace.ID, client)
	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	require.Len(t, snapshot.ActionQueue, 4)
	assert.Equal(t, domain.ActionContractSignature, snapshot.ActionQueue[0].Kind)
	assert.Equal(t, domain.ActionInvoiceDue, snapshot.ActionQueue[1].Kind)
	assert.Equal(t, domain.ActionFormPending, snapshot.ActionQueue[2].Kind)
	assert.Equal(t, domain.ActionFileReview, snapshot.ActionQueue[3].Kind)

	// The actions-only endpoint derives the identical queue
	queue, err := svc.ActionQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue.Items, 4)
	for i := range queue.Items {
		assert.Equal(t, snapshot.ActionQueue[i].Kind, queue.Items[i].Kind)
		assert.Equal(t, snapshot.ActionQueue[i].DocumentID, queue.Items[i].DocumentID)
	}
}

func TestPortalService_Snapshot_DisabledModulesOmitted(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createPortalService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	require.NoError(t, db.Create(&domain.PortalSettings{
		WorkspaceID: workspace.ID,
		Modules: domain.ModuleStates{
			domain.ModuleInvoices:  false,
			domain.ModuleContracts: false,
		},
	}).Error)

	dueNow := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Create(&domain.Invoice{
		WorkspaceID: workspace.ID,
		ClientID:    client.ID,
		Number:      "INV-2",
		Title:       "Invisible invoice",
		Amount:      100,
		Currency:    "USD",
		Status:      domain.InvoiceStatusSent,
		DueDate:     &dueNow,
	}).Error)

	ctx := testutil.ClientContext(workspace.ID, client)
	snapshot, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Empty(t, snapshot.Invoices)
	assert.Empty(t, snapshot.Contracts)
	// A disabled module contributes nothing to the action queue
	assert.Empty(t, snapshot.ActionQueue)
	assert.False(t, snapshot.Modules[domain.ModuleInvoices])
	assert.True(t, snapshot.Modules[domain.ModuleFiles])
}

func TestPortalService_Snapshot_HiddenProjectsExcluded(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createPortalService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	visible := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Visible")
	hidden := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Hidden")
	require.NoError(t, db.Create(&domain.PortalSettings{
		WorkspaceID:       workspace.ID,
		ProjectVisibility: domain.VisibilityMap{hidden.ID: false},
	}).Error)
	require.NoError(t, db.Create(&domain.Task{
		WorkspaceID: workspace.ID,
		ProjectID:   visible.ID,
		Title:       "Visible task",
	}).Error)
	require.NoError(t, db.Create(&domain.Task{
		WorkspaceID: workspace.ID,
		ProjectID:   hidden.ID,
		Title:       "Hidden task",
	}).Error)

	clientSnapshot, err := svc.Snapshot(testutil.ClientContext(workspace.ID, client))
	require.NoError(t, err)
	require.Len(t, clientSnapshot.Projects, 1)
	assert.Equal(t, visible.ID, clientSnapshot.Projects[0].ID)
	require.Len(t, clientSnapshot.Tasks, 1)
	assert.Equal(t, "Visible task", clientSnapshot.Tasks[0].Title)

	// The agency sees hidden projects flagged, not removed
	agencySnapshot, err := svc.Snapshot(testutil.AgencyContext(workspace.ID, client))
	require.NoError(t, err)
	assert.Len(t, agencySnapshot.Projects, 2)
}

func TestPortalService_Snapshot_UnknownWorkspace(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createPortalService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)

	// A viewer scoped to a workspace that no longer exists
	otherWorkspace := testutil.CreateTestWorkspace(t, db)
	require.NoError(t, db.Delete(&domain.Workspace{}, "id = ?", otherWorkspace.ID).Error)

	ctx := testutil.ClientContext(otherWorkspace.ID, client)
	_, err := svc.Snapshot(ctx)
	assert.ErrorIs(t, err, service.ErrWorkspaceNotFound)
}
