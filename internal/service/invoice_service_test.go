package service_test

import (
	"testing"
	"time"

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

func createInvoiceService(db *gorm.DB) *service.InvoiceService {
	invoiceRepo := repository.NewInvoiceRepository(db)
	settingsRepo := repository.NewPortalSettingsRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	logger := zap.NewNop()

	activityService := service.NewActivityService(activityRepo, logger)
	return service.NewInvoiceService(invoiceRepo, settingsRepo, activityService, logger)
}

func createTestInvoice(t *testing.T, db *gorm.DB, workspaceID, clientID uuid.UUID, status domain.InvoiceStatus, dueDate *time.Time) *domain.Invoice {
	invoice := &domain.Invoice{
		WorkspaceID: workspaceID,
		ClientID:    clientID,
		Number:      "INV-" + uuid.NewString()[:8],
		Title:       "Monthly retainer",
		Amount:      2500,
		Currency:    "USD",
		Status:      status,
		DueDate:     dueDate,
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func TestInvoiceService_List_DerivesOverdue(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createInvoiceService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	pastDue := time.Now().AddDate(0, 0, -5)
	invoice := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusSent, &pastDue)

	ctx := testutil.ClientContext(workspace.ID, client)
	dtos, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, domain.InvoiceStatusOverdue, dtos[0].Status)

	// The stored row keeps its status; overdue is derived per read
	var stored domain.Invoice
	require.NoError(t, db.First(&stored, "id = ?", invoice.ID).Error)
	assert.Equal(t, domain.InvoiceStatusSent, stored.Status)
}

func TestInvoiceService_List_DraftsHiddenFromClients(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createInvoiceService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusDraft, nil)
	sent := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusSent, nil)

	dtos, err := svc.List(testutil.ClientContext(workspace.ID, client), nil)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, sent.ID, dtos[0].ID)

	dtos, err = svc.List(testutil.AgencyContext(workspace.ID, client), nil)
	require.NoError(t, err)
	assert.Len(t, dtos, 2)
}

func TestInvoiceService_List_ModuleDisabled(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createInvoiceService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	require.NoError(t, db.Create(&domain.PortalSettings{
		WorkspaceID: workspace.ID,
		Modules:     domain.ModuleStates{domain.ModuleInvoices: false},
	}).Error)

	_, err := svc.List(testutil.ClientContext(workspace.ID, client), nil)
	assert.ErrorIs(t, err, service.ErrModuleDisabled)
}

func TestInvoiceService_List_ProjectFilter(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createInvoiceService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	projectA := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Project A")
	projectB := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Project B")

	invA := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusSent, nil)
	require.NoError(t, db.Model(invA).Update("project_id", projectA.ID).Error)
	invB := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusSent, nil)
	require.NoError(t, db.Model(invB).Update("project_id", projectB.ID).Error)
	unscoped := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusSent, nil)

	ctx := testutil.ClientContext(workspace.ID, client)

	// Selecting a project narrows to that project plus unscoped documents
	dtos, err := svc.List(ctx, &projectA.ID)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{invA.ID, unscoped.ID}, ids)
}

func TestInvoiceService_List_HiddenProjectExcluded(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createInvoiceService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	hidden := testutil.CreateTestProject(t, db, workspace.ID, client.ID, "Hidden project")
	require.NoError(t, db.Create(&domain.PortalSettings{
		WorkspaceID:       workspace.ID,
		ProjectVisibility: domain.VisibilityMap{hidden.ID: false},
	}).Error)

	inv := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusSent, nil)
	require.NoError(t, db.Model(inv).Update("project_id", hidden.ID).Error)
	visible := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusSent, nil)

	dtos, err := svc.List(testutil.ClientContext(workspace.ID, client), nil)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, visible.ID, dtos[0].ID)

	// Explicitly selecting the hidden project bypasses the map
	dtos, err = svc.List(testutil.ClientContext(workspace.ID, client), &hidden.ID)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	assert.Contains(t, ids, inv.ID)
}

func TestInvoiceService_Get_ClientViewStampsViewed(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createInvoiceService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	invoice := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusSent, nil)

	dto, err := svc.Get(testutil.ClientContext(workspace.ID, client), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusViewed, dto.Status)
	assert.NotNil(t, dto.ViewedAt)

	var stored domain.Invoice
	require.NoError(t, db.First(&stored, "id = ?", invoice.ID).Error)
	assert.Equal(t, domain.InvoiceStatusViewed, stored.Status)
	assert.NotNil(t, stored.ViewedAt)
}

func TestInvoiceService_Get_AgencyViewDoesNotStamp(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createInvoiceService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	invoice := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusSent, nil)

	dto, err := svc.Get(testutil.AgencyContext(workspace.ID, client), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, dto.Status)
	assert.Nil(t, dto.ViewedAt)

	var stored domain.Invoice
	require.NoError(t, db.First(&stored, "id = ?", invoice.ID).Error)
	assert.Nil(t, stored.ViewedAt)
}

func TestInvoiceService_Get_DraftHiddenFromClient(t *testing.T) {
	db := testutil.SetupCleanTestDB(t)
	svc := createInvoiceService(db)

	workspace := testutil.CreateTestWorkspace(t, db)
	client := testutil.CreateTestClient(t, db, workspace.ID)
	draft := createTestInvoice(t, db, workspace.ID, client.ID, domain.InvoiceStatusDraft, nil)

	_, err := svc.Get(testutil.ClientContext(workspace.ID, client), draft.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
