// Package testutil provides database helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/database"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a connection to the test PostgreSQL database.
// It uses environment variables or falls back to docker-compose
// defaults, and skips the test when no database is reachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "portal_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "portal_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "portal_test")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test schema")

	return db
}

// SetupCleanTestDB connects and wipes all portal tables
func SetupCleanTestDB(t *testing.T) *gorm.DB {
	db := SetupTestDB(t)
	CleanupTestData(t, db)
	return db
}

// CleanupTestData cleans up test data from all tables.
// Deletes in dependency order so foreign keys hold.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	tables := []string{
		"activities",
		"portal_settings",
		"bookings",
		"tasks",
		"milestones",
		"messages",
		"form_submissions",
		"forms",
		"contracts",
		"files",
		"invoices",
		"projects",
		"clients",
		"workspaces",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error
		if err != nil {
			// Table might not exist, that's ok
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestWorkspace creates a workspace for tests
func CreateTestWorkspace(t *testing.T, db *gorm.DB) *domain.Workspace {
	workspace := &domain.Workspace{
		Slug:     fmt.Sprintf("studio-%s", uuid.NewString()[:8]),
		Name:     "Test Studio",
		Email:    "hello@studio.example.com",
		IsActive: true,
	}
	require.NoError(t, db.Create(workspace).Error)
	return workspace
}

// CreateTestClient creates a client in the given workspace
func CreateTestClient(t *testing.T, db *gorm.DB, workspaceID uuid.UUID) *domain.Client {
	client := &domain.Client{
		WorkspaceID: workspaceID,
		Slug:        fmt.Sprintf("client-%s", uuid.NewString()[:8]),
		Name:        "Acme Corp",
		Email:       fmt.Sprintf("%s@acme.example.com", uuid.NewString()[:8]),
		IsActive:    true,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestProject creates a project for the given client
func CreateTestProject(t *testing.T, db *gorm.DB, workspaceID, clientID uuid.UUID, name string) *domain.Project {
	project := &domain.Project{
		WorkspaceID: workspaceID,
		ClientID:    clientID,
		Name:        name,
		Status:      domain.ProjectStatusActive,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// ClientContext returns a context carrying a client-side viewer for the
// given workspace and client
func ClientContext(workspaceID uuid.UUID, client *domain.Client) context.Context {
	return auth.WithViewerContext(context.Background(), &auth.ViewerContext{
		WorkspaceID: workspaceID,
		ClientID:    client.ID,
		Email:       client.Email,
		DisplayName: client.Name,
		Role:        domain.ViewerClient,
	})
}

// AgencyContext returns a context carrying an agency-side viewer acting
// on the given client
func AgencyContext(workspaceID uuid.UUID, client *domain.Client) context.Context {
	return auth.WithViewerContext(context.Background(), &auth.ViewerContext{
		WorkspaceID: workspaceID,
		ClientID:    client.ID,
		Email:       "agency@studio.example.com",
		DisplayName: "Agency User",
		Role:        domain.ViewerAgency,
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
