package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupMinimalTestDB creates a minimal test database for tenant filter tests
func setupMinimalTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

// SimpleModel is a minimal model for testing the workspace filter
type SimpleModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string
	WorkspaceID string `gorm:"column:workspace_id"`
}

func viewerContext(workspaceID uuid.UUID) context.Context {
	return auth.WithViewerContext(context.Background(), &auth.ViewerContext{
		WorkspaceID: workspaceID,
		ClientID:    uuid.New(),
		Email:       "client@example.com",
		Role:        domain.ViewerClient,
	})
}

func TestApplyWorkspaceFilter_Authenticated(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	ctx := viewerContext(uuid.New())

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyWorkspaceFilter(ctx, tx.Model(&SimpleModel{})).Find(&[]SimpleModel{})
	})

	assert.Contains(t, sql, "workspace_id", "query should be scoped to the viewer's workspace")
}

func TestApplyWorkspaceFilter_Unauthenticated(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyWorkspaceFilter(context.Background(), tx.Model(&SimpleModel{})).Find(&[]SimpleModel{})
	})

	// Without a viewer the query must match nothing, never everything
	assert.Contains(t, sql, "1 = 0", "unauthenticated query should match no rows")
	assert.NotContains(t, sql, "workspace_id =")
}

func TestApplyWorkspaceFilterWithAlias(t *testing.T) {
	db := setupMinimalTestDB(t)
	_ = db.AutoMigrate(&SimpleModel{})

	ctx := viewerContext(uuid.New())

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplyWorkspaceFilterWithAlias(ctx, tx.Model(&SimpleModel{}), "projects").Find(&[]SimpleModel{})
	})

	assert.Contains(t, sql, "projects.workspace_id", "query should use the qualified column name")
}

func TestBuildOrderClause(t *testing.T) {
	fieldMap := map[string]string{
		"name":      "name",
		"updatedAt": "updated_at",
		"dueDate":   "due_date",
	}

	tests := []struct {
		name     string
		config   repository.SortConfig
		expected string
	}{
		{
			name:     "known field ascending",
			config:   repository.SortConfig{Field: "dueDate", Order: repository.SortOrderAsc},
			expected: "due_date ASC",
		},
		{
			name:     "known field descending",
			config:   repository.SortConfig{Field: "name", Order: repository.SortOrderDesc},
			expected: "name DESC",
		},
		{
			name:     "unknown field falls back to default column",
			config:   repository.SortConfig{Field: "nonsense", Order: repository.SortOrderAsc},
			expected: "updated_at ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.BuildOrderClause(tt.config, fieldMap, "updated_at")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, repository.SortOrderAsc, repository.ParseSortOrder("asc"))
	assert.Equal(t, repository.SortOrderAsc, repository.ParseSortOrder("ASC"))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder("desc"))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder(""))
	assert.Equal(t, repository.SortOrderDesc, repository.ParseSortOrder("sideways"))
}
