package repository

import (
	"context"
	"strings"

	"github.com/jolix/portal-api/internal/auth"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (updated_at DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "updatedAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config.
// fieldMap maps API field names to database column names; unknown
// fields fall back to the default column.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// ApplyWorkspaceFilter applies the multi-tenant workspace filter to a
// GORM query. Every portal table carries a workspace_id column and
// every authenticated request is scoped to exactly one workspace, so
// an unauthenticated context yields a query that matches nothing
// rather than everything.
func ApplyWorkspaceFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	workspaceID, ok := auth.GetWorkspaceFilter(ctx)
	if !ok {
		return query.Where("1 = 0")
	}
	return query.Where("workspace_id = ?", workspaceID)
}

// ApplyWorkspaceFilterWithAlias applies the workspace filter using a
// table alias. Use this when joining multiple tables.
func ApplyWorkspaceFilterWithAlias(ctx context.Context, query *gorm.DB, tableAlias string) *gorm.DB {
	workspaceID, ok := auth.GetWorkspaceFilter(ctx)
	if !ok {
		return query.Where("1 = 0")
	}
	return query.Where(tableAlias+".workspace_id = ?", workspaceID)
}
