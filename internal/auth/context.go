package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
)

// ViewerContext holds the authenticated portal viewer: which workspace
// the request is scoped to, which client record it acts as, and which
// side of the portal is looking.
type ViewerContext struct {
	WorkspaceID uuid.UUID
	ClientID    uuid.UUID
	Email       string
	DisplayName string
	Role        domain.ViewerRole
}

type contextKey string

const viewerContextKey contextKey = "viewerContext"

// WithViewerContext adds viewer context to the context
func WithViewerContext(ctx context.Context, viewer *ViewerContext) context.Context {
	return context.WithValue(ctx, viewerContextKey, viewer)
}

// FromContext extracts viewer context from the context
func FromContext(ctx context.Context) (*ViewerContext, bool) {
	viewer, ok := ctx.Value(viewerContextKey).(*ViewerContext)
	return viewer, ok
}

// MustFromContext extracts viewer context or panics
func MustFromContext(ctx context.Context) *ViewerContext {
	viewer, ok := FromContext(ctx)
	if !ok {
		panic("viewer context not found in context")
	}
	return viewer
}

// IsAgency reports whether the viewer is on the agency side
func (v *ViewerContext) IsAgency() bool {
	return v.Role == domain.ViewerAgency
}

// IsClient reports whether the viewer is a portal client
func (v *ViewerContext) IsClient() bool {
	return v.Role == domain.ViewerClient
}

// WorkspaceFilter returns the workspace ID every repository query must
// be scoped to. There is no unscoped viewer; cross-tenant reads do not
// exist in this API.
func (v *ViewerContext) WorkspaceFilter() uuid.UUID {
	return v.WorkspaceID
}

// GetWorkspaceFilter returns the workspace scope from the context, or
// uuid.Nil with false when the request is unauthenticated.
func GetWorkspaceFilter(ctx context.Context) (uuid.UUID, bool) {
	viewer, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return viewer.WorkspaceID, true
}
