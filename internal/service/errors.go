package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a viewer doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., stale update)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when the viewer is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrWorkspaceNotFound is returned when a workspace slug resolves to nothing
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrClientNotFound is returned when a client is not found in the workspace
	ErrClientNotFound = errors.New("client not found")

	// ErrContractNotSignable is returned when a contract is not in a signable state
	ErrContractNotSignable = errors.New("contract is not awaiting a signature")

	// ErrFileNotReviewable is returned when a file is not awaiting review
	ErrFileNotReviewable = errors.New("file is not awaiting review")

	// ErrFormClosed is returned when a submission targets a draft or out-of-scope form
	ErrFormClosed = errors.New("form is not open for submissions")

	// ErrModuleDisabled is returned when a request targets a disabled portal module
	ErrModuleDisabled = errors.New("portal module is disabled")
)
