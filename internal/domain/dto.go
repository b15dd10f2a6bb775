package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for portal API responses

type WorkspaceDTO struct {
	ID       uuid.UUID `json:"id"`
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Logo     string    `json:"logo,omitempty"`
	IsActive bool      `json:"isActive"`
}

type ClientDTO struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   string    `json:"createdAt"` // ISO 8601
	UpdatedAt   string    `json:"updatedAt"` // ISO 8601
}

type ProjectDTO struct {
	ID          uuid.UUID     `json:"id"`
	ClientID    uuid.UUID     `json:"clientId"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	StartDate   *string       `json:"startDate,omitempty"`
	EndDate     *string       `json:"endDate,omitempty"`
	Visible     bool          `json:"visible"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

type InvoiceDTO struct {
	ID         uuid.UUID     `json:"id"`
	ClientID   uuid.UUID     `json:"clientId"`
	ProjectID  *uuid.UUID    `json:"projectId,omitempty"`
	Number     string        `json:"number"`
	Title      string        `json:"title"`
	Amount     float64       `json:"amount"`
	AmountPaid float64       `json:"amountPaid"`
	Currency   string        `json:"currency"`
	Status     InvoiceStatus `json:"status"` // effective status, overdue derived at read time
	IssuedAt   *string       `json:"issuedAt,omitempty"`
	DueDate    *string       `json:"dueDate,omitempty"`
	ViewedAt   *string       `json:"viewedAt,omitempty"`
	PaidAt     *string       `json:"paidAt,omitempty"`
	CreatedAt  string        `json:"createdAt"`
	UpdatedAt  string        `json:"updatedAt"`
}

type ContractDTO struct {
	ID              uuid.UUID       `json:"id"`
	ClientID        uuid.UUID       `json:"clientId"`
	ProjectID       *uuid.UUID      `json:"projectId,omitempty"`
	Title           string          `json:"title"`
	Status          ContractStatus  `json:"status"`        // composite
	DisplayStatus   ContractStatus  `json:"displayStatus"` // viewer-relative
	ClientSignature SignatureStatus `json:"clientSignature"`
	AgencySignature SignatureStatus `json:"agencySignature"`
	ClientSignedAt  *string         `json:"clientSignedAt,omitempty"`
	AgencySignedAt  *string         `json:"agencySignedAt,omitempty"`
	ExpiresAt       *string         `json:"expiresAt,omitempty"`
	FileID          *uuid.UUID      `json:"fileId,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
}

type FileDTO struct {
	ID             uuid.UUID          `json:"id"`
	ClientID       uuid.UUID          `json:"clientId"`
	ProjectID      *uuid.UUID         `json:"projectId,omitempty"`
	Filename       string             `json:"filename"`
	ContentType    string             `json:"contentType"`
	Size           int64              `json:"size"`
	ApprovalStatus FileApprovalStatus `json:"approvalStatus"`
	SentByClient   bool               `json:"sentByClient"`
	ReviewedAt     *string            `json:"reviewedAt,omitempty"`
	ReviewNote     string             `json:"reviewNote,omitempty"`
	CreatedAt      string             `json:"createdAt"`
	UpdatedAt      string             `json:"updatedAt"`
}

type FormDTO struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    *uuid.UUID `json:"clientId,omitempty"`
	ProjectID   *uuid.UUID `json:"projectId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      FormStatus `json:"status"`
	Pending     bool       `json:"pending"` // pending for the requesting respondent
	Deadline    *string    `json:"deadline,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

type FormSubmissionDTO struct {
	ID              uuid.UUID `json:"id"`
	FormID          uuid.UUID `json:"formId"`
	RespondentEmail string    `json:"respondentEmail"`
	Completed       bool      `json:"completed"`
	SubmittedAt     *string   `json:"submittedAt,omitempty"`
	CreatedAt       string    `json:"createdAt"`
}

type MessageDTO struct {
	ID         uuid.UUID  `json:"id"`
	ClientID   uuid.UUID  `json:"clientId"`
	ProjectID  *uuid.UUID `json:"projectId,omitempty"`
	SenderRole ViewerRole `json:"senderRole"`
	SenderName string     `json:"senderName,omitempty"`
	Body       string     `json:"body"`
	ReadAt     *string    `json:"readAt,omitempty"`
	CreatedAt  string     `json:"createdAt"`
}

type MilestoneDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProjectID   uuid.UUID       `json:"projectId"`
	Title       string          `json:"title"`
	Status      MilestoneStatus `json:"status"`
	DueDate     *string         `json:"dueDate,omitempty"`
	CompletedAt *string         `json:"completedAt,omitempty"`
	SortOrder   int             `json:"sortOrder"`
}

type TaskDTO struct {
	ID           uuid.UUID    `json:"id"`
	ProjectID    uuid.UUID    `json:"projectId"`
	MilestoneID  *uuid.UUID   `json:"milestoneId,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Status       TaskStatus   `json:"status"`
	Priority     TaskPriority `json:"priority"`
	AssigneeName string       `json:"assigneeName,omitempty"`
	DueDate      *string      `json:"dueDate,omitempty"`
	SortOrder    int          `json:"sortOrder"`
}

type BookingDTO struct {
	ID       uuid.UUID     `json:"id"`
	ClientID uuid.UUID     `json:"clientId"`
	Title    string        `json:"title"`
	StartsAt string        `json:"startsAt"`
	EndsAt   string        `json:"endsAt"`
	Location string        `json:"location,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	Status   BookingStatus `json:"status"`
}

type ActivityDTO struct {
	ID         uuid.UUID          `json:"id"`
	ClientID   *uuid.UUID         `json:"clientId,omitempty"`
	TargetType ActivityTargetType `json:"targetType"`
	TargetID   uuid.UUID          `json:"targetId"`
	Title      string             `json:"title"`
	Body       string             `json:"body,omitempty"`
	ActorRole  ViewerRole         `json:"actorRole"`
	ActorName  string             `json:"actorName,omitempty"`
	OccurredAt string             `json:"occurredAt"`
}

type PortalSettingsDTO struct {
	Modules           map[ModuleName]bool `json:"modules"`
	ProjectVisibility map[string]bool     `json:"projectVisibility"`
	DefaultProjectID  *uuid.UUID          `json:"defaultProjectId,omitempty"`
	AccentColor       string              `json:"accentColor,omitempty"`
	WelcomeMessage    string              `json:"welcomeMessage,omitempty"`
	UpdatedAt         string              `json:"updatedAt"`
}

// PortalSnapshotDTO is the full portal view for one client: projects,
// documents, the action queue and the module gate state, derived in
// one pass.
type PortalSnapshotDTO struct {
	Workspace      WorkspaceDTO        `json:"workspace"`
	Client         ClientDTO           `json:"client"`
	Projects       []ProjectDTO        `json:"projects"`
	DefaultProject *uuid.UUID          `json:"defaultProjectId,omitempty"`
	Invoices       []InvoiceDTO        `json:"invoices"`
	Contracts      []ContractDTO       `json:"contracts"`
	Forms          []FormDTO           `json:"forms"`
	Files          []FileDTO           `json:"files"`
	Milestones     []MilestoneDTO      `json:"milestones"`
	Tasks          []TaskDTO           `json:"tasks"`
	Bookings       []BookingDTO        `json:"bookings"`
	UnreadMessages int64               `json:"unreadMessages"`
	ActionQueue    []ActionItem        `json:"actionQueue"`
	Modules        map[ModuleName]bool `json:"modules"`
	AccentColor    string              `json:"accentColor,omitempty"`
	WelcomeMessage string              `json:"welcomeMessage,omitempty"`
	GeneratedAt    string              `json:"generatedAt"`
	Degraded       []string            `json:"degraded,omitempty"` // kinds that fell back to empty on fetch failure
}

// ActionQueueDTO carries just the derived action-needed items.
type ActionQueueDTO struct {
	Items       []ActionItem `json:"items"`
	GeneratedAt string       `json:"generatedAt"`
}

// Request DTOs

type SignContractRequest struct {
	SignatureData string `json:"signatureData" validate:"required,max=10000"`
	SignerName    string `json:"signerName" validate:"required,max=200"`
}

type DeclineContractRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type ReviewFileRequest struct {
	Approved bool   `json:"approved"`
	Note     string `json:"note" validate:"max=500"`
}

type SubmitFormRequest struct {
	Answers   string `json:"answers" validate:"required"`
	Completed bool   `json:"completed"`
}

type CreateMessageRequest struct {
	ProjectID *uuid.UUID `json:"projectId,omitempty"`
	Body      string     `json:"body" validate:"required,max=4000"`
}

type UpdatePortalSettingsRequest struct {
	Modules           map[ModuleName]bool `json:"modules" validate:"omitempty"`
	ProjectVisibility map[string]bool     `json:"projectVisibility" validate:"omitempty"`
	DefaultProjectID  *uuid.UUID          `json:"defaultProjectId,omitempty"`
	// ClearDefaultProject removes the stored default; an absent
	// defaultProjectId alone leaves it untouched.
	ClearDefaultProject bool    `json:"clearDefaultProject,omitempty"`
	AccentColor         *string `json:"accentColor,omitempty" validate:"omitempty,max=20"`
	WelcomeMessage      *string `json:"welcomeMessage,omitempty" validate:"omitempty,max=1000"`
}

type PortalTokenRequest struct {
	WorkspaceSlug string `json:"workspaceSlug" validate:"required,max=100"`
	ClientEmail   string `json:"clientEmail" validate:"required,email"`
	Role          string `json:"role" validate:"required,oneof=agency client"`
}

type PortalTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// PaginatedResponse wraps a page of results with pagination metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalCount int64       `json:"totalCount"`
	TotalPages int         `json:"totalPages"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// FormatTime formats a time as ISO 8601 for DTOs
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatTimePtr formats an optional time as ISO 8601, nil passing through
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
