package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Workspace represents an agency tenant. Every portal record is scoped
// to exactly one workspace.
type Workspace struct {
	BaseModel
	Slug     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(200);not null"`
	Email    string `gorm:"type:varchar(255);not null"`
	Logo     string `gorm:"type:varchar(500)"`
	IsActive bool   `gorm:"not null;default:true;column:is_active"`
}

// Client represents a portal client belonging to a workspace
type Client struct {
	BaseModel
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index;column:workspace_id"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID"`
	Slug        string     `gorm:"type:varchar(100);not null;index"`
	Name        string     `gorm:"type:varchar(200);not null;index"`
	Email       string     `gorm:"type:varchar(255);not null;index"`
	Phone       string     `gorm:"type:varchar(50)"`
	CompanyName string     `gorm:"type:varchar(200);column:company_name"`
	IsActive    bool       `gorm:"not null;default:true;column:is_active"`
	Projects    []Project  `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// ProjectStatus represents the status of a client project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// IsValid checks if the ProjectStatus is a valid enum value
func (ps ProjectStatus) IsValid() bool {
	switch ps {
	case ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// Project represents work the agency performs for a client
type Project struct {
	BaseModel
	WorkspaceID uuid.UUID     `gorm:"type:uuid;not null;index;column:workspace_id"`
	ClientID    uuid.UUID     `gorm:"type:uuid;not null;index;column:client_id"`
	Client      *Client       `gorm:"foreignKey:ClientID"`
	Name        string        `gorm:"type:varchar(200);not null;index"`
	Description string        `gorm:"type:text"`
	Status      ProjectStatus `gorm:"type:varchar(50);not null;default:'active';index"`
	StartDate   *time.Time    `gorm:"type:date;column:start_date"`
	EndDate     *time.Time    `gorm:"type:date;column:end_date"`
}

// Invoice represents a billable document surfaced in the portal.
// Status holds the stored lifecycle value; overdue is derived at read
// time and never written back by reads (see EffectiveStatus).
type Invoice struct {
	BaseModel
	WorkspaceID  uuid.UUID     `gorm:"type:uuid;not null;index;column:workspace_id"`
	ClientID     uuid.UUID     `gorm:"type:uuid;not null;index;column:client_id"`
	Client       *Client       `gorm:"foreignKey:ClientID"`
	ProjectID    *uuid.UUID    `gorm:"type:uuid;index;column:project_id"`
	Project      *Project      `gorm:"foreignKey:ProjectID"`
	Number       string        `gorm:"type:varchar(50);not null;index"`
	Title        string        `gorm:"type:varchar(200);not null"`
	Amount       float64       `gorm:"type:decimal(15,2);not null;default:0"`
	AmountPaid   float64       `gorm:"type:decimal(15,2);not null;default:0;column:amount_paid"`
	Currency     string        `gorm:"type:varchar(3);not null;default:'USD'"`
	Status       InvoiceStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	IssuedAt     *time.Time    `gorm:"column:issued_at"`
	DueDate      *time.Time    `gorm:"type:date;column:due_date;index"`
	ViewedAt     *time.Time    `gorm:"column:viewed_at"`
	PaidAt       *time.Time    `gorm:"column:paid_at"`
	ERPReference string        `gorm:"type:varchar(100);column:erp_reference;index"`
	ERPSyncedAt  *time.Time    `gorm:"column:erp_synced_at"`
}

// ProjectRef returns the project scope of the invoice, nil when unscoped
func (i *Invoice) ProjectRef() *uuid.UUID { return i.ProjectID }

// Contract represents an agreement awaiting signatures. Status is the
// stored lifecycle value; the composite status is recomputed from the
// two signature sides by Reconcile.
type Contract struct {
	BaseModel
	WorkspaceID     uuid.UUID       `gorm:"type:uuid;not null;index;column:workspace_id"`
	ClientID        uuid.UUID       `gorm:"type:uuid;not null;index;column:client_id"`
	Client          *Client         `gorm:"foreignKey:ClientID"`
	ProjectID       *uuid.UUID      `gorm:"type:uuid;index;column:project_id"`
	Project         *Project        `gorm:"foreignKey:ProjectID"`
	Title           string          `gorm:"type:varchar(200);not null"`
	Status          ContractStatus  `gorm:"type:varchar(50);not null;default:'draft';index"`
	ClientSignature SignatureStatus `gorm:"type:varchar(50);not null;default:'unsigned';column:client_signature"`
	AgencySignature SignatureStatus `gorm:"type:varchar(50);not null;default:'unsigned';column:agency_signature"`
	ClientSignedAt  *time.Time      `gorm:"column:client_signed_at"`
	AgencySignedAt  *time.Time      `gorm:"column:agency_signed_at"`
	DeclinedAt      *time.Time      `gorm:"column:declined_at"`
	ExpiresAt       *time.Time      `gorm:"column:expires_at"`
	FileID          *uuid.UUID      `gorm:"type:uuid;column:file_id"`
	File            *File           `gorm:"foreignKey:FileID"`
}

// ProjectRef returns the project scope of the contract, nil when unscoped
func (c *Contract) ProjectRef() *uuid.UUID { return c.ProjectID }

// FileApprovalStatus represents the review state of a shared file
type FileApprovalStatus string

const (
	FileApprovalPending  FileApprovalStatus = "pending"
	FileApprovalApproved FileApprovalStatus = "approved"
	FileApprovalRejected FileApprovalStatus = "rejected"
)

// IsValid checks if the FileApprovalStatus is a valid enum value
func (fs FileApprovalStatus) IsValid() bool {
	switch fs {
	case FileApprovalPending, FileApprovalApproved, FileApprovalRejected:
		return true
	}
	return false
}

// File represents a file shared through the portal. SentByClient marks
// client uploads, which never enter the client review queue.
type File struct {
	BaseModel
	WorkspaceID    uuid.UUID          `gorm:"type:uuid;not null;index;column:workspace_id"`
	ClientID       uuid.UUID          `gorm:"type:uuid;not null;index;column:client_id"`
	Client         *Client            `gorm:"foreignKey:ClientID"`
	ProjectID      *uuid.UUID         `gorm:"type:uuid;index;column:project_id"`
	Project        *Project           `gorm:"foreignKey:ProjectID"`
	Filename       string             `gorm:"type:varchar(255);not null"`
	ContentType    string             `gorm:"type:varchar(100);not null;column:content_type"`
	Size           int64              `gorm:"not null"`
	StoragePath    string             `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	ApprovalStatus FileApprovalStatus `gorm:"type:varchar(50);not null;default:'pending';column:approval_status;index"`
	SentByClient   bool               `gorm:"not null;default:false;column:sent_by_client"`
	ReviewedAt     *time.Time         `gorm:"column:reviewed_at"`
	ReviewNote     string             `gorm:"type:varchar(500);column:review_note"`
}

// ProjectRef returns the project scope of the file, nil when unscoped
func (f *File) ProjectRef() *uuid.UUID { return f.ProjectID }

// FormStatus represents the publication state of a form
type FormStatus string

const (
	FormStatusDraft     FormStatus = "draft"
	FormStatusPublished FormStatus = "published"
)

// IsValid checks if the FormStatus is a valid enum value
func (fs FormStatus) IsValid() bool {
	return fs == FormStatusDraft || fs == FormStatusPublished
}

// Form represents a questionnaire the agency asks a client to fill in
type Form struct {
	BaseModel
	WorkspaceID     uuid.UUID      `gorm:"type:uuid;not null;index;column:workspace_id"`
	ClientID        *uuid.UUID     `gorm:"type:uuid;index;column:client_id"`
	Client          *Client        `gorm:"foreignKey:ClientID"`
	ProjectID       *uuid.UUID     `gorm:"type:uuid;index;column:project_id"`
	Project         *Project       `gorm:"foreignKey:ProjectID"`
	Title           string         `gorm:"type:varchar(200);not null"`
	Description     string         `gorm:"type:text"`
	Status          FormStatus     `gorm:"type:varchar(50);not null;default:'draft';index"`
	Deadline        *time.Time     `gorm:"type:date"`
	RecipientEmails pq.StringArray `gorm:"type:text[];column:recipient_emails"`
	Submissions     []FormSubmission `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE"`
}

// ProjectRef returns the project scope of the form, nil when unscoped
func (f *Form) ProjectRef() *uuid.UUID { return f.ProjectID }

// FormSubmission represents a respondent's answer set for a form.
// Submissions are keyed by (form, respondent email); the latest
// completed submission per pair is the binding one.
type FormSubmission struct {
	BaseModel
	WorkspaceID     uuid.UUID  `gorm:"type:uuid;not null;index;column:workspace_id"`
	FormID          uuid.UUID  `gorm:"type:uuid;not null;index;column:form_id"`
	Form            *Form      `gorm:"foreignKey:FormID"`
	ClientID        uuid.UUID  `gorm:"type:uuid;not null;index;column:client_id"`
	RespondentEmail string     `gorm:"type:varchar(255);not null;index;column:respondent_email"`
	Completed       bool       `gorm:"not null;default:false"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at"`
	Answers         string     `gorm:"type:jsonb"`
}

// Message represents a portal message between the agency and a client
type Message struct {
	BaseModel
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index;column:workspace_id"`
	ClientID    uuid.UUID  `gorm:"type:uuid;not null;index;column:client_id"`
	ProjectID   *uuid.UUID `gorm:"type:uuid;index;column:project_id"`
	SenderRole  ViewerRole `gorm:"type:varchar(50);not null;column:sender_role"`
	SenderName  string     `gorm:"type:varchar(200);column:sender_name"`
	Body        string     `gorm:"type:varchar(4000);not null"`
	ReadAt      *time.Time `gorm:"column:read_at"`
}

// MilestoneStatus represents the progress state of a project milestone
type MilestoneStatus string

const (
	MilestoneStatusPlanned MilestoneStatus = "planned"
	MilestoneStatusActive  MilestoneStatus = "active"
	MilestoneStatusDone    MilestoneStatus = "done"
)

// IsValid checks if the MilestoneStatus is a valid enum value
func (ms MilestoneStatus) IsValid() bool {
	switch ms {
	case MilestoneStatusPlanned, MilestoneStatusActive, MilestoneStatusDone:
		return true
	}
	return false
}

// Milestone represents a timeline entry on a project
type Milestone struct {
	BaseModel
	WorkspaceID uuid.UUID       `gorm:"type:uuid;not null;index;column:workspace_id"`
	ProjectID   uuid.UUID       `gorm:"type:uuid;not null;index;column:project_id"`
	Project     *Project        `gorm:"foreignKey:ProjectID"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Status      MilestoneStatus `gorm:"type:varchar(50);not null;default:'planned'"`
	DueDate     *time.Time      `gorm:"type:date;column:due_date"`
	CompletedAt *time.Time      `gorm:"column:completed_at"`
	SortOrder   int             `gorm:"not null;default:0;column:sort_order"`
}

// TaskStatus represents the progress state of a project task
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// IsValid checks if the TaskStatus is a valid enum value
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a project task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// IsValid checks if the TaskPriority is a valid enum value
func (tp TaskPriority) IsValid() bool {
	switch tp {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task represents a work item on a project, optionally attached to a
// milestone. Tasks are agency-managed and surface read-only in the
// portal.
type Task struct {
	BaseModel
	WorkspaceID  uuid.UUID    `gorm:"type:uuid;not null;index;column:workspace_id"`
	ProjectID    uuid.UUID    `gorm:"type:uuid;not null;index;column:project_id"`
	Project      *Project     `gorm:"foreignKey:ProjectID"`
	MilestoneID  *uuid.UUID   `gorm:"type:uuid;index;column:milestone_id"`
	Title        string       `gorm:"type:varchar(200);not null"`
	Description  string       `gorm:"type:text"`
	Status       TaskStatus   `gorm:"type:varchar(50);not null;default:'todo'"`
	Priority     TaskPriority `gorm:"type:varchar(50);not null;default:'medium'"`
	AssigneeName string       `gorm:"type:varchar(200);column:assignee_name"`
	DueDate      *time.Time   `gorm:"type:date;column:due_date"`
	SortOrder    int          `gorm:"not null;default:0;column:sort_order"`
}

// BookingStatus represents the state of a booked appointment
type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents an appointment between the agency and a client.
// Slot generation happens outside this service; only booked records
// are stored and listed.
type Booking struct {
	BaseModel
	WorkspaceID uuid.UUID     `gorm:"type:uuid;not null;index;column:workspace_id"`
	ClientID    uuid.UUID     `gorm:"type:uuid;not null;index;column:client_id"`
	Client      *Client       `gorm:"foreignKey:ClientID"`
	Title       string        `gorm:"type:varchar(200);not null"`
	StartsAt    time.Time     `gorm:"not null;column:starts_at;index"`
	EndsAt      time.Time     `gorm:"not null;column:ends_at"`
	Location    string        `gorm:"type:varchar(200)"`
	Notes       string        `gorm:"type:text"`
	Status      BookingStatus `gorm:"type:varchar(50);not null;default:'scheduled'"`
}

// ModuleStates maps module names to enabled flags, stored as jsonb.
// A module absent from the map is enabled.
type ModuleStates map[ModuleName]bool

// Value implements driver.Valuer for jsonb storage
func (m ModuleStates) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for jsonb storage
func (m *ModuleStates) Scan(value interface{}) error {
	if value == nil {
		*m = ModuleStates{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into ModuleStates", value)
		}
	}
	return json.Unmarshal(b, m)
}

// VisibilityMap maps project IDs to portal visibility flags, stored as
// jsonb. A project absent from the map is visible.
type VisibilityMap map[uuid.UUID]bool

// Value implements driver.Valuer for jsonb storage
func (v VisibilityMap) Value() (driver.Value, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

// Scan implements sql.Scanner for jsonb storage
func (v *VisibilityMap) Scan(value interface{}) error {
	if value == nil {
		*v = VisibilityMap{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, sok := value.(string); sok {
			b = []byte(s)
		} else {
			return fmt.Errorf("cannot scan %T into VisibilityMap", value)
		}
	}
	return json.Unmarshal(b, v)
}

// PortalSettings holds per-workspace portal configuration: module
// toggles, the project visibility map and the default project.
type PortalSettings struct {
	BaseModel
	WorkspaceID       uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex;column:workspace_id"`
	Workspace         *Workspace    `gorm:"foreignKey:WorkspaceID"`
	Modules           ModuleStates  `gorm:"type:jsonb;not null;default:'{}'"`
	ProjectVisibility VisibilityMap `gorm:"type:jsonb;not null;default:'{}';column:project_visibility"`
	DefaultProjectID  *uuid.UUID    `gorm:"type:uuid;column:default_project_id"`
	AccentColor       string        `gorm:"type:varchar(20);column:accent_color"`
	WelcomeMessage    string        `gorm:"type:varchar(1000);column:welcome_message"`
}

// ActivityTargetType represents the type of entity an activity is associated with
type ActivityTargetType string

const (
	ActivityTargetClient   ActivityTargetType = "Client"
	ActivityTargetProject  ActivityTargetType = "Project"
	ActivityTargetInvoice  ActivityTargetType = "Invoice"
	ActivityTargetContract ActivityTargetType = "Contract"
	ActivityTargetForm     ActivityTargetType = "Form"
	ActivityTargetFile     ActivityTargetType = "File"
	ActivityTargetMessage  ActivityTargetType = "Message"
	ActivityTargetBooking  ActivityTargetType = "Booking"
	ActivityTargetSettings ActivityTargetType = "Settings"
)

// Activity represents an event log entry for portal interactions
type Activity struct {
	BaseModel
	WorkspaceID uuid.UUID          `gorm:"type:uuid;not null;index;column:workspace_id"`
	ClientID    *uuid.UUID         `gorm:"type:uuid;index;column:client_id"`
	TargetType  ActivityTargetType `gorm:"type:varchar(50);not null;index;column:target_type"`
	TargetID    uuid.UUID          `gorm:"type:uuid;not null;index;column:target_id"`
	Title       string             `gorm:"type:varchar(200);not null"`
	Body        string             `gorm:"type:varchar(2000)"`
	ActorRole   ViewerRole         `gorm:"type:varchar(50);not null;column:actor_role"`
	ActorName   string             `gorm:"type:varchar(200);column:actor_name"`
	OccurredAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
}
