package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeActionQueueCategoryOrder(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)

	in := ActionQueueInput{
		Contracts: []Contract{{
			BaseModel: BaseModel{ID: uuid.New(), UpdatedAt: now},
			Title:     "msa",
			Status:    ContractStatusSent,
		}},
		Invoices: []Invoice{{
			BaseModel: BaseModel{ID: uuid.New(), UpdatedAt: now},
			Title:     "inv-1",
			Status:    InvoiceStatusSent,
			DueDate:   timePtr(past),
		}},
		Forms: []Form{{
			BaseModel: BaseModel{ID: uuid.New(), UpdatedAt: now},
			Title:     "intake",
			Status:    FormStatusPublished,
		}},
		Files: []File{{
			BaseModel:      BaseModel{ID: uuid.New(), UpdatedAt: now},
			Filename:       "brief.pdf",
			ApprovalStatus: FileApprovalPending,
		}},
		RespondentEmail: "client@example.com",
	}

	queue := ComputeActionQueue(in, now)
	require.Len(t, queue, 4)
	assert.Equal(t, ActionContractSignature, queue[0].Kind)
	assert.Equal(t, ActionInvoiceDue, queue[1].Kind)
	assert.Equal(t, ActionFormPending, queue[2].Kind)
	assert.Equal(t, ActionFileReview, queue[3].Kind)
}

func TestComputeActionQueueIdempotent(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -2, 0)

	in := ActionQueueInput{
		Contracts: []Contract{
			{BaseModel: BaseModel{ID: uuid.New(), UpdatedAt: now.Add(-time.Hour)}, Title: "a", Status: ContractStatusSent},
			{BaseModel: BaseModel{ID: uuid.New(), UpdatedAt: now.Add(-2 * time.Hour)}, Title: "b", Status: ContractStatusSent},
		},
		Invoices: []Invoice{
			{BaseModel: BaseModel{ID: uuid.New()}, Title: "late", Status: InvoiceStatusSent, DueDate: timePtr(past)},
			{BaseModel: BaseModel{ID: uuid.New()}, Title: "later", Status: InvoiceStatusViewed, DueDate: timePtr(past.AddDate(0, 1, 0))},
		},
		RespondentEmail: "client@example.com",
	}

	first := ComputeActionQueue(in, now)
	second := ComputeActionQueue(in, now)
	assert.Equal(t, first, second, "identical input must yield identically ordered output")
}

func TestComputeActionQueueContractRules(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	mkContract := func(title string, status ContractStatus, client, agency SignatureStatus, updated time.Time) Contract {
		return Contract{
			BaseModel:       BaseModel{ID: uuid.New(), UpdatedAt: updated},
			Title:           title,
			Status:          status,
			ClientSignature: client,
			AgencySignature: agency,
		}
	}

	in := ActionQueueInput{
		Contracts: []Contract{
			mkContract("awaiting", ContractStatusSent, SignatureUnsigned, SignatureUnsigned, now.Add(-3*time.Hour)),
			mkContract("agency-signed", ContractStatusSent, SignatureUnsigned, SignatureSigned, now.Add(-1*time.Hour)),
			mkContract("client-signed", ContractStatusSent, SignatureSigned, SignatureUnsigned, now),
			mkContract("fully-signed", ContractStatusSent, SignatureSigned, SignatureSigned, now),
			mkContract("declined", ContractStatusDeclined, SignatureUnsigned, SignatureUnsigned, now),
			mkContract("expired", ContractStatusExpired, SignatureUnsigned, SignatureUnsigned, now),
		},
		RespondentEmail: "client@example.com",
	}

	queue := ComputeActionQueue(in, now)
	require.Len(t, queue, 2)
	// Most recently modified first within the category.
	assert.Equal(t, "agency-signed", queue[0].Title)
	assert.Equal(t, "awaiting", queue[1].Title)
}

func TestComputeActionQueueInvoiceRules(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	mkInvoice := func(title string, status InvoiceStatus, due *time.Time) Invoice {
		return Invoice{BaseModel: BaseModel{ID: uuid.New()}, Title: title, Status: status, DueDate: due}
	}

	in := ActionQueueInput{
		Invoices: []Invoice{
			mkInvoice("due-later", InvoiceStatusSent, timePtr(now.AddDate(0, 0, 14))),
			mkInvoice("oldest-due", InvoiceStatusSent, timePtr(now.AddDate(0, -2, 0))),
			mkInvoice("newest-due", InvoiceStatusViewed, timePtr(now.AddDate(0, -1, 0))),
			mkInvoice("paid-late", InvoiceStatusPaid, timePtr(now.AddDate(0, -1, 0))),
			mkInvoice("draft-late", InvoiceStatusDraft, timePtr(now.AddDate(0, -1, 0))),
			mkInvoice("no-due-date", InvoiceStatusSent, nil),
		},
		RespondentEmail: "client@example.com",
	}

	queue := ComputeActionQueue(in, now)
	require.Len(t, queue, 2)
	// Due date ascending: most urgent first.
	assert.Equal(t, "oldest-due", queue[0].Title)
	assert.Equal(t, InvoiceStatusOverdue, InvoiceStatus(queue[0].Status))
	assert.Equal(t, "newest-due", queue[1].Title)
}

func TestComputeActionQueueFormOrdering(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	in := ActionQueueInput{
		Forms: []Form{
			{BaseModel: BaseModel{ID: uuid.New()}, Title: "no-deadline", Status: FormStatusPublished},
			{BaseModel: BaseModel{ID: uuid.New()}, Title: "due-soon", Status: FormStatusPublished, Deadline: timePtr(now.AddDate(0, 0, 2))},
			{BaseModel: BaseModel{ID: uuid.New()}, Title: "due-later", Status: FormStatusPublished, Deadline: timePtr(now.AddDate(0, 0, 9))},
			{BaseModel: BaseModel{ID: uuid.New()}, Title: "draft", Status: FormStatusDraft},
		},
		RespondentEmail: "client@example.com",
	}

	queue := ComputeActionQueue(in, now)
	require.Len(t, queue, 3)
	assert.Equal(t, "due-soon", queue[0].Title)
	assert.Equal(t, "due-later", queue[1].Title)
	assert.Equal(t, "no-deadline", queue[2].Title, "deadline-less forms sort last")
}

func TestComputeActionQueueFileRules(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	in := ActionQueueInput{
		Files: []File{
			{BaseModel: BaseModel{ID: uuid.New(), UpdatedAt: now}, Filename: "agency.pdf", ApprovalStatus: FileApprovalPending},
			{BaseModel: BaseModel{ID: uuid.New(), UpdatedAt: now}, Filename: "client-upload.pdf", ApprovalStatus: FileApprovalPending, SentByClient: true},
			{BaseModel: BaseModel{ID: uuid.New(), UpdatedAt: now}, Filename: "approved.pdf", ApprovalStatus: FileApprovalApproved},
		},
		RespondentEmail: "client@example.com",
	}

	queue := ComputeActionQueue(in, now)
	require.Len(t, queue, 1)
	assert.Equal(t, "agency.pdf", queue[0].Title)
}

func TestComputeActionQueueModuleGate(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)

	in := ActionQueueInput{
		Contracts:       []Contract{{BaseModel: BaseModel{ID: uuid.New()}, Title: "msa", Status: ContractStatusSent}},
		Invoices:        []Invoice{{BaseModel: BaseModel{ID: uuid.New()}, Title: "inv", Status: InvoiceStatusSent, DueDate: timePtr(past)}},
		Forms:           []Form{{BaseModel: BaseModel{ID: uuid.New()}, Title: "intake", Status: FormStatusPublished}},
		Files:           []File{{BaseModel: BaseModel{ID: uuid.New()}, Filename: "f.pdf", ApprovalStatus: FileApprovalPending}},
		RespondentEmail: "client@example.com",
		Modules:         ModuleStates{ModuleContracts: false, ModuleInvoices: false},
	}

	queue := ComputeActionQueue(in, now)
	require.Len(t, queue, 2)
	assert.Equal(t, ActionFormPending, queue[0].Kind)
	assert.Equal(t, ActionFileReview, queue[1].Kind)
}

func TestComputeActionQueueVisibilityScope(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	hiddenProject := uuid.New()
	visibleProject := uuid.New()

	in := ActionQueueInput{
		Invoices: []Invoice{
			{BaseModel: BaseModel{ID: uuid.New()}, Title: "hidden", Status: InvoiceStatusSent, DueDate: timePtr(past), ProjectID: &hiddenProject},
			{BaseModel: BaseModel{ID: uuid.New()}, Title: "visible", Status: InvoiceStatusSent, DueDate: timePtr(past), ProjectID: &visibleProject},
			{BaseModel: BaseModel{ID: uuid.New()}, Title: "global", Status: InvoiceStatusSent, DueDate: timePtr(past)},
		},
		Visibility:      VisibilityMap{hiddenProject: false},
		RespondentEmail: "client@example.com",
	}

	queue := ComputeActionQueue(in, now)
	require.Len(t, queue, 2)
	for _, item := range queue {
		assert.NotEqual(t, "hidden", item.Title)
	}
}

func TestComputeActionQueueEmpty(t *testing.T) {
	queue := ComputeActionQueue(ActionQueueInput{RespondentEmail: "client@example.com"}, time.Now())
	assert.NotNil(t, queue)
	assert.Empty(t, queue, "all caught up")
}
