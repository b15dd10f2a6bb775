package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestInvoiceEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name     string
		invoice  Invoice
		expected InvoiceStatus
	}{
		{
			name:     "sent with past due date reads overdue",
			invoice:  Invoice{Status: InvoiceStatusSent, DueDate: timePtr(past)},
			expected: InvoiceStatusOverdue,
		},
		{
			name:     "viewed with past due date reads overdue",
			invoice:  Invoice{Status: InvoiceStatusViewed, DueDate: timePtr(past)},
			expected: InvoiceStatusOverdue,
		},
		{
			name:     "partially paid with past due date reads overdue",
			invoice:  Invoice{Status: InvoiceStatusPartiallyPaid, DueDate: timePtr(past)},
			expected: InvoiceStatusOverdue,
		},
		{
			name:     "paid is terminal even when past due",
			invoice:  Invoice{Status: InvoiceStatusPaid, DueDate: timePtr(past)},
			expected: InvoiceStatusPaid,
		},
		{
			name:     "cancelled is terminal even when past due",
			invoice:  Invoice{Status: InvoiceStatusCancelled, DueDate: timePtr(past)},
			expected: InvoiceStatusCancelled,
		},
		{
			name:     "refunded is terminal even when past due",
			invoice:  Invoice{Status: InvoiceStatusRefunded, DueDate: timePtr(past)},
			expected: InvoiceStatusRefunded,
		},
		{
			name:     "draft never reads overdue",
			invoice:  Invoice{Status: InvoiceStatusDraft, DueDate: timePtr(past)},
			expected: InvoiceStatusDraft,
		},
		{
			name:     "sent with future due date stays sent",
			invoice:  Invoice{Status: InvoiceStatusSent, DueDate: timePtr(future)},
			expected: InvoiceStatusSent,
		},
		{
			name:     "sent without due date stays sent",
			invoice:  Invoice{Status: InvoiceStatusSent},
			expected: InvoiceStatusSent,
		},
		{
			name:     "stored overdue with future due date falls back to sent",
			invoice:  Invoice{Status: InvoiceStatusOverdue, DueDate: timePtr(future)},
			expected: InvoiceStatusSent,
		},
		{
			name:     "stored overdue with future due date and view falls back to viewed",
			invoice:  Invoice{Status: InvoiceStatusOverdue, DueDate: timePtr(future), ViewedAt: timePtr(past)},
			expected: InvoiceStatusViewed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.invoice.EffectiveStatus(now))
		})
	}
}

func TestInvoiceEffectiveStatusFlipsWithClock(t *testing.T) {
	due := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	inv := Invoice{Status: InvoiceStatusSent, DueDate: timePtr(due)}

	// Same stored record, no write in between: only the clock moves.
	assert.Equal(t, InvoiceStatusSent, inv.EffectiveStatus(due.Add(-time.Hour)))
	assert.Equal(t, InvoiceStatusOverdue, inv.EffectiveStatus(due.Add(time.Hour)))
	assert.Equal(t, InvoiceStatusSent, inv.Status, "stored status must not be rewritten by reads")
}

func TestNormalizeStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("invoice past due normalizes to overdue", func(t *testing.T) {
		due := now.AddDate(-1, 0, 0)
		status, err := NormalizeStatus(KindInvoice, &Invoice{Status: InvoiceStatusSent, DueDate: &due}, now)
		require.NoError(t, err)
		assert.Equal(t, "overdue", status)
	})

	t.Run("file passes through approval status", func(t *testing.T) {
		status, err := NormalizeStatus(KindFile, &File{ApprovalStatus: FileApprovalApproved}, now)
		require.NoError(t, err)
		assert.Equal(t, "approved", status)
	})

	t.Run("contract normalizes through reconciliation", func(t *testing.T) {
		c := &Contract{
			Status:          ContractStatusSent,
			ClientSignature: SignatureSigned,
			AgencySignature: SignatureSigned,
		}
		status, err := NormalizeStatus(KindContract, c, now)
		require.NoError(t, err)
		assert.Equal(t, "signed", status)
	})

	t.Run("unknown kind fails with UnsupportedKindError", func(t *testing.T) {
		_, err := NormalizeStatus(DocumentKind("timesheet"), &Invoice{}, now)
		require.Error(t, err)
		var ue *UnsupportedKindError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "timesheet", ue.Kind)
	})

	t.Run("mismatched payload is rejected", func(t *testing.T) {
		_, err := NormalizeStatus(KindInvoice, &Contract{}, now)
		require.Error(t, err)
	})
}

func TestFormPendingFor(t *testing.T) {
	formID := uuid.New()
	otherFormID := uuid.New()

	completed := func(form uuid.UUID, email string) FormSubmission {
		return FormSubmission{FormID: form, RespondentEmail: email, Completed: true}
	}

	tests := []struct {
		name        string
		form        Form
		email       string
		submissions []FormSubmission
		expected    bool
	}{
		{
			name:     "published form with no submissions is pending",
			form:     Form{BaseModel: BaseModel{ID: formID}, Status: FormStatusPublished},
			email:    "x@example.com",
			expected: true,
		},
		{
			name:        "completed submission clears pending for that respondent",
			form:        Form{BaseModel: BaseModel{ID: formID}, Status: FormStatusPublished},
			email:       "x@example.com",
			submissions: []FormSubmission{completed(formID, "x@example.com")},
			expected:    false,
		},
		{
			name:        "another respondent's submission does not clear pending",
			form:        Form{BaseModel: BaseModel{ID: formID}, Status: FormStatusPublished},
			email:       "y@example.com",
			submissions: []FormSubmission{completed(formID, "x@example.com")},
			expected:    true,
		},
		{
			name:        "submission for a different form does not count",
			form:        Form{BaseModel: BaseModel{ID: formID}, Status: FormStatusPublished},
			email:       "x@example.com",
			submissions: []FormSubmission{completed(otherFormID, "x@example.com")},
			expected:    true,
		},
		{
			name:        "incomplete submission keeps the form pending",
			form:        Form{BaseModel: BaseModel{ID: formID}, Status: FormStatusPublished},
			email:       "x@example.com",
			submissions: []FormSubmission{{FormID: formID, RespondentEmail: "x@example.com", Completed: false}},
			expected:    true,
		},
		{
			name:     "draft form is never pending",
			form:     Form{BaseModel: BaseModel{ID: formID}, Status: FormStatusDraft},
			email:    "x@example.com",
			expected: false,
		},
		{
			name:        "respondent email comparison is case insensitive",
			form:        Form{BaseModel: BaseModel{ID: formID}, Status: FormStatusPublished},
			email:       "X@Example.com",
			submissions: []FormSubmission{completed(formID, "x@example.com")},
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.form.PendingFor(tt.email, tt.submissions))
		})
	}
}

func TestInvoiceStatusIsValid(t *testing.T) {
	valid := []InvoiceStatus{
		InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPaid,
		InvoiceStatusPartiallyPaid, InvoiceStatusOverdue, InvoiceStatusCancelled, InvoiceStatusRefunded,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, InvoiceStatus("pending").IsValid())
	assert.False(t, InvoiceStatus("").IsValid())
}
