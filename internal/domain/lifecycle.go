package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocumentKind identifies the portal document families the deriver
// understands.
type DocumentKind string

const (
	KindInvoice  DocumentKind = "invoice"
	KindContract DocumentKind = "contract"
	KindForm     DocumentKind = "form"
	KindFile     DocumentKind = "file"
)

// IsValid checks if the DocumentKind is a valid enum value
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindInvoice, KindContract, KindForm, KindFile:
		return true
	}
	return false
}

// UnsupportedKindError is returned when a document kind outside the
// known vocabulary reaches the deriver. Unknown kinds fail fast rather
// than being skipped, so a newly introduced kind cannot silently
// disappear from the portal.
type UnsupportedKindError struct {
	Kind string
}

// Error implements the error interface
func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported document kind %q", e.Kind)
}

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusViewed        InvoiceStatus = "viewed"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
	InvoiceStatusRefunded      InvoiceStatus = "refunded"
)

// IsValid checks if the InvoiceStatus is a valid enum value
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusViewed,
		InvoiceStatusPaid, InvoiceStatusPartiallyPaid, InvoiceStatusOverdue,
		InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the invoice lifecycle.
// Terminal invoices never become overdue.
func (s InvoiceStatus) IsTerminal() bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusRefunded:
		return true
	}
	return false
}

// IsPayable reports whether the client still owes on an invoice in
// this status.
func (s InvoiceStatus) IsPayable() bool {
	switch s {
	case InvoiceStatusSent, InvoiceStatusViewed, InvoiceStatusPartiallyPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// EffectiveStatus derives the status an invoice reads as at the given
// instant. A non-terminal, non-draft invoice whose due date has passed
// reads as overdue. The stored status is left untouched; every read
// recomputes, so an invoice paid after its due date immediately stops
// reading as overdue.
func (i *Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if i.Status.IsTerminal() || i.Status == InvoiceStatusDraft {
		return i.Status
	}
	if i.DueDate != nil && i.DueDate.Before(now) {
		return InvoiceStatusOverdue
	}
	if i.Status == InvoiceStatusOverdue {
		// Stored overdue but the due date moved into the future, or was
		// cleared. Fall back to the last pre-overdue read state.
		if i.ViewedAt != nil {
			return InvoiceStatusViewed
		}
		return InvoiceStatusSent
	}
	return i.Status
}

// NormalizeStatus maps any known document onto its canonical status
// string at the given instant. Unknown kinds return an
// UnsupportedKindError.
func NormalizeStatus(kind DocumentKind, doc interface{}, now time.Time) (string, error) {
	switch kind {
	case KindInvoice:
		inv, ok := doc.(*Invoice)
		if !ok {
			return "", fmt.Errorf("expected *Invoice for kind %s, got %T", kind, doc)
		}
		return string(inv.EffectiveStatus(now)), nil
	case KindContract:
		c, ok := doc.(*Contract)
		if !ok {
			return "", fmt.Errorf("expected *Contract for kind %s, got %T", kind, doc)
		}
		return string(Reconcile(c)), nil
	case KindForm:
		f, ok := doc.(*Form)
		if !ok {
			return "", fmt.Errorf("expected *Form for kind %s, got %T", kind, doc)
		}
		return string(f.Status), nil
	case KindFile:
		f, ok := doc.(*File)
		if !ok {
			return "", fmt.Errorf("expected *File for kind %s, got %T", kind, doc)
		}
		return string(f.ApprovalStatus), nil
	default:
		return "", &UnsupportedKindError{Kind: string(kind)}
	}
}

// PendingFor reports whether a form still needs a submission from the
// given respondent: it must be published and have no completed
// submission recorded for that email. Draft forms are never pending
// (they are not shown to clients at all).
func (f *Form) PendingFor(respondentEmail string, submissions []FormSubmission) bool {
	if f.Status != FormStatusPublished {
		return false
	}
	for _, s := range submissions {
		if s.FormID == f.ID && s.Completed && strings.EqualFold(s.RespondentEmail, respondentEmail) {
			return false
		}
	}
	return true
}
