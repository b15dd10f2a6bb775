package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// ActionItemKind identifies the category an action item belongs to
type ActionItemKind string

const (
	ActionContractSignature ActionItemKind = "contract_signature"
	ActionInvoiceDue        ActionItemKind = "invoice_due"
	ActionFormPending       ActionItemKind = "form_pending"
	ActionFileReview        ActionItemKind = "file_review"
)

// ActionItem is one entry in the client's action queue
type ActionItem struct {
	Kind       ActionItemKind `json:"kind"`
	DocumentID uuid.UUID      `json:"documentId"`
	ProjectID  *uuid.UUID     `json:"projectId,omitempty"`
	Title      string         `json:"title"`
	Status     string         `json:"status"`
	DueDate    *time.Time     `json:"dueDate,omitempty"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// ActionQueueInput carries the already-fetched collections the
// aggregator derives from. The aggregator itself performs no I/O.
type ActionQueueInput struct {
	Contracts       []Contract
	Invoices        []Invoice
	Forms           []Form
	Files           []File
	Submissions     []FormSubmission
	RespondentEmail string
	SelectedProject *uuid.UUID
	Visibility      VisibilityMap
	Modules         ModuleStates
}

// ComputeActionQueue derives the ordered list of documents that need
// the client's attention. The queue is the concatenation of four
// categories in a fixed order: contracts awaiting the client's
// signature, invoices due or overdue, published forms without a
// completed submission from this respondent, and pending files the
// client did not upload. Category order and per-category ordering are
// deterministic, so identical input always yields an identically
// ordered queue. Disabled modules contribute nothing, and only
// documents surviving the project filter are considered.
func ComputeActionQueue(in ActionQueueInput, now time.Time) []ActionItem {
	queue := make([]ActionItem, 0)

	if in.Modules.Enabled(ModuleContracts) {
		contracts := FilterVisible[Contract](in.Contracts, in.SelectedProject, in.Visibility)
		var items []ActionItem
		for i := range contracts {
			c := &contracts[i]
			if !c.NeedsClientSignature() {
				continue
			}
			items = append(items, ActionItem{
				Kind:       ActionContractSignature,
				DocumentID: c.ID,
				ProjectID:  c.ProjectID,
				Title:      c.Title,
				Status:     string(Reconcile(c)),
				UpdatedAt:  c.UpdatedAt,
			})
		}
		// No intrinsic date on a contract; most recently touched first.
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		})
		queue = append(queue, items...)
	}

	if in.Modules.Enabled(ModuleInvoices) {
		invoices := FilterVisible[Invoice](in.Invoices, in.SelectedProject, in.Visibility)
		var items []ActionItem
		for i := range invoices {
			inv := &invoices[i]
			status := inv.EffectiveStatus(now)
			if status.IsTerminal() || status == InvoiceStatusDraft {
				continue
			}
			// Due today or earlier; merely sent with a future due date
			// is not yet an action.
			if inv.DueDate == nil || inv.DueDate.After(now) {
				continue
			}
			items = append(items, ActionItem{
				Kind:       ActionInvoiceDue,
				DocumentID: inv.ID,
				ProjectID:  inv.ProjectID,
				Title:      inv.Title,
				Status:     string(status),
				DueDate:    inv.DueDate,
				UpdatedAt:  inv.UpdatedAt,
			})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].DueDate.Before(*items[j].DueDate)
		})
		queue = append(queue, items...)
	}

	if in.Modules.Enabled(ModuleForms) {
		forms := FilterVisible[Form](in.Forms, in.SelectedProject, in.Visibility)
		var items []ActionItem
		for i := range forms {
			f := &forms[i]
			if !f.PendingFor(in.RespondentEmail, in.Submissions) {
				continue
			}
			items = append(items, ActionItem{
				Kind:       ActionFormPending,
				DocumentID: f.ID,
				ProjectID:  f.ProjectID,
				Title:      f.Title,
				Status:     "pending",
				DueDate:    f.Deadline,
				UpdatedAt:  f.UpdatedAt,
			})
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].DueDate == nil {
				return false
			}
			if items[j].DueDate == nil {
				return true
			}
			return items[i].DueDate.Before(*items[j].DueDate)
		})
		queue = append(queue, items...)
	}

	if in.Modules.Enabled(ModuleFiles) {
		files := FilterVisible[File](in.Files, in.SelectedProject, in.Visibility)
		var items []ActionItem
		for i := range files {
			f := &files[i]
			if f.ApprovalStatus != FileApprovalPending || f.SentByClient {
				continue
			}
			items = append(items, ActionItem{
				Kind:       ActionFileReview,
				DocumentID: f.ID,
				ProjectID:  f.ProjectID,
				Title:      f.Filename,
				Status:     string(f.ApprovalStatus),
				UpdatedAt:  f.UpdatedAt,
			})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UpdatedAt.After(items[j].UpdatedAt)
		})
		queue = append(queue, items...)
	}

	return queue
}
