package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	query := r.db.WithContext(ctx).Where("id = ?", id)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	query := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	query = ApplyWorkspaceFilter(ctx, query)
	err := query.Order("due_date ASC NULLS LAST, created_at DESC").Find(&invoices).Error
	return invoices, err
}

// MarkViewed promotes a sent invoice to viewed. Terminal statuses are
// left alone; the write records the first view only.
func (r *InvoiceRepository) MarkViewed(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ? AND viewed_at IS NULL", id)
	query = ApplyWorkspaceFilter(ctx, query)
	updates := map[string]interface{}{"viewed_at": at}
	return query.Updates(updates).Error
}

// PromoteSentToViewed flips the stored status from sent to viewed
func (r *InvoiceRepository) PromoteSentToViewed(ctx context.Context, id uuid.UUID) error {
	query := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ? AND status = ?", id, domain.InvoiceStatusSent)
	query = ApplyWorkspaceFilter(ctx, query)
	return query.Update("status", domain.InvoiceStatusViewed).Error
}

// ListPastDue returns non-terminal, non-draft invoices whose due date
// has passed, across all workspaces. Used by the overdue sweep job.
func (r *InvoiceRepository) ListPastDue(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL AND due_date < ?", now).
		Where("status NOT IN ?", []domain.InvoiceStatus{
			domain.InvoiceStatusPaid,
			domain.InvoiceStatusCancelled,
			domain.InvoiceStatusRefunded,
			domain.InvoiceStatusDraft,
			domain.InvoiceStatusOverdue,
		}).
		Find(&invoices).Error
	return invoices, err
}

// MarkOverdue rewrites the stored status of the given invoices to
// overdue. Reporting parity only; reads derive overdue on their own.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id IN ?", ids).
		Update("status", domain.InvoiceStatusOverdue)
	return result.RowsAffected, result.Error
}

// GetByERPReference looks an invoice up by its accounting reference,
// across all workspaces. Used by the accounting sync job.
func (r *InvoiceRepository) GetByERPReference(ctx context.Context, ref string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).Where("erp_reference = ?", ref).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListWithERPReference returns invoices linked to the accounting
// mirror that are not yet terminal.
func (r *InvoiceRepository) ListWithERPReference(ctx context.Context) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("erp_reference <> ''").
		Where("status NOT IN ?", []domain.InvoiceStatus{
			domain.InvoiceStatusPaid,
			domain.InvoiceStatusCancelled,
			domain.InvoiceStatusRefunded,
		}).
		Find(&invoices).Error
	return invoices, err
}
