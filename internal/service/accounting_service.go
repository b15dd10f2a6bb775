package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/erp"
	"github.com/jolix/portal-api/internal/repository"
	"go.uber.org/zap"
)

// AccountingSyncService pulls invoice payment state from the
// accounting mirror into the portal database. It runs without a viewer
// context: the sync covers every workspace.
type AccountingSyncService struct {
	erpClient   *erp.Client
	invoiceRepo *repository.InvoiceRepository
	logger      *zap.Logger
}

// NewAccountingSyncService creates a new AccountingSyncService instance
func NewAccountingSyncService(
	erpClient *erp.Client,
	invoiceRepo *repository.InvoiceRepository,
	logger *zap.Logger,
) *AccountingSyncService {
	return &AccountingSyncService{
		erpClient:   erpClient,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// SyncInvoicePayments updates every non-terminal invoice linked to the
// accounting mirror from its settlement row. A closed settlement marks
// the invoice paid; a partial payment below the invoice amount marks
// it partially paid. Invoices without a settlement row are left alone.
func (s *AccountingSyncService) SyncInvoicePayments(ctx context.Context) (synced int, failed int, err error) {
	if !s.erpClient.IsEnabled() {
		return 0, 0, nil
	}

	invoices, err := s.invoiceRepo.ListWithERPReference(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list invoices for accounting sync: %w", err)
	}
	if len(invoices) == 0 {
		return 0, 0, nil
	}

	refs := make([]string, 0, len(invoices))
	for i := range invoices {
		refs = append(refs, invoices[i].ERPReference)
	}

	settlements, err := s.erpClient.FetchSettlements(ctx, refs)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch settlements: %w", err)
	}

	now := time.Now()
	for i := range invoices {
		inv := &invoices[i]
		settlement, ok := settlements[inv.ERPReference]
		if !ok {
			continue
		}

		inv.AmountPaid = settlement.AmountPaid
		if settlement.Closed {
			inv.Status = domain.InvoiceStatusPaid
			if settlement.SettledAt != nil {
				inv.PaidAt = settlement.SettledAt
			} else {
				inv.PaidAt = &now
			}
		} else if settlement.AmountPaid > 0 && settlement.AmountPaid < inv.Amount {
			inv.Status = domain.InvoiceStatusPartiallyPaid
		}
		inv.ERPSyncedAt = &now

		if err := s.invoiceRepo.Update(ctx, inv); err != nil {
			s.logger.Error("failed to save synced invoice",
				zap.String("invoice_id", inv.ID.String()),
				zap.String("erp_reference", inv.ERPReference),
				zap.Error(err),
			)
			failed++
			continue
		}
		synced++
	}

	return synced, failed, nil
}
