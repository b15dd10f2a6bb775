package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/auth"
	"github.com/jolix/portal-api/internal/domain"
	"github.com/jolix/portal-api/internal/mapper"
	"github.com/jolix/portal-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvoiceService serves the invoice views of a client portal
type InvoiceService struct {
	invoiceRepo     *repository.InvoiceRepository
	settingsRepo    *repository.PortalSettingsRepository
	activityService *ActivityService
	logger          *zap.Logger
}

// NewInvoiceService creates a new InvoiceService instance
func NewInvoiceService(
	invoiceRepo *repository.InvoiceRepository,
	settingsRepo *repository.PortalSettingsRepository,
	activityService *ActivityService,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:     invoiceRepo,
		settingsRepo:    settingsRepo,
		activityService: activityService,
		logger:          logger,
	}
}

// List returns the client's invoices surviving the project filter,
// each carrying its effective status for the current instant. Drafts
// never reach clients.
func (s *InvoiceService) List(ctx context.Context, selectedProject *uuid.UUID) ([]domain.InvoiceDTO, error) {
	viewer := auth.MustFromContext(ctx)

	settings, err := loadPortalSettings(ctx, s.settingsRepo, viewer.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !settings.Modules.Enabled(domain.ModuleInvoices) {
		return nil, ErrModuleDisabled
	}

	invoices, err := s.invoiceRepo.ListByClient(ctx, viewer.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	invoices = domain.FilterVisible[domain.Invoice](invoices, selectedProject, settings.ProjectVisibility)

	now := time.Now()
	dtos := make([]domain.InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		if viewer.IsClient() && invoices[i].Status == domain.InvoiceStatusDraft {
			continue
		}
		dtos = append(dtos, mapper.ToInvoiceDTO(&invoices[i], now))
	}
	return dtos, nil
}

// Get returns one invoice. A client opening an invoice stamps the
// first-view timestamp and promotes a sent invoice to viewed; the
// effective status in the response is still derived, so an overdue
// invoice reads as overdue no matter what was just written.
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	viewer := auth.MustFromContext(ctx)

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if viewer.IsClient() && invoice.Status == domain.InvoiceStatusDraft {
		return nil, ErrNotFound
	}

	if viewer.IsClient() {
		now := time.Now()
		if invoice.ViewedAt == nil {
			if err := s.invoiceRepo.MarkViewed(ctx, invoice.ID, now); err != nil {
				s.logger.Warn("failed to mark invoice viewed",
					zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
			} else {
				invoice.ViewedAt = &now
				s.activityService.Record(ctx, domain.ActivityTargetInvoice, invoice.ID,
					&invoice.ClientID, "Invoice viewed", invoice.Number)
			}
		}
		if invoice.Status == domain.InvoiceStatusSent {
			if err := s.invoiceRepo.PromoteSentToViewed(ctx, invoice.ID); err != nil {
				s.logger.Warn("failed to promote invoice to viewed",
					zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
			} else {
				invoice.Status = domain.InvoiceStatusViewed
			}
		}
	}

	dto := mapper.ToInvoiceDTO(invoice, time.Now())
	return &dto, nil
}
