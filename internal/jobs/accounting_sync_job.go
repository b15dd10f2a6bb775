package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AccountingSyncJobName is the name of the accounting payment sync job
const AccountingSyncJobName = "accounting_sync"

// InvoicePaymentSyncer defines the interface for pulling invoice
// payment state from the accounting mirror. This interface allows the
// job to call the service without importing the service package
// directly.
type InvoicePaymentSyncer interface {
	// SyncInvoicePayments updates invoices linked to the accounting
	// mirror from their settlement rows. Returns counts for
	// successfully synced and failed invoices.
	SyncInvoicePayments(ctx context.Context) (synced int, failed int, err error)
}

// AccountingSyncJob runs the accounting payment sync for all invoices
// carrying an accounting reference.
type AccountingSyncJob struct {
	syncer  InvoicePaymentSyncer
	logger  *zap.Logger
	timeout time.Duration
}

// NewAccountingSyncJob creates a new accounting sync job.
// The timeout controls how long the sync operation is allowed to run.
func NewAccountingSyncJob(syncer InvoicePaymentSyncer, logger *zap.Logger, timeout time.Duration) *AccountingSyncJob {
	return &AccountingSyncJob{
		syncer:  syncer,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the accounting sync job.
// This is called by the scheduler according to the cron expression.
func (j *AccountingSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	synced, failed, err := j.syncer.SyncInvoicePayments(ctx)
	if err != nil {
		j.logger.Error("accounting sync failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if synced > 0 || failed > 0 {
		j.logger.Info("accounting sync completed",
			zap.Int("synced", synced),
			zap.Int("failed", failed),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterAccountingSyncJob registers the accounting sync with the scheduler
func RegisterAccountingSyncJob(scheduler *Scheduler, syncer InvoicePaymentSyncer, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewAccountingSyncJob(syncer, logger, timeout)
	return scheduler.AddJob(AccountingSyncJobName, cronExpr, job.Run)
}
