package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jolix/portal-api/internal/domain"
	"go.uber.org/zap"
)

// OverdueSweepJobName is the name of the invoice overdue sweep job
const OverdueSweepJobName = "invoice_overdue_sweep"

// OverdueInvoiceStore defines the invoice access the sweep needs.
// This interface allows the job to call the repository without
// importing the repository package directly.
type OverdueInvoiceStore interface {
	// ListPastDue returns non-terminal, non-draft invoices whose due
	// date has passed, across all workspaces.
	ListPastDue(ctx context.Context, now time.Time) ([]domain.Invoice, error)

	// MarkOverdue rewrites the stored status of the given invoices to
	// overdue and returns how many rows changed.
	MarkOverdue(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// OverdueSweepJob rewrites stored invoice statuses to overdue once the
// due date has passed. Reads derive overdue on their own at every
// request; the sweep only brings the stored column in line for
// reporting queries that hit the database directly.
type OverdueSweepJob struct {
	store   OverdueInvoiceStore
	logger  *zap.Logger
	timeout time.Duration
}

// NewOverdueSweepJob creates a new overdue sweep job.
// The timeout controls how long the sweep is allowed to run.
func NewOverdueSweepJob(store OverdueInvoiceStore, logger *zap.Logger, timeout time.Duration) *OverdueSweepJob {
	return &OverdueSweepJob{
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the overdue sweep.
// This is called by the scheduler according to the cron expression.
func (j *OverdueSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	invoices, err := j.store.ListPastDue(ctx, start)
	if err != nil {
		j.logger.Error("overdue sweep failed to list invoices",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	if len(invoices) == 0 {
		return
	}

	ids := make([]uuid.UUID, 0, len(invoices))
	for i := range invoices {
		ids = append(ids, invoices[i].ID)
	}

	updated, err := j.store.MarkOverdue(ctx, ids)
	if err != nil {
		j.logger.Error("overdue sweep failed to mark invoices",
			zap.Error(err),
			zap.Int("candidates", len(ids)),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("overdue sweep completed",
		zap.Int("candidates", len(ids)),
		zap.Int64("updated", updated),
		zap.Duration("duration", time.Since(start)))
}

// RegisterOverdueSweepJob registers the overdue sweep with the scheduler
func RegisterOverdueSweepJob(scheduler *Scheduler, store OverdueInvoiceStore, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewOverdueSweepJob(store, logger, timeout)
	return scheduler.AddJob(OverdueSweepJobName, cronExpr, job.Run)
}
