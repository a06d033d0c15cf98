package app

import (
	"context"
	"sync"
	"time"

	"storepos/internal/core/apperror"
	appctx "storepos/internal/core/context"
	"storepos/internal/domain/invoices"
	"storepos/internal/domain/queries"
	"storepos/pkg/logger"
)

// PendingSales lists committed sales that have no invoice yet, ordered by
// sale id and starting after afterID.
type PendingSales interface {
	FindSalesWithoutInvoice(ctx context.Context, afterID int64, limit int) ([]queries.SaleSummary, error)
}

// InvoiceRetrier derives the invoice of one committed sale.
type InvoiceRetrier interface {
	RetryInvoice(ctx context.Context, saleID int64) (*invoices.Invoice, error)
}

// ReconcileResult summarises one reconciliation pass.
type ReconcileResult struct {
	Scanned int
	Issued  int
	Failed  int
}

// Reconciler issues invoices for sales whose derivation failed after commit.
// Passes page through the backlog with a sale id cursor and wrap to the
// oldest sale once a short page is read, so sales that keep failing cannot
// hold back newer ones.
type Reconciler struct {
	pending  PendingSales
	retrier  InvoiceRetrier
	log      *logger.Logger
	interval time.Duration
	batch    int

	mu     sync.Mutex
	cursor int64
}

// NewReconciler creates a reconciler polling every interval. batch is
// clamped to the listing limits so a full page is recognised as full.
func NewReconciler(pending PendingSales, retrier InvoiceRetrier, log *logger.Logger, interval time.Duration, batch int) *Reconciler {
	switch {
	case batch <= 0:
		batch = queries.DefaultLimit
	case batch > queries.MaxLimit:
		batch = queries.MaxLimit
	}
	return &Reconciler{
		pending:  pending,
		retrier:  retrier,
		log:      log.WithComponent("invoice-reconciler"),
		interval: interval,
		batch:    batch,
	}
}

// Run reconciles once immediately and then on every tick until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	ctx = appctx.WithOperator(ctx, &appctx.Operator{Name: "invoice-reconciler", Source: "worker"})

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce processes one batch of sales without invoice under a fresh trace.
// Passes are serialised.
func (r *Reconciler) RunOnce(ctx context.Context) ReconcileResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res ReconcileResult
	ctx = appctx.WithTrace(ctx, appctx.NewTrace("", ""))
	log := r.log.WithContext(ctx)

	pending, err := r.pending.FindSalesWithoutInvoice(ctx, r.cursor, r.batch)
	if err != nil {
		log.Errorw("failed to list sales without invoice", "error", err, "after_sale_id", r.cursor)
		return res
	}
	res.Scanned = len(pending)

	if len(pending) < r.batch {
		r.cursor = 0
	} else {
		r.cursor = pending[len(pending)-1].SaleID
	}

	for _, sale := range pending {
		if ctx.Err() != nil {
			break
		}
		inv, err := r.retrier.RetryInvoice(ctx, sale.SaleID)
		switch {
		case err == nil:
			res.Issued++
			log.Infow("invoice issued", "sale_id", sale.SaleID, "invoice_number", inv.Number)
		case apperror.HasCode(err, apperror.CodeDuplicate):
			// Issued concurrently by a till since the listing.
		default:
			res.Failed++
			log.Warnw("invoice retry failed", "sale_id", sale.SaleID, "error", err)
		}
	}

	if res.Scanned > 0 {
		log.Infow("reconciliation pass finished",
			"scanned", res.Scanned,
			"issued", res.Issued,
			"failed", res.Failed,
		)
	}
	return res
}
