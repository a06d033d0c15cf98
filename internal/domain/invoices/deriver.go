package invoices

import (
	"context"
	"strings"
	"time"

	"storepos/internal/core/apperror"
	"storepos/internal/core/tx"
	"storepos/internal/domain/audit"
	"storepos/pkg/logger"
)

// Deriver issues invoices for committed sales in a transaction of its own.
// A failure here never affects the sale.
type Deriver struct {
	repo      Repository
	audit     audit.Recorder
	txManager tx.Manager
	now       func() time.Time
}

// NewDeriver creates a new invoice deriver.
func NewDeriver(repo Repository, recorder audit.Recorder, txManager tx.Manager) *Deriver {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Deriver{
		repo:      repo,
		audit:     recorder,
		txManager: txManager,
		now:       time.Now,
	}
}

// WithClock overrides the issue-date source.
func (d *Deriver) WithClock(now func() time.Time) *Deriver {
	d.now = now
	return d
}

// DeriveInvoice issues the invoice for saleID with a snapshot of customerName.
// Returns NotFound when the sale does not exist and Duplicate when the sale
// already has an invoice.
func (d *Deriver) DeriveInvoice(ctx context.Context, saleID int64, customerName string) (*Invoice, error) {
	if saleID <= 0 {
		return nil, apperror.NewValidation("sale id must be positive").WithDetail("saleId", saleID)
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = DefaultCustomerName
	}

	// One UTC instant feeds both the number and the stored issue date, so
	// the number can always be re-derived from issue_date and sale_id.
	issued := d.now().UTC().Truncate(time.Microsecond)
	inv := &Invoice{
		SaleID:       saleID,
		Number:       FormatNumber(issued, saleID),
		CustomerName: customerName,
		IssueDate:    issued,
		Status:       StatusActive,
	}

	err := d.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := d.repo.GetSaleRef(ctx, saleID)
		if err != nil {
			return apperror.OrPersistence("load sale", err)
		}

		existing, err := d.repo.FindBySaleID(ctx, saleID)
		switch {
		case err == nil:
			return apperror.NewDuplicate("invoice", "sale_id", existing.Number).
				WithDetail("invoiceId", existing.ID)
		case !apperror.IsNotFound(err):
			return apperror.OrPersistence("find invoice", err)
		}

		inv.TotalAmount = sale.FinalAmount
		if err := d.repo.Create(ctx, inv); err != nil {
			return apperror.OrPersistence("insert invoice", err)
		}

		return apperror.OrPersistence("write audit", d.audit.Record(ctx, audit.EntityInvoice, inv.ID, audit.ActionInvoiceIssued, map[string]any{
			"sale_id":        saleID,
			"invoice_number": inv.Number,
			"customer_name":  inv.CustomerName,
			"total_amount":   inv.TotalAmount.String(),
		}))
	})
	if err != nil {
		return nil, apperror.OrPersistence("commit invoice", err)
	}

	logger.Info(ctx, "invoice issued", "sale_id", saleID, "invoice_number", inv.Number)
	return inv, nil
}

// UpdateStatus changes an invoice's status (e.g. active -> cancelled).
func (d *Deriver) UpdateStatus(ctx context.Context, invoiceID int64, status string) (*Invoice, error) {
	status, err := NormalizeStatus(status)
	if err != nil {
		return nil, err
	}

	var updated *Invoice
	err = d.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := d.repo.GetByID(ctx, invoiceID)
		if err != nil {
			return apperror.OrPersistence("load invoice", err)
		}
		if current.Status == status {
			updated = current
			return nil
		}

		if err := d.repo.UpdateStatus(ctx, invoiceID, status); err != nil {
			return apperror.OrPersistence("update invoice status", err)
		}
		if err := d.audit.Record(ctx, audit.EntityInvoice, invoiceID, audit.ActionInvoiceStatusChange, map[string]any{
			"from": current.Status,
			"to":   status,
		}); err != nil {
			return apperror.OrPersistence("write audit", err)
		}

		current.Status = status
		updated = current
		return nil
	})
	if err != nil {
		return nil, apperror.OrPersistence("commit invoice status", err)
	}

	logger.Info(ctx, "invoice status changed", "invoice_id", invoiceID, "status", status)
	return updated, nil
}
