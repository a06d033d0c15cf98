package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"storepos/internal/core/apperror"
	"storepos/internal/domain/invoices"
	"storepos/internal/domain/queries"
	"storepos/internal/infrastructure/storage"
)

const invoicesTable = "invoices"

var invoiceColumns = []string{
	"invoice_id", "sale_id", "invoice_number", "customer_name", "issue_date", "total_amount", "status",
}

var invoiceViewColumns = []string{
	"i.invoice_id",
	"i.sale_id",
	"i.invoice_number",
	"i.customer_name",
	"i.issue_date",
	"i.total_amount",
	"i.status",
	"s.date AS sale_date",
	"s.profit AS sale_profit",
	"s.final_amount AS sale_final_amount",
}

var (
	_ invoices.Repository   = (*InvoiceRepo)(nil)
	_ queries.InvoiceReader = (*InvoiceRepo)(nil)
)

// InvoiceRepo implements invoices.Repository and queries.InvoiceReader.
type InvoiceRepo struct {
	db storage.Executor
}

// NewInvoiceRepo creates a new invoice repository.
func NewInvoiceRepo(db storage.Executor) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

// GetSaleRef loads the sale an invoice is derived from.
func (r *InvoiceRepo) GetSaleRef(ctx context.Context, saleID int64) (*invoices.SaleRef, error) {
	q := r.db.Builder().
		Select("sale_id", "final_amount").
		From(salesTable).
		Where(squirrel.Eq{"sale_id": saleID})

	var ref invoices.SaleRef
	if err := storage.GetQ(ctx, r.db, &ref, q); err != nil {
		if storage.IsNoRows(err) {
			return nil, apperror.NewNotFound("sale", saleID)
		}
		return nil, fmt.Errorf("get sale ref: %w", err)
	}
	return &ref, nil
}

// FindBySaleID returns the earliest invoice issued for a sale.
func (r *InvoiceRepo) FindBySaleID(ctx context.Context, saleID int64) (*invoices.Invoice, error) {
	q := r.db.Builder().
		Select(invoiceColumns...).
		From(invoicesTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("invoice_id").
		Limit(1)

	var inv invoices.Invoice
	if err := storage.GetQ(ctx, r.db, &inv, q); err != nil {
		if storage.IsNoRows(err) {
			return nil, apperror.NewNotFound("invoice", saleID).WithDetail("sale_id", saleID)
		}
		return nil, fmt.Errorf("find invoice by sale: %w", err)
	}
	return &inv, nil
}

// Create inserts an invoice and sets inv.ID.
func (r *InvoiceRepo) Create(ctx context.Context, inv *invoices.Invoice) error {
	q := r.db.Builder().
		Insert(invoicesTable).
		Columns(invoiceColumns[1:]...).
		Values(inv.SaleID, inv.Number, inv.CustomerName, inv.IssueDate, inv.TotalAmount, inv.Status).
		Suffix("RETURNING invoice_id")

	if err := storage.GetQ(ctx, r.db, &inv.ID, q); err != nil {
		switch {
		case storage.IsUniqueViolation(err):
			return apperror.NewDuplicate("invoice", "number", inv.Number).WithCause(err)
		case storage.IsForeignKeyViolation(err):
			return apperror.NewNotFound("sale", inv.SaleID).WithCause(err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID returns a bare invoice row.
func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID int64) (*invoices.Invoice, error) {
	q := r.db.Builder().
		Select(invoiceColumns...).
		From(invoicesTable).
		Where(squirrel.Eq{"invoice_id": invoiceID})

	var inv invoices.Invoice
	if err := storage.GetQ(ctx, r.db, &inv, q); err != nil {
		if storage.IsNoRows(err) {
			return nil, apperror.NewNotFound("invoice", invoiceID)
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// UpdateStatus sets the invoice status.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, invoiceID int64, status string) error {
	q := r.db.Builder().
		Update(invoicesTable).
		Set("status", status).
		Where(squirrel.Eq{"invoice_id": invoiceID})

	n, err := storage.ExecQ(ctx, r.db, q)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound("invoice", invoiceID)
	}
	return nil
}

func (r *InvoiceRepo) views() squirrel.SelectBuilder {
	return r.db.Builder().
		Select(invoiceViewColumns...).
		From("invoices i").
		Join("sales s ON s.sale_id = i.sale_id")
}

// GetInvoiceByNumber looks an invoice up by exact number.
func (r *InvoiceRepo) GetInvoiceByNumber(ctx context.Context, number string) (*queries.InvoiceView, error) {
	return r.getView(ctx, squirrel.Eq{"i.invoice_number": number}, number)
}

// GetInvoiceByID returns an invoice joined with its sale.
func (r *InvoiceRepo) GetInvoiceByID(ctx context.Context, invoiceID int64) (*queries.InvoiceView, error) {
	return r.getView(ctx, squirrel.Eq{"i.invoice_id": invoiceID}, invoiceID)
}

func (r *InvoiceRepo) getView(ctx context.Context, where squirrel.Eq, key any) (*queries.InvoiceView, error) {
	var out queries.InvoiceView
	if err := storage.GetQ(ctx, r.db, &out, r.views().Where(where)); err != nil {
		if storage.IsNoRows(err) {
			return nil, apperror.NewNotFound("invoice", key)
		}
		return nil, fmt.Errorf("get invoice view: %w", err)
	}
	return &out, nil
}

// ListInvoices returns invoices newest first.
func (r *InvoiceRepo) ListInvoices(ctx context.Context, filter queries.InvoiceFilter) ([]queries.InvoiceView, error) {
	q := r.views()
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"i.status": filter.Status})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"i.issue_date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"i.issue_date": *filter.To})
	}
	q = q.OrderBy("i.issue_date DESC", "i.invoice_id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	var out []queries.InvoiceView
	if err := storage.SelectQ(ctx, r.db, &out, q); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return out, nil
}
