// Package document_repo stores sales and the invoices derived from them.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"storepos/internal/core/apperror"
	"storepos/internal/domain/queries"
	"storepos/internal/domain/sales"
	"storepos/internal/infrastructure/storage"
)

const (
	salesTable       = "sales"
	saleDetailsTable = "sale_details"
)

var (
	_ sales.Repository   = (*SaleRepo)(nil)
	_ queries.SaleReader = (*SaleRepo)(nil)
)

// saleSummaryColumns selects a sale with its customer name and first invoice number.
var saleSummaryColumns = []string{
	"s.sale_id",
	"s.customer_id",
	"c.name AS customer_name",
	"s.date",
	"s.total_amount",
	"s.profit",
	"s.final_amount",
	"(SELECT i.invoice_number FROM invoices i WHERE i.sale_id = s.sale_id ORDER BY i.invoice_id LIMIT 1) AS invoice_number",
}

var lineViewColumns = []string{
	"d.sale_detail_id",
	"d.sale_id",
	"d.product_id",
	"d.quantity",
	"d.selling_price",
	"d.purchasing_price",
	"d.discount_applied",
	"d.manual_discount",
	"d.final_price",
	"p.name AS product_name",
}

// SaleRepo implements sales.Repository and queries.SaleReader.
type SaleRepo struct {
	db storage.Executor
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(db storage.Executor) *SaleRepo {
	return &SaleRepo{db: db}
}

// CreateHeader inserts the sale header and sets sale.ID.
func (r *SaleRepo) CreateHeader(ctx context.Context, sale *sales.Sale) error {
	q := r.db.Builder().
		Insert(salesTable).
		Columns("customer_id", "date", "total_amount", "profit", "final_amount").
		Values(sale.CustomerID, sale.Date, sale.TotalAmount, sale.Profit, sale.FinalAmount).
		Suffix("RETURNING sale_id")

	if err := storage.GetQ(ctx, r.db, &sale.ID, q); err != nil {
		if storage.IsForeignKeyViolation(err) && sale.CustomerID != nil {
			return apperror.NewNotFound("customer", *sale.CustomerID).WithCause(err)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserts one sale line and sets line.ID.
func (r *SaleRepo) CreateLine(ctx context.Context, line *sales.LineItem) error {
	q := r.db.Builder().
		Insert(saleDetailsTable).
		Columns(
			"sale_id", "product_id", "quantity", "selling_price", "purchasing_price",
			"discount_applied", "manual_discount", "final_price",
		).
		Values(
			line.SaleID, line.ProductID, line.Quantity, line.SellingPrice, line.PurchasingPrice,
			line.DiscountApplied, line.ManualDiscount, line.FinalPrice,
		).
		Suffix("RETURNING sale_detail_id")

	if err := storage.GetQ(ctx, r.db, &line.ID, q); err != nil {
		if storage.IsForeignKeyViolation(err) {
			return apperror.NewNotFound("product", line.ProductID).WithCause(err)
		}
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

func (r *SaleRepo) summaries() squirrel.SelectBuilder {
	return r.db.Builder().
		Select(saleSummaryColumns...).
		From("sales s").
		LeftJoin("customers c ON c.customer_id = s.customer_id")
}

// GetSale returns one sale header.
func (r *SaleRepo) GetSale(ctx context.Context, saleID int64) (*queries.SaleSummary, error) {
	q := r.summaries().Where(squirrel.Eq{"s.sale_id": saleID})

	var out queries.SaleSummary
	if err := storage.GetQ(ctx, r.db, &out, q); err != nil {
		if storage.IsNoRows(err) {
			return nil, apperror.NewNotFound("sale", saleID)
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &out, nil
}

// GetSaleLines returns the lines of a sale in insertion order.
func (r *SaleRepo) GetSaleLines(ctx context.Context, saleID int64) ([]queries.LineView, error) {
	q := r.db.Builder().
		Select(lineViewColumns...).
		From("sale_details d").
		Join("products p ON p.product_id = d.product_id").
		Where(squirrel.Eq{"d.sale_id": saleID}).
		OrderBy("d.sale_detail_id")

	var out []queries.LineView
	if err := storage.SelectQ(ctx, r.db, &out, q); err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	return out, nil
}

// ListSales returns sales newest first. Both date bounds are inclusive.
func (r *SaleRepo) ListSales(ctx context.Context, filter queries.SaleFilter) ([]queries.SaleSummary, error) {
	q := r.summaries()
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"s.date": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"s.date": *filter.To})
	}
	q = q.OrderBy("s.date DESC", "s.sale_id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	var out []queries.SaleSummary
	if err := storage.SelectQ(ctx, r.db, &out, q); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return out, nil
}

// FindSalesWithoutInvoice returns sales after afterID that have no invoice, oldest first.
func (r *SaleRepo) FindSalesWithoutInvoice(ctx context.Context, afterID int64, limit int) ([]queries.SaleSummary, error) {
	q := r.summaries().
		Where("NOT EXISTS (SELECT 1 FROM invoices i2 WHERE i2.sale_id = s.sale_id)").
		Where(squirrel.Gt{"s.sale_id": afterID}).
		OrderBy("s.sale_id").
		Limit(uint64(limit))

	var out []queries.SaleSummary
	if err := storage.SelectQ(ctx, r.db, &out, q); err != nil {
		return nil, fmt.Errorf("find sales without invoice: %w", err)
	}
	return out, nil
}
