// Package queries provides read-only sale and invoice lookups for display
// and printing. Nothing here mutates stock, sales or invoices.
package queries

import (
	"context"
	"time"

	"storepos/internal/core/types"
	"storepos/internal/domain/invoices"
	"storepos/internal/domain/sales"
)

// SaleSummary is a sale header joined with its customer name and, when one
// has been issued, its invoice number.
type SaleSummary struct {
	SaleID        int64       `db:"sale_id" json:"saleId"`
	CustomerID    *int64      `db:"customer_id" json:"customerId,omitempty"`
	CustomerName  *string     `db:"customer_name" json:"customerName,omitempty"`
	Date          time.Time   `db:"date" json:"date"`
	TotalAmount   types.Money `db:"total_amount" json:"totalAmount"`
	Profit        types.Money `db:"profit" json:"profit"`
	FinalAmount   types.Money `db:"final_amount" json:"finalAmount"`
	InvoiceNumber *string     `db:"invoice_number" json:"invoiceNumber,omitempty"`
}

// HasInvoice reports whether an invoice was issued for the sale.
func (s SaleSummary) HasInvoice() bool { return s.InvoiceNumber != nil }

// LineView is a sale line with the product name resolved.
type LineView struct {
	sales.LineItem
	ProductName string `db:"product_name" json:"productName"`
}

// InvoiceView is an invoice joined with figures from its sale.
type InvoiceView struct {
	invoices.Invoice
	SaleDate        time.Time   `db:"sale_date" json:"saleDate"`
	SaleProfit      types.Money `db:"sale_profit" json:"saleProfit"`
	SaleFinalAmount types.Money `db:"sale_final_amount" json:"saleFinalAmount"`
}

// SaleDetails is one sale with all its lines.
type SaleDetails struct {
	Sale  SaleSummary `json:"sale"`
	Lines []LineView  `json:"lines"`
}

// InvoiceDetails is one invoice with the lines of its sale.
type InvoiceDetails struct {
	Invoice InvoiceView `json:"invoice"`
	Lines   []LineView  `json:"lines"`
}

// SaleFilter narrows ListSales. Zero values mean "no bound".
type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// InvoiceFilter narrows ListInvoices.
type InvoiceFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// SaleReader reads sales.
type SaleReader interface {
	GetSale(ctx context.Context, saleID int64) (*SaleSummary, error)
	GetSaleLines(ctx context.Context, saleID int64) ([]LineView, error)
	ListSales(ctx context.Context, filter SaleFilter) ([]SaleSummary, error)
	FindSalesWithoutInvoice(ctx context.Context, afterID int64, limit int) ([]SaleSummary, error)
}

// InvoiceReader reads invoices.
type InvoiceReader interface {
	GetInvoiceByNumber(ctx context.Context, number string) (*InvoiceView, error)
	GetInvoiceByID(ctx context.Context, invoiceID int64) (*InvoiceView, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceView, error)
}
