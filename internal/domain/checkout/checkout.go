// Package checkout turns a till cart into a recorded sale and its invoice.
// The sale and the invoice commit separately; an invoice failure after the
// sale committed is reported as a soft failure carrying the sale id.
package checkout

import (
	"context"

	"storepos/internal/core/apperror"
	"storepos/internal/core/tx"
	"storepos/internal/core/types"
	"storepos/internal/domain/inventory"
	"storepos/internal/domain/invoices"
	"storepos/internal/domain/pricing"
	"storepos/internal/domain/queries"
	"storepos/internal/domain/sales"
	"storepos/pkg/logger"
)

// CustomerDirectory resolves customer names for the invoice snapshot.
type CustomerDirectory interface {
	GetCustomerName(ctx context.Context, customerID int64) (string, error)
}

// SaleRecorder records a priced sale atomically.
type SaleRecorder interface {
	RecordSale(ctx context.Context, customerID *int64, lines []sales.LineItem) (int64, error)
}

// InvoiceDeriver issues the invoice for a committed sale.
type InvoiceDeriver interface {
	DeriveInvoice(ctx context.Context, saleID int64, customerName string) (*invoices.Invoice, error)
}

// SaleLookup loads committed sales.
type SaleLookup interface {
	GetSaleByID(ctx context.Context, saleID int64) (*queries.SaleDetails, error)
}

// CartItem is what the cashier scans: a product, a quantity and an optional
// manual discount overriding the catalog one.
type CartItem struct {
	ProductID      int64        `json:"productId"`
	Quantity       int64        `json:"quantity"`
	ManualDiscount *types.Money `json:"manualDiscount,omitempty"`
}

// Request is a checkout request.
type Request struct {
	CustomerID *int64     `json:"customerId,omitempty"`
	Items      []CartItem `json:"items"`
}

// QuotedLine is a priced cart line.
type QuotedLine struct {
	sales.LineItem
	ProductName string            `json:"productName"`
	Breakdown   pricing.Breakdown `json:"breakdown"`
}

// Quote is a priced cart.
type Quote struct {
	Lines       []QuotedLine `json:"lines"`
	TotalAmount types.Money  `json:"totalAmount"`
	Profit      types.Money  `json:"profit"`
	FinalAmount types.Money  `json:"finalAmount"`
}

// Receipt is the outcome of a checkout. Invoice is nil when derivation failed.
type Receipt struct {
	SaleID  int64             `json:"saleId"`
	Invoice *invoices.Invoice `json:"invoice,omitempty"`
	Quote   *Quote            `json:"quote,omitempty"`
}

// Service coordinates pricing, the sale transaction and invoice derivation.
type Service struct {
	catalog   inventory.Catalog
	customers CustomerDirectory
	sales     SaleRecorder
	invoices  InvoiceDeriver
	lookup    SaleLookup
	txManager tx.Manager
}

// NewService creates a new checkout service.
func NewService(
	catalog inventory.Catalog,
	customers CustomerDirectory,
	sales SaleRecorder,
	invoices InvoiceDeriver,
	lookup SaleLookup,
	txManager tx.Manager,
) *Service {
	return &Service{
		catalog:   catalog,
		customers: customers,
		sales:     sales,
		invoices:  invoices,
		lookup:    lookup,
		txManager: txManager,
	}
}

// Quote prices the cart against the current catalog without writing anything.
func (s *Service) Quote(ctx context.Context, items []CartItem) (*Quote, error) {
	if len(items) == 0 {
		return nil, apperror.NewValidation("cart is empty")
	}
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, apperror.NewValidation("quantity must be positive").WithDetail("item", i)
		}
		if item.ManualDiscount != nil && item.ManualDiscount.IsNegative() {
			return nil, apperror.NewValidation("manual discount must not be negative").WithDetail("item", i)
		}
	}

	quote := &Quote{
		Lines:       make([]QuotedLine, 0, len(items)),
		TotalAmount: types.Zero(),
		Profit:      types.Zero(),
		FinalAmount: types.Zero(),
	}
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		for _, item := range items {
			product, err := s.catalog.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			line := PriceLine(product, item)
			quote.Lines = append(quote.Lines, line)
			quote.TotalAmount = quote.TotalAmount.Add(line.Breakdown.LineTotal)
			quote.Profit = quote.Profit.Add(line.Breakdown.LineProfit)
			quote.FinalAmount = quote.FinalAmount.Add(line.Breakdown.LineFinal)
		}
		return nil
	})
	if err != nil {
		return nil, apperror.OrPersistence("price cart", err)
	}
	return quote, nil
}

// PriceLine snapshots the product's current prices into a sale line.
func PriceLine(p *inventory.Product, item CartItem) QuotedLine {
	manual := p.ManualDiscount
	if item.ManualDiscount != nil {
		manual = *item.ManualDiscount
	}

	b := pricing.Compute(pricing.Input{
		SellingPrice:       p.SellingPrice,
		PurchasingPrice:    p.PurchasingPrice,
		DiscountPercentage: p.DiscountPercentage,
		ManualDiscount:     manual,
		Quantity:           item.Quantity,
	})

	return QuotedLine{
		LineItem: sales.LineItem{
			ProductID:       p.ID,
			Quantity:        item.Quantity,
			SellingPrice:    p.SellingPrice,
			PurchasingPrice: p.PurchasingPrice,
			DiscountApplied: b.UnitDiscount,
			ManualDiscount:  manual,
			FinalPrice:      b.UnitFinal,
		},
		ProductName: p.Name,
		Breakdown:   b,
	}
}

// Checkout prices the cart, records the sale and derives its invoice.
func (s *Service) Checkout(ctx context.Context, req Request) (*Receipt, error) {
	quote, err := s.Quote(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	lines := make([]sales.LineItem, len(quote.Lines))
	for i, l := range quote.Lines {
		lines[i] = l.LineItem
	}

	receipt, err := s.Complete(ctx, req.CustomerID, lines)
	if receipt != nil {
		receipt.Quote = quote
	}
	return receipt, err
}

// Complete records already-priced lines and derives the invoice.
// When only the invoice fails, the receipt is returned together with an
// INVOICE_DERIVATION_FAILED error.
func (s *Service) Complete(ctx context.Context, customerID *int64, lines []sales.LineItem) (*Receipt, error) {
	saleID, err := s.sales.RecordSale(ctx, customerID, lines)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{SaleID: saleID}
	name, err := s.customerName(ctx, customerID)
	if err != nil {
		return receipt, s.softFailure(ctx, saleID, err)
	}

	inv, err := s.invoices.DeriveInvoice(ctx, saleID, name)
	if err != nil {
		return receipt, s.softFailure(ctx, saleID, err)
	}
	receipt.Invoice = inv
	return receipt, nil
}

// RetryInvoice derives the invoice for a committed sale that has none.
func (s *Service) RetryInvoice(ctx context.Context, saleID int64) (*invoices.Invoice, error) {
	details, err := s.lookup.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	name := invoices.DefaultCustomerName
	if details.Sale.CustomerName != nil {
		name = *details.Sale.CustomerName
	}
	return s.invoices.DeriveInvoice(ctx, saleID, name)
}

// customerName snapshots the buyer for the invoice. Unknown customer ids
// never get here: the sale insert rejects them with NotFound.
func (s *Service) customerName(ctx context.Context, customerID *int64) (string, error) {
	if customerID == nil {
		return invoices.DefaultCustomerName, nil
	}
	return s.customers.GetCustomerName(ctx, *customerID)
}

func (s *Service) softFailure(ctx context.Context, saleID int64, cause error) error {
	logger.Error(ctx, "invoice derivation failed", "sale_id", saleID, "error", cause)
	return apperror.NewInvoiceDerivation(saleID, cause)
}
