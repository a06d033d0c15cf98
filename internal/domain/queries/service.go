package queries

import (
	"context"

	"storepos/internal/core/apperror"
	"storepos/internal/core/tx"
	"storepos/internal/domain/invoices"
)

// Service answers sale and invoice lookups.
type Service struct {
	sales     SaleReader
	invoices  InvoiceReader
	txManager tx.Manager
}

// NewService creates a new query service.
func NewService(sales SaleReader, invoices InvoiceReader, txManager tx.Manager) *Service {
	return &Service{sales: sales, invoices: invoices, txManager: txManager}
}

// GetSaleByID returns the sale header with its lines.
func (s *Service) GetSaleByID(ctx context.Context, saleID int64) (*SaleDetails, error) {
	var details *SaleDetails
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		sale, err := s.sales.GetSale(ctx, saleID)
		if err != nil {
			return err
		}
		lines, err := s.sales.GetSaleLines(ctx, saleID)
		if err != nil {
			return err
		}
		details = &SaleDetails{Sale: *sale, Lines: nonNil(lines)}
		return nil
	})
	if err != nil {
		return nil, apperror.OrPersistence("get sale", err)
	}
	return details, nil
}

// GetInvoiceByNumber looks an invoice up by its exact number. Numbers that
// could not have been issued are reported as not found without a query.
func (s *Service) GetInvoiceByNumber(ctx context.Context, number string) (*InvoiceDetails, error) {
	if _, _, ok := invoices.ParseNumber(number); !ok {
		return nil, apperror.NewNotFound("invoice", number)
	}
	return s.invoiceDetails(ctx, func(ctx context.Context) (*InvoiceView, error) {
		return s.invoices.GetInvoiceByNumber(ctx, number)
	})
}

// GetInvoiceByID returns an invoice with the lines of its sale.
func (s *Service) GetInvoiceByID(ctx context.Context, invoiceID int64) (*InvoiceDetails, error) {
	if invoiceID <= 0 {
		return nil, apperror.NewNotFound("invoice", invoiceID)
	}
	return s.invoiceDetails(ctx, func(ctx context.Context) (*InvoiceView, error) {
		return s.invoices.GetInvoiceByID(ctx, invoiceID)
	})
}

func (s *Service) invoiceDetails(ctx context.Context, load func(ctx context.Context) (*InvoiceView, error)) (*InvoiceDetails, error) {
	var details *InvoiceDetails
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		inv, err := load(ctx)
		if err != nil {
			return err
		}
		lines, err := s.sales.GetSaleLines(ctx, inv.SaleID)
		if err != nil {
			return err
		}
		details = &InvoiceDetails{Invoice: *inv, Lines: nonNil(lines)}
		return nil
	})
	if err != nil {
		return nil, apperror.OrPersistence("get invoice", err)
	}
	return details, nil
}

// ListSales returns sales newest first, optionally within a date range.
func (s *Service) ListSales(ctx context.Context, filter SaleFilter) ([]SaleSummary, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperror.NewValidation("date range is inverted")
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Limit = clampLimit(filter.Limit)

	var out []SaleSummary
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		var err error
		out, err = s.sales.ListSales(ctx, filter)
		return err
	})
	if err != nil {
		return nil, apperror.OrPersistence("list sales", err)
	}
	return nonNil(out), nil
}

// ListInvoices returns invoices newest first.
func (s *Service) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceView, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperror.NewValidation("date range is inverted")
	}
	if filter.Status != "" {
		status, err := invoices.NormalizeStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Limit = clampLimit(filter.Limit)

	var out []InvoiceView
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		var err error
		out, err = s.invoices.ListInvoices(ctx, filter)
		return err
	})
	if err != nil {
		return nil, apperror.OrPersistence("list invoices", err)
	}
	return nonNil(out), nil
}

// FindSalesWithoutInvoice lists committed sales that never got an invoice,
// oldest first, so derivation can be retried. Only sale ids greater than
// afterID are returned, which lets callers page past sales that keep failing.
func (s *Service) FindSalesWithoutInvoice(ctx context.Context, afterID int64, limit int) ([]SaleSummary, error) {
	if afterID < 0 {
		afterID = 0
	}
	var out []SaleSummary
	err := tx.ReadOnly(ctx, s.txManager, func(ctx context.Context) error {
		var err error
		out, err = s.sales.FindSalesWithoutInvoice(ctx, afterID, clampLimit(limit))
		return err
	})
	if err != nil {
		return nil, apperror.OrPersistence("find sales without invoice", err)
	}
	return nonNil(out), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
