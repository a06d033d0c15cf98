package queries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepos/internal/core/apperror"
	"storepos/internal/core/types"
	"storepos/internal/domain/invoices"
	"storepos/internal/domain/sales"
)

type fakeReader struct {
	sale     *SaleSummary
	lines    []LineView
	invoice  *InvoiceView
	calls    int
	lastSale SaleFilter
	lastInv  InvoiceFilter

	lastAfter int64
}

func (f *fakeReader) GetSale(_ context.Context, saleID int64) (*SaleSummary, error) {
	f.calls++
	if f.sale == nil || f.sale.SaleID != saleID {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	return f.sale, nil
}

func (f *fakeReader) GetSaleLines(_ context.Context, _ int64) ([]LineView, error) {
	f.calls++
	return f.lines, nil
}

func (f *fakeReader) ListSales(_ context.Context, filter SaleFilter) ([]SaleSummary, error) {
	f.calls++
	f.lastSale = filter
	return nil, nil
}

func (f *fakeReader) FindSalesWithoutInvoice(_ context.Context, afterID int64, limit int) ([]SaleSummary, error) {
	f.calls++
	f.lastSale = SaleFilter{Limit: limit}
	f.lastAfter = afterID
	return []SaleSummary{{SaleID: 4}}, nil
}

func (f *fakeReader) GetInvoiceByNumber(_ context.Context, number string) (*InvoiceView, error) {
	f.calls++
	if f.invoice == nil || f.invoice.Number != number {
		return nil, apperror.NewNotFound("invoice", number)
	}
	return f.invoice, nil
}

func (f *fakeReader) GetInvoiceByID(_ context.Context, invoiceID int64) (*InvoiceView, error) {
	f.calls++
	if f.invoice == nil || f.invoice.ID != invoiceID {
		return nil, apperror.NewNotFound("invoice", invoiceID)
	}
	return f.invoice, nil
}

func (f *fakeReader) ListInvoices(_ context.Context, filter InvoiceFilter) ([]InvoiceView, error) {
	f.calls++
	f.lastInv = filter
	return nil, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newFixture() (*fakeReader, *Service) {
	r := &fakeReader{
		sale: &SaleSummary{SaleID: 42, FinalAmount: types.MustMoney("60")},
		lines: []LineView{
			{LineItem: sales.LineItem{SaleID: 42, ProductID: 1, Quantity: 2}, ProductName: "Tea"},
		},
		invoice: &InvoiceView{Invoice: invoices.Invoice{ID: 7, SaleID: 42, Number: "INV-20240805-0042"}},
	}
	return r, NewService(r, r, passthroughTx{})
}

func TestGetSaleByID(t *testing.T) {
	_, svc := newFixture()

	details, err := svc.GetSaleByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), details.Sale.SaleID)
	require.Len(t, details.Lines, 1)
	assert.Equal(t, "Tea", details.Lines[0].ProductName)

	_, err = svc.GetSaleByID(context.Background(), 43)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetInvoiceByNumber(t *testing.T) {
	r, svc := newFixture()

	details, err := svc.GetInvoiceByNumber(context.Background(), "INV-20240805-0042")
	require.NoError(t, err)
	assert.Equal(t, int64(7), details.Invoice.ID)
	assert.Len(t, details.Lines, 1)

	r.calls = 0
	_, err = svc.GetInvoiceByNumber(context.Background(), "INV-99999999-9999")
	assert.True(t, apperror.IsNotFound(err))
	assert.Zero(t, r.calls, "malformed numbers must not reach storage")

	_, err = svc.GetInvoiceByNumber(context.Background(), "INV-20240806-0042")
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetInvoiceByID(t *testing.T) {
	_, svc := newFixture()

	details, err := svc.GetInvoiceByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "INV-20240805-0042", details.Invoice.Number)

	_, err = svc.GetInvoiceByID(context.Background(), -1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetSaleByID_EmptyLinesAreNotNil(t *testing.T) {
	r, svc := newFixture()
	r.lines = nil

	details, err := svc.GetSaleByID(context.Background(), 42)
	require.NoError(t, err)
	assert.NotNil(t, details.Lines)
	assert.Empty(t, details.Lines)
}

func TestListSales_FilterNormalisation(t *testing.T) {
	r, svc := newFixture()

	out, err := svc.ListSales(context.Background(), SaleFilter{Limit: 10_000, Offset: -5})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Equal(t, MaxLimit, r.lastSale.Limit)
	assert.Zero(t, r.lastSale.Offset)

	from := time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	_, err = svc.ListSales(context.Background(), SaleFilter{From: &from, To: &to})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestListInvoices_TrimsStatus(t *testing.T) {
	r, svc := newFixture()

	_, err := svc.ListInvoices(context.Background(), InvoiceFilter{Status: " cancelled "})
	require.NoError(t, err)
	assert.Equal(t, invoices.StatusCancelled, r.lastInv.Status)
	assert.Equal(t, DefaultLimit, r.lastInv.Limit)
}

func TestFindSalesWithoutInvoice(t *testing.T) {
	r, svc := newFixture()

	out, err := svc.FindSalesWithoutInvoice(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(4), out[0].SaleID)
	assert.Equal(t, DefaultLimit, r.lastSale.Limit)

	_, err = svc.FindSalesWithoutInvoice(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.lastAfter)
	assert.Equal(t, 5, r.lastSale.Limit)

	_, err = svc.FindSalesWithoutInvoice(context.Background(), -1, 5)
	require.NoError(t, err)
	assert.Zero(t, r.lastAfter)
}
