package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepos/internal/config"
	"storepos/internal/core/apperror"
	"storepos/internal/core/types"
	"storepos/internal/domain/checkout"
	"storepos/internal/domain/customers"
	"storepos/internal/domain/inventory"
	"storepos/internal/domain/invoices"
	"storepos/internal/domain/queries"
	"storepos/internal/domain/sales"
	"storepos/internal/infrastructure/storage/sqlite"
	"storepos/pkg/logger"
)

func newTestServices(t *testing.T, strict bool) *Services {
	t.Helper()

	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: sqlite.MemoryDSN}
	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc, err := NewServices(store, Options{StrictStock: strict})
	require.NoError(t, err)
	return svc
}

func addProduct(t *testing.T, svc *Services, name, price, discountPct string, stock int64) *inventory.Product {
	t.Helper()

	p := &inventory.Product{
		Name:               name,
		SellingPrice:       types.MustMoney(price),
		PurchasingPrice:    types.MustMoney("4"),
		StockQuantity:      stock,
		DiscountPercentage: types.MustMoney(discountPct),
		ManualDiscount:     types.Zero(),
	}
	require.NoError(t, svc.Products.Create(context.Background(), p))
	return p
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestCheckout_EndToEnd(t *testing.T) {
	svc := newTestServices(t, false)
	ctx := context.Background()

	coffee := addProduct(t, svc, "Coffee", "10.00", "10", 20)
	cake := addProduct(t, svc, "Cake", "6.00", "0", 5)
	buyer := &customers.Customer{Name: "Linus"}
	require.NoError(t, svc.Customers.Create(ctx, buyer))

	receipt, err := svc.Checkout.Checkout(ctx, checkout.Request{
		CustomerID: &buyer.ID,
		Items: []checkout.CartItem{
			{ProductID: coffee.ID, Quantity: 2},
			{ProductID: cake.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, receipt.Invoice)
	assert.Equal(t, "Linus", receipt.Invoice.CustomerName)
	assert.Equal(t, invoices.FormatNumber(receipt.Invoice.IssueDate, receipt.SaleID), receipt.Invoice.Number)

	// 2 x (10 - 10%) + 1 x 6
	assert.True(t, receipt.Quote.FinalAmount.Equal(types.MustMoney("24")), receipt.Quote.FinalAmount.String())
	assert.True(t, receipt.Invoice.TotalAmount.Equal(types.MustMoney("24")))

	p, err := svc.Products.GetByID(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(18), p.StockQuantity)

	details, err := svc.Queries.GetInvoiceByNumber(ctx, receipt.Invoice.Number)
	require.NoError(t, err)
	require.Len(t, details.Lines, 2)
	assert.Equal(t, "Coffee", details.Lines[0].ProductName)
	assert.True(t, details.Lines[0].FinalPrice.Equal(types.MustMoney("9")))

	history, err := svc.Audit.History(ctx, "invoice", receipt.Invoice.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestCheckout_UnknownCustomerIsRejected(t *testing.T) {
	svc := newTestServices(t, false)
	ctx := context.Background()
	p := addProduct(t, svc, "Coffee", "10.00", "0", 5)
	unknown := int64(404)

	receipt, err := svc.Checkout.Checkout(ctx, checkout.Request{
		CustomerID: &unknown,
		Items:      []checkout.CartItem{{ProductID: p.ID, Quantity: 1}},
	})
	assert.Nil(t, receipt)
	assert.True(t, apperror.IsNotFound(err))

	stored, err := svc.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.StockQuantity)

	pending, err := svc.Queries.FindSalesWithoutInvoice(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCheckout_StrictStock(t *testing.T) {
	svc := newTestServices(t, true)
	p := addProduct(t, svc, "Coffee", "10.00", "0", 1)

	_, err := svc.Checkout.Checkout(context.Background(), checkout.Request{
		Items: []checkout.CartItem{{ProductID: p.ID, Quantity: 2}},
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
}

func TestReconciler_IssuesMissingInvoices(t *testing.T) {
	svc := newTestServices(t, false)
	ctx := context.Background()
	p := addProduct(t, svc, "Coffee", "10.00", "0", 10)

	line := sales.LineItem{
		ProductID:       p.ID,
		Quantity:        1,
		SellingPrice:    p.SellingPrice,
		PurchasingPrice: p.PurchasingPrice,
		DiscountApplied: types.Zero(),
		ManualDiscount:  types.Zero(),
		FinalPrice:      p.SellingPrice,
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Sales.RecordSale(ctx, nil, []sales.LineItem{line})
		require.NoError(t, err)
	}

	r := NewReconciler(svc.Queries, svc.Checkout, logger.NewNop(), time.Minute, 10)
	res := r.RunOnce(ctx)
	assert.Equal(t, ReconcileResult{Scanned: 2, Issued: 2}, res)

	list, err := svc.Queries.ListInvoices(ctx, queries.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, invoices.DefaultCustomerName, list[0].CustomerName)

	assert.Equal(t, ReconcileResult{}, r.RunOnce(ctx))
}

type stubPending struct {
	sales  []queries.SaleSummary
	err    error
	afters []int64
}

func (s *stubPending) FindSalesWithoutInvoice(_ context.Context, afterID int64, limit int) ([]queries.SaleSummary, error) {
	s.afters = append(s.afters, afterID)
	if s.err != nil {
		return nil, s.err
	}
	var out []queries.SaleSummary
	for _, sale := range s.sales {
		if sale.SaleID > afterID && len(out) < limit {
			out = append(out, sale)
		}
	}
	return out, nil
}

type stubRetrier map[int64]error

func (s stubRetrier) RetryInvoice(_ context.Context, saleID int64) (*invoices.Invoice, error) {
	if err := s[saleID]; err != nil {
		return nil, err
	}
	return &invoices.Invoice{SaleID: saleID, Number: "INV-20240805-0001"}, nil
}

func TestReconciler_CountsOutcomes(t *testing.T) {
	pending := &stubPending{sales: []queries.SaleSummary{{SaleID: 1}, {SaleID: 2}, {SaleID: 3}}}
	retrier := stubRetrier{
		2: apperror.NewDuplicate("invoice", "sale_id", "INV-20240805-0002"),
		3: apperror.NewPersistence("insert invoice", errors.New("locked")),
	}

	r := NewReconciler(pending, retrier, logger.NewNop(), time.Minute, 10)
	assert.Equal(t, ReconcileResult{Scanned: 3, Issued: 1, Failed: 1}, r.RunOnce(context.Background()))
}

func TestReconciler_PermanentFailuresDoNotStarveNewerSales(t *testing.T) {
	pending := &stubPending{sales: []queries.SaleSummary{{SaleID: 1}, {SaleID: 2}, {SaleID: 3}}}
	retrier := stubRetrier{
		1: apperror.NewPersistence("insert invoice", errors.New("constraint")),
		2: apperror.NewPersistence("insert invoice", errors.New("constraint")),
	}
	r := NewReconciler(pending, retrier, logger.NewNop(), time.Minute, 2)
	ctx := context.Background()

	assert.Equal(t, ReconcileResult{Scanned: 2, Failed: 2}, r.RunOnce(ctx))
	assert.Equal(t, ReconcileResult{Scanned: 1, Issued: 1}, r.RunOnce(ctx))
	assert.Equal(t, ReconcileResult{Scanned: 2, Failed: 2}, r.RunOnce(ctx))
	assert.Equal(t, []int64{0, 2, 0}, pending.afters)
}

func TestReconciler_ListFailure(t *testing.T) {
	r := NewReconciler(&stubPending{err: errors.New("db down")}, stubRetrier{}, logger.NewNop(), time.Minute, 10)
	assert.Equal(t, ReconcileResult{}, r.RunOnce(context.Background()))
}

func TestReconciler_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewReconciler(&stubPending{}, stubRetrier{}, logger.NewNop(), time.Millisecond, 10)

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciler did not stop")
	}
}
