package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepos/internal/core/apperror"
	"storepos/internal/core/types"
	"storepos/internal/domain/inventory"
	"storepos/internal/domain/invoices"
	"storepos/internal/domain/queries"
	"storepos/internal/domain/sales"
)

func money(s string) types.Money { return types.MustMoney(s) }

type fakeCatalog map[int64]inventory.Product

func (c fakeCatalog) GetByID(_ context.Context, id int64) (*inventory.Product, error) {
	p, ok := c[id]
	if !ok {
		return nil, apperror.NewNotFound("product", id)
	}
	return &p, nil
}

func (c fakeCatalog) Create(context.Context, *inventory.Product) error { return nil }

func (c fakeCatalog) List(context.Context, int, int) ([]inventory.Product, error) { return nil, nil }

type fakeCustomers map[int64]string

func (f fakeCustomers) GetCustomerName(_ context.Context, id int64) (string, error) {
	if id == 500 {
		return "", errors.New("connection refused")
	}
	name, ok := f[id]
	if !ok {
		return "", apperror.NewNotFound("customer", id)
	}
	return name, nil
}

type fakeSales struct {
	recorded [][]sales.LineItem
	customer *int64
	err      error
}

func (f *fakeSales) RecordSale(_ context.Context, customerID *int64, lines []sales.LineItem) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.recorded = append(f.recorded, lines)
	f.customer = customerID
	return int64(len(f.recorded)), nil
}

type fakeDeriver struct {
	names []string
	err   error
}

func (f *fakeDeriver) DeriveInvoice(_ context.Context, saleID int64, name string) (*invoices.Invoice, error) {
	f.names = append(f.names, name)
	if f.err != nil {
		return nil, f.err
	}
	return &invoices.Invoice{ID: saleID, SaleID: saleID, CustomerName: name, Status: invoices.StatusActive}, nil
}

type fakeLookup struct {
	details map[int64]*queries.SaleDetails
}

func (f fakeLookup) GetSaleByID(_ context.Context, saleID int64) (*queries.SaleDetails, error) {
	d, ok := f.details[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	return d, nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	sales   *fakeSales
	deriver *fakeDeriver
	lookup  fakeLookup
	svc     *Service
}

func newFixture() *fixture {
	catalog := fakeCatalog{
		1: {ID: 1, Name: "Coffee", SellingPrice: money("25"), PurchasingPrice: money("15"),
			DiscountPercentage: money("0"), ManualDiscount: money("0"), StockQuantity: 10},
		2: {ID: 2, Name: "Mug", SellingPrice: money("12.5"), PurchasingPrice: money("6"),
			DiscountPercentage: money("20"), ManualDiscount: money("0"), StockQuantity: 3},
	}
	f := &fixture{
		sales:   &fakeSales{},
		deriver: &fakeDeriver{},
		lookup:  fakeLookup{details: map[int64]*queries.SaleDetails{}},
	}
	f.svc = NewService(catalog, fakeCustomers{7: "Layla"}, f.sales, f.deriver, f.lookup, passthroughTx{})
	return f
}

func TestQuote(t *testing.T) {
	f := newFixture()

	q, err := f.svc.Quote(context.Background(), []CartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, q.Lines, 2)

	mug := q.Lines[1]
	assert.Equal(t, "Mug", mug.ProductName)
	assert.True(t, money("2.5").Equal(mug.DiscountApplied))
	assert.True(t, money("10").Equal(mug.FinalPrice))

	assert.True(t, money("62.5").Equal(q.TotalAmount))
	assert.True(t, money("60").Equal(q.FinalAmount))
	assert.True(t, money("26.5").Equal(q.Profit))
}

func TestQuote_ManualDiscountOverride(t *testing.T) {
	f := newFixture()
	override := money("30")

	q, err := f.svc.Quote(context.Background(), []CartItem{{ProductID: 1, Quantity: 1, ManualDiscount: &override}})
	require.NoError(t, err)
	assert.True(t, types.Zero().Equal(q.Lines[0].FinalPrice), "final price is clamped at zero")
	assert.True(t, override.Equal(q.Lines[0].ManualDiscount))
}

func TestQuote_Errors(t *testing.T) {
	f := newFixture()
	negative := money("-1")

	_, err := f.svc.Quote(context.Background(), nil)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.svc.Quote(context.Background(), []CartItem{{ProductID: 1, Quantity: 0}})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.svc.Quote(context.Background(), []CartItem{{ProductID: 1, Quantity: 1, ManualDiscount: &negative}})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = f.svc.Quote(context.Background(), []CartItem{{ProductID: 9, Quantity: 1}})
	assert.True(t, apperror.IsNotFound(err))
}

func TestCheckout_IssuesInvoice(t *testing.T) {
	f := newFixture()
	customer := int64(7)

	receipt, err := f.svc.Checkout(context.Background(), Request{
		CustomerID: &customer,
		Items:      []CartItem{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), receipt.SaleID)
	require.NotNil(t, receipt.Invoice)
	assert.Equal(t, "Layla", receipt.Invoice.CustomerName)
	require.NotNil(t, receipt.Quote)

	require.Len(t, f.sales.recorded, 1)
	assert.True(t, money("25").Equal(f.sales.recorded[0][0].FinalPrice))
	assert.Equal(t, &customer, f.sales.customer)
}

func TestCheckout_WalkInCustomer(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Checkout(context.Background(), Request{Items: []CartItem{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, []string{invoices.DefaultCustomerName}, f.deriver.names)
}

func TestCheckout_CustomerVanishedAfterCommitIsSoft(t *testing.T) {
	f := newFixture()
	gone := int64(99)

	receipt, err := f.svc.Checkout(context.Background(), Request{CustomerID: &gone, Items: []CartItem{{ProductID: 1, Quantity: 1}}})
	assert.True(t, apperror.IsDerivationFailure(err))
	require.NotNil(t, receipt)
	assert.Nil(t, receipt.Invoice)
	assert.Empty(t, f.deriver.names)
}

func TestCheckout_SaleFailureIsHardError(t *testing.T) {
	f := newFixture()
	f.sales.err = apperror.NewInsufficientStock(2, 5, 3)

	receipt, err := f.svc.Checkout(context.Background(), Request{Items: []CartItem{{ProductID: 2, Quantity: 5}}})
	assert.Nil(t, receipt)
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	assert.Empty(t, f.deriver.names)
}

func TestCheckout_DerivationFailureIsSoft(t *testing.T) {
	f := newFixture()
	f.deriver.err = apperror.NewPersistence("insert invoice", errors.New("disk full"))

	receipt, err := f.svc.Checkout(context.Background(), Request{Items: []CartItem{{ProductID: 1, Quantity: 1}}})
	require.Error(t, err)
	assert.True(t, apperror.IsDerivationFailure(err))
	require.NotNil(t, receipt)
	assert.Equal(t, int64(1), receipt.SaleID)
	assert.Nil(t, receipt.Invoice)

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, int64(1), appErr.Details["sale_id"])
}

func TestCheckout_CustomerLookupFailureIsSoft(t *testing.T) {
	f := newFixture()
	broken := int64(500)

	receipt, err := f.svc.Checkout(context.Background(), Request{CustomerID: &broken, Items: []CartItem{{ProductID: 1, Quantity: 1}}})
	assert.True(t, apperror.IsDerivationFailure(err))
	require.NotNil(t, receipt)
	assert.Empty(t, f.deriver.names)
}

func TestRetryInvoice(t *testing.T) {
	f := newFixture()
	name := "Omar"
	f.lookup.details[3] = &queries.SaleDetails{Sale: queries.SaleSummary{SaleID: 3, CustomerName: &name}}
	f.lookup.details[4] = &queries.SaleDetails{Sale: queries.SaleSummary{SaleID: 4}}

	inv, err := f.svc.RetryInvoice(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Omar", inv.CustomerName)

	inv, err = f.svc.RetryInvoice(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, invoices.DefaultCustomerName, inv.CustomerName)

	_, err = f.svc.RetryInvoice(context.Background(), 5)
	assert.True(t, apperror.IsNotFound(err))
}
