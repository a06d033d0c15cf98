// Package storagetest opens throwaway stores for repository tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storepos/internal/core/types"
	"storepos/internal/domain/customers"
	"storepos/internal/domain/inventory"
	"storepos/internal/infrastructure/storage/catalog_repo"
	"storepos/internal/infrastructure/storage/sqlite"
)

// NewSQLite opens a migrated in-memory store that is closed with the test.
func NewSQLite(t testing.TB) *sqlite.Store {
	t.Helper()

	ctx := context.Background()
	store, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(ctx))
	return store
}

// Product inserts a product with the given price and stock and no discounts.
func Product(t testing.TB, store *sqlite.Store, name, price string, stock int64) *inventory.Product {
	t.Helper()

	p := &inventory.Product{
		Name:               name,
		SellingPrice:       types.MustMoney(price),
		PurchasingPrice:    types.MustMoney(price).Div(types.MustMoney("2")),
		StockQuantity:      stock,
		DiscountPercentage: types.Zero(),
		ManualDiscount:     types.Zero(),
	}
	require.NoError(t, catalog_repo.NewProductRepo(store.Executor()).Create(context.Background(), p))
	return p
}

// Customer inserts a customer.
func Customer(t testing.TB, store *sqlite.Store, name string) *customers.Customer {
	t.Helper()

	c := &customers.Customer{Name: name}
	require.NoError(t, catalog_repo.NewCustomerRepo(store.Executor()).Create(context.Background(), c))
	return c
}

// Stock reads a product's current stock.
func Stock(t testing.TB, store *sqlite.Store, productID int64) int64 {
	t.Helper()

	p, err := catalog_repo.NewProductRepo(store.Executor()).GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.StockQuantity
}

// Count returns the number of rows in table.
func Count(t testing.TB, store *sqlite.Store, table string) int {
	t.Helper()

	var n int
	require.NoError(t, store.DB().Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}
