package catalog_repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepos/internal/core/apperror"
	"storepos/internal/core/types"
	"storepos/internal/domain/inventory"
	"storepos/internal/infrastructure/storage/catalog_repo"
	"storepos/internal/infrastructure/storage/storagetest"
)

func TestProductRepo_CreateAndGet(t *testing.T) {
	store := storagetest.NewSQLite(t)
	repo := catalog_repo.NewProductRepo(store.Executor())
	ctx := context.Background()

	p := &inventory.Product{
		Name:               "Espresso beans 1kg",
		SellingPrice:       types.MustMoney("24.90"),
		PurchasingPrice:    types.MustMoney("15.10"),
		StockQuantity:      12,
		DiscountPercentage: types.MustMoney("12.5"),
		ManualDiscount:     types.Zero(),
	}
	require.NoError(t, repo.Create(ctx, p))
	require.Positive(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Espresso beans 1kg", got.Name)
	assert.True(t, got.SellingPrice.Equal(types.MustMoney("24.90")), got.SellingPrice.String())
	assert.True(t, got.DiscountPercentage.Equal(types.MustMoney("12.5")))
	assert.Equal(t, int64(12), got.StockQuantity)
}

func TestProductRepo_GetByID_NotFound(t *testing.T) {
	store := storagetest.NewSQLite(t)
	repo := catalog_repo.NewProductRepo(store.Executor())

	_, err := repo.GetByID(context.Background(), 404)
	assert.True(t, apperror.IsNotFound(err))
}

func TestProductRepo_Create_RejectsInvalid(t *testing.T) {
	store := storagetest.NewSQLite(t)
	repo := catalog_repo.NewProductRepo(store.Executor())

	err := repo.Create(context.Background(), &inventory.Product{Name: "  "})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Zero(t, storagetest.Count(t, store, "products"))
}

func TestProductRepo_List(t *testing.T) {
	store := storagetest.NewSQLite(t)
	for _, name := range []string{"a", "b", "c"} {
		storagetest.Product(t, store, name, "1.00", 1)
	}
	repo := catalog_repo.NewProductRepo(store.Executor())

	page, err := repo.List(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Name)
	assert.Equal(t, "c", page[1].Name)
}

func TestCustomerRepo_GetCustomerName(t *testing.T) {
	store := storagetest.NewSQLite(t)
	c := storagetest.Customer(t, store, "Ada Lovelace")
	repo := catalog_repo.NewCustomerRepo(store.Executor())
	ctx := context.Background()

	name, err := repo.GetCustomerName(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", name)

	_, err = repo.GetCustomerName(ctx, c.ID+1)
	assert.True(t, apperror.IsNotFound(err))
}
