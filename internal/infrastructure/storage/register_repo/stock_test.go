package register_repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storepos/internal/core/apperror"
	"storepos/internal/infrastructure/storage/register_repo"
	"storepos/internal/infrastructure/storage/storagetest"
)

func TestStockRepo_DecrementStock(t *testing.T) {
	store := storagetest.NewSQLite(t)
	p := storagetest.Product(t, store, "Milk", "1.20", 5)
	repo := register_repo.NewStockRepo(store.Executor())
	ctx := context.Background()

	remaining, err := repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), remaining)

	// The register itself allows overselling; the ledger decides.
	remaining, err = repo.DecrementStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), remaining)
	assert.Equal(t, int64(-1), storagetest.Stock(t, store, p.ID))
}

func TestStockRepo_DecrementStock_UnknownProduct(t *testing.T) {
	store := storagetest.NewSQLite(t)
	repo := register_repo.NewStockRepo(store.Executor())

	_, err := repo.DecrementStock(context.Background(), 77, 1)
	assert.True(t, apperror.IsNotFound(err))
}
