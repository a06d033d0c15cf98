// Package register_repo applies stock movements to the product register.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"storepos/internal/core/apperror"
	"storepos/internal/domain/inventory"
	"storepos/internal/infrastructure/storage"
)

var _ inventory.StockRepository = (*StockRepo)(nil)

// StockRepo implements inventory.StockRepository.
type StockRepo struct {
	db storage.Executor
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(db storage.Executor) *StockRepo {
	return &StockRepo{db: db}
}

// DecrementStock subtracts qty in a single statement and returns what is left.
// The update is relative, so concurrent sales of the same product serialize
// on the row instead of overwriting each other.
func (r *StockRepo) DecrementStock(ctx context.Context, productID, qty int64) (int64, error) {
	q := r.db.Builder().
		Update("products").
		Set("stock_quantity", squirrel.Expr("stock_quantity - ?", qty)).
		Where(squirrel.Eq{"product_id": productID}).
		Suffix("RETURNING stock_quantity")

	var remaining int64
	if err := storage.GetQ(ctx, r.db, &remaining, q); err != nil {
		if storage.IsNoRows(err) {
			return 0, apperror.NewNotFound("product", productID)
		}
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return remaining, nil
}
