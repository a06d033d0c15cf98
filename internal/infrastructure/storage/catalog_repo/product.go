// Package catalog_repo provides product and customer repositories for both
// storage backends.
package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"storepos/internal/core/apperror"
	"storepos/internal/domain/inventory"
	"storepos/internal/infrastructure/storage"
)

const productsTable = "products"

var productColumns = []string{
	"product_id", "name", "description", "selling_price", "purchasing_price",
	"stock_quantity", "discount_percentage", "manual_discount", "created_at",
}

var _ inventory.Catalog = (*ProductRepo)(nil)

// ProductRepo implements inventory.Catalog.
type ProductRepo struct {
	db storage.Executor
}

// NewProductRepo creates a new product repository.
func NewProductRepo(db storage.Executor) *ProductRepo {
	return &ProductRepo{db: db}
}

// GetByID retrieves a product.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*inventory.Product, error) {
	q := r.db.Builder().
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"product_id": id})

	var p inventory.Product
	if err := storage.GetQ(ctx, r.db, &p, q); err != nil {
		if storage.IsNoRows(err) {
			return nil, apperror.NewNotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Create inserts a product and sets its ID.
func (r *ProductRepo) Create(ctx context.Context, p *inventory.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	q := r.db.Builder().
		Insert(productsTable).
		Columns(productColumns[1:]...).
		Values(
			p.Name, p.Description, p.SellingPrice, p.PurchasingPrice,
			p.StockQuantity, p.DiscountPercentage, p.ManualDiscount, p.CreatedAt,
		).
		Suffix("RETURNING product_id")

	if err := storage.GetQ(ctx, r.db, &p.ID, q); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// List returns products ordered by id.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]inventory.Product, error) {
	q := r.db.Builder().
		Select(productColumns...).
		From(productsTable).
		OrderBy("product_id").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	var out []inventory.Product
	if err := storage.SelectQ(ctx, r.db, &out, q); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}
