// Package inventory owns product stock levels.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storepos/internal/core/apperror"
	"storepos/internal/core/types"
)

// Product is a catalog item. Only StockQuantity is mutated by sales.
type Product struct {
	ID                 int64       `db:"product_id" json:"id"`
	Name               string      `db:"name" json:"name"`
	Description        string      `db:"description" json:"description,omitempty"`
	SellingPrice       types.Money `db:"selling_price" json:"sellingPrice"`
	PurchasingPrice    types.Money `db:"purchasing_price" json:"purchasingPrice"`
	StockQuantity      int64       `db:"stock_quantity" json:"stockQuantity"`
	DiscountPercentage types.Money `db:"discount_percentage" json:"discountPercentage"`
	ManualDiscount     types.Money `db:"manual_discount" json:"manualDiscount"`
	CreatedAt          time.Time   `db:"created_at" json:"createdAt"`
}

var hundred = decimal.NewFromInt(100)

// Validate checks catalog constraints before a product is stored.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.NewValidation("product name is required").WithDetail("field", "name")
	}
	if p.SellingPrice.IsNegative() || p.PurchasingPrice.IsNegative() {
		return apperror.NewValidation("prices must not be negative")
	}
	if p.DiscountPercentage.IsNegative() || p.DiscountPercentage.GreaterThan(hundred) {
		return apperror.NewValidation("discount percentage must be within [0,100]").
			WithDetail("discountPercentage", p.DiscountPercentage.String())
	}
	if p.ManualDiscount.IsNegative() {
		return apperror.NewValidation("manual discount must not be negative")
	}
	return nil
}

// Catalog reads and creates products.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context, limit, offset int) ([]Product, error)
}

// StockRepository applies stock movements.
type StockRepository interface {
	// DecrementStock subtracts qty and returns the remaining quantity.
	// Returns a NotFound AppError when the product does not exist.
	DecrementStock(ctx context.Context, productID, qty int64) (int64, error)
}
