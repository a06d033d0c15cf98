// Package sales records multi-line sales as a single unit of work.
package sales

import (
	"time"

	"storepos/internal/core/apperror"
	"storepos/internal/core/types"
	"storepos/internal/domain/pricing"
)

// LineItem is one product/quantity/price entry of a sale.
// Prices are snapshots taken when the cart was priced and are never
// re-derived from the catalog.
type LineItem struct {
	ID              int64       `db:"sale_detail_id" json:"id"`
	SaleID          int64       `db:"sale_id" json:"saleId"`
	ProductID       int64       `db:"product_id" json:"productId"`
	Quantity        int64       `db:"quantity" json:"quantity"`
	SellingPrice    types.Money `db:"selling_price" json:"sellingPrice"`
	PurchasingPrice types.Money `db:"purchasing_price" json:"purchasingPrice"`
	DiscountApplied types.Money `db:"discount_applied" json:"discountApplied"`
	ManualDiscount  types.Money `db:"manual_discount" json:"manualDiscount"`
	FinalPrice      types.Money `db:"final_price" json:"finalPrice"`
}

// Validate performs the structural checks the sale path relies on.
func (l LineItem) Validate(idx int) error {
	if l.ProductID <= 0 {
		return lineError(idx, "productId", "product id must be positive")
	}
	if l.Quantity <= 0 {
		return lineError(idx, "quantity", "quantity must be positive")
	}
	amounts := []struct {
		field string
		value types.Money
	}{
		{"sellingPrice", l.SellingPrice},
		{"purchasingPrice", l.PurchasingPrice},
		{"discountApplied", l.DiscountApplied},
		{"manualDiscount", l.ManualDiscount},
		{"finalPrice", l.FinalPrice},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return lineError(idx, a.field, "amount must not be negative")
		}
	}
	return nil
}

func lineError(idx int, field, msg string) *apperror.AppError {
	return apperror.NewValidation(msg).
		WithDetail("line", idx).
		WithDetail("field", field)
}

// Sale is the header of one checkout plus its lines.
type Sale struct {
	ID          int64       `db:"sale_id" json:"id"`
	CustomerID  *int64      `db:"customer_id" json:"customerId,omitempty"`
	Date        time.Time   `db:"date" json:"date"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	Profit      types.Money `db:"profit" json:"profit"`
	FinalAmount types.Money `db:"final_amount" json:"finalAmount"`
	Lines       []LineItem  `db:"-" json:"lines"`
}

// NewSale validates lines and computes the header aggregates:
// total = Σ selling×qty, profit = Σ (selling−purchasing)×qty, final = Σ final×qty.
func NewSale(customerID *int64, lines []LineItem, at time.Time) (*Sale, error) {
	if len(lines) == 0 {
		return nil, apperror.NewValidation("sale must contain at least one line")
	}
	if customerID != nil && *customerID <= 0 {
		return nil, apperror.NewValidation("customer id must be positive").WithDetail("customerId", *customerID)
	}

	sale := &Sale{
		CustomerID:  customerID,
		Date:        at,
		TotalAmount: types.Zero(),
		Profit:      types.Zero(),
		FinalAmount: types.Zero(),
		Lines:       make([]LineItem, len(lines)),
	}
	copy(sale.Lines, lines)

	for i, l := range sale.Lines {
		if err := l.Validate(i); err != nil {
			return nil, err
		}
		sale.TotalAmount = sale.TotalAmount.Add(types.Times(l.SellingPrice, l.Quantity))
		sale.Profit = sale.Profit.Add(pricing.Profit(l.SellingPrice, l.PurchasingPrice, l.Quantity))
		sale.FinalAmount = sale.FinalAmount.Add(types.Times(l.FinalPrice, l.Quantity))
	}
	return sale, nil
}
