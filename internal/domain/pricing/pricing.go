// Package pricing computes per-line discounted prices and profit.
// Everything here is pure: no I/O, no rounding, no state.
package pricing

import (
	"storepos/internal/core/types"
)

// FinalPrice returns max(0, base - base*pct/100 - manual).
// pct is expected in [0,100]; range checks belong to the caller.
func FinalPrice(base, pct, manual types.Money) types.Money {
	return types.NonNegative(base.Sub(DiscountAmount(base, pct)).Sub(manual))
}

// DiscountAmount is the percentage part of the discount, base*pct/100.
func DiscountAmount(base, pct types.Money) types.Money {
	return types.Percent(base, pct)
}

// Profit returns (sell - buy) * qty. Negative results are valid.
func Profit(sell, buy types.Money, qty int64) types.Money {
	return types.Times(sell.Sub(buy), qty)
}

// Input describes one line before pricing.
type Input struct {
	SellingPrice       types.Money
	PurchasingPrice    types.Money
	DiscountPercentage types.Money
	ManualDiscount     types.Money
	Quantity           int64
}

// Breakdown is the priced result for one line.
type Breakdown struct {
	UnitDiscount types.Money `json:"unitDiscount"`
	UnitFinal    types.Money `json:"unitFinal"`
	LineTotal    types.Money `json:"lineTotal"`
	LineFinal    types.Money `json:"lineFinal"`
	LineProfit   types.Money `json:"lineProfit"`
}

// Compute prices a line.
func Compute(in Input) Breakdown {
	unitFinal := FinalPrice(in.SellingPrice, in.DiscountPercentage, in.ManualDiscount)
	return Breakdown{
		UnitDiscount: DiscountAmount(in.SellingPrice, in.DiscountPercentage),
		UnitFinal:    unitFinal,
		LineTotal:    types.Times(in.SellingPrice, in.Quantity),
		LineFinal:    types.Times(unitFinal, in.Quantity),
		LineProfit:   Profit(in.SellingPrice, in.PurchasingPrice, in.Quantity),
	}
}
