package dto

import (
	"storepos/internal/core/types"
	"storepos/internal/domain/checkout"
	"storepos/internal/domain/invoices"
)

// CartItemRequest is one scanned item.
type CartItemRequest struct {
	ProductID      int64        `json:"productId" binding:"required,gt=0"`
	Quantity       int64        `json:"quantity" binding:"required,gt=0"`
	ManualDiscount *types.Money `json:"manualDiscount,omitempty"`
}

// QuoteRequest prices a cart without recording it.
type QuoteRequest struct {
	Items []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CheckoutRequest records a sale and issues its invoice.
type CheckoutRequest struct {
	CustomerID *int64            `json:"customerId,omitempty" binding:"omitempty,gt=0"`
	Items      []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToCartItems converts request items to domain cart items.
func ToCartItems(items []CartItemRequest) []checkout.CartItem {
	out := make([]checkout.CartItem, len(items))
	for i, it := range items {
		out[i] = checkout.CartItem{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			ManualDiscount: it.ManualDiscount,
		}
	}
	return out
}

// ToRequest converts the body to a checkout request.
func (r CheckoutRequest) ToRequest() checkout.Request {
	return checkout.Request{CustomerID: r.CustomerID, Items: ToCartItems(r.Items)}
}

// CheckoutResponse is returned by POST /sales. When the sale committed but
// the invoice could not be issued, InvoicePending is set and Error explains why.
type CheckoutResponse struct {
	SaleID         int64             `json:"saleId"`
	Invoice        *invoices.Invoice `json:"invoice,omitempty"`
	Quote          *checkout.Quote   `json:"quote,omitempty"`
	InvoicePending bool              `json:"invoicePending"`
	Error          *ErrorResponse    `json:"error,omitempty"`
}

// FromReceipt builds the checkout response.
func FromReceipt(r *checkout.Receipt) CheckoutResponse {
	return CheckoutResponse{
		SaleID:         r.SaleID,
		Invoice:        r.Invoice,
		Quote:          r.Quote,
		InvoicePending: r.Invoice == nil,
	}
}

// ListSalesQuery filters GET /sales.
type ListSalesQuery struct {
	PageQuery
	DateRangeQuery
}

// WithoutInvoiceQuery limits GET /sales/without-invoice.
type WithoutInvoiceQuery struct {
	After int64 `form:"after" binding:"omitempty,min=0"`
	Limit int   `form:"limit" binding:"omitempty,min=1,max=500"`
}
