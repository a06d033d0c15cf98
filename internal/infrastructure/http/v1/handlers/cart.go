package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"storepos/internal/domain/checkout"
	"storepos/internal/domain/invoices"
	"storepos/internal/infrastructure/http/v1/dto"
)

// CheckoutService prices carts, records sales and issues invoices.
type CheckoutService interface {
	Quote(ctx context.Context, items []checkout.CartItem) (*checkout.Quote, error)
	Checkout(ctx context.Context, req checkout.Request) (*checkout.Receipt, error)
	RetryInvoice(ctx context.Context, saleID int64) (*invoices.Invoice, error)
}

// CartHandler handles cart pricing.
type CartHandler struct {
	*BaseHandler
	service CheckoutService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(base *BaseHandler, service CheckoutService) *CartHandler {
	return &CartHandler{BaseHandler: base, service: service}
}

// Quote handles POST /cart/quote
func (h *CartHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), dto.ToCartItems(req.Items))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, quote)
}
