package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"storepos/internal/core/apperror"
	"storepos/internal/domain/queries"
	"storepos/internal/infrastructure/http/v1/dto"
)

// QueryService answers sale and invoice lookups.
type QueryService interface {
	GetSaleByID(ctx context.Context, saleID int64) (*queries.SaleDetails, error)
	ListSales(ctx context.Context, filter queries.SaleFilter) ([]queries.SaleSummary, error)
	FindSalesWithoutInvoice(ctx context.Context, afterID int64, limit int) ([]queries.SaleSummary, error)
	GetInvoiceByID(ctx context.Context, invoiceID int64) (*queries.InvoiceDetails, error)
	GetInvoiceByNumber(ctx context.Context, number string) (*queries.InvoiceDetails, error)
	ListInvoices(ctx context.Context, filter queries.InvoiceFilter) ([]queries.InvoiceView, error)
}

// SalesHandler handles HTTP requests for sales.
type SalesHandler struct {
	*BaseHandler
	checkout CheckoutService
	queries  QueryService
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, checkout CheckoutService, queries QueryService) *SalesHandler {
	return &SalesHandler{BaseHandler: base, checkout: checkout, queries: queries}
}

// Create handles POST /sales
// The sale and its invoice are written in separate transactions. If only
// the invoice fails, the response carries the sale id, invoicePending and
// the error, with the error's status.
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receipt, err := h.checkout.Checkout(c.Request.Context(), req.ToRequest())
	if err != nil && receipt == nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromReceipt(receipt)
	if err != nil {
		appErr, ok := apperror.AsAppError(err)
		if !ok {
			appErr = apperror.NewInvoiceDerivation(receipt.SaleID, err)
		}
		resp.Error = &dto.ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
		_ = c.Error(err)
		c.JSON(appErr.HTTPStatus, resp)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	details, err := h.queries.GetSaleByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, details)
}

// List handles GET /sales
func (h *SalesHandler) List(c *gin.Context) {
	var q dto.ListSalesQuery
	if !h.BindQuery(c, &q) {
		return
	}
	from, to, err := q.Parse()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	items, err := h.queries.ListSales(c.Request.Context(), queries.SaleFilter{
		From:   from,
		To:     to,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items, q.Limit, q.Offset))
}

// WithoutInvoice handles GET /sales/without-invoice
func (h *SalesHandler) WithoutInvoice(c *gin.Context) {
	var q dto.WithoutInvoiceQuery
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.queries.FindSalesWithoutInvoice(c.Request.Context(), q.After, q.Limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items, q.Limit, 0))
}

// IssueInvoice handles POST /sales/:id/invoice
func (h *SalesHandler) IssueInvoice(c *gin.Context) {
	saleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.checkout.RetryInvoice(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, inv)
}
