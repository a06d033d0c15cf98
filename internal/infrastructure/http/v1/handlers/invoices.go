package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"storepos/internal/core/apperror"
	"storepos/internal/domain/invoices"
	"storepos/internal/domain/queries"
	"storepos/internal/infrastructure/http/v1/dto"
)

// InvoiceStatusService changes invoice statuses.
type InvoiceStatusService interface {
	UpdateStatus(ctx context.Context, invoiceID int64, status string) (*invoices.Invoice, error)
}

// InvoicesHandler handles HTTP requests for invoices.
type InvoicesHandler struct {
	*BaseHandler
	queries QueryService
	status  InvoiceStatusService
}

// NewInvoicesHandler creates a new invoices handler.
func NewInvoicesHandler(base *BaseHandler, queries QueryService, status InvoiceStatusService) *InvoicesHandler {
	return &InvoicesHandler{BaseHandler: base, queries: queries, status: status}
}

// Get handles GET /invoices/:id
func (h *InvoicesHandler) Get(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	details, err := h.queries.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, details)
}

// GetByNumber handles GET /invoices/by-number/:number
func (h *InvoicesHandler) GetByNumber(c *gin.Context) {
	details, err := h.queries.GetInvoiceByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, details)
}

// List handles GET /invoices
func (h *InvoicesHandler) List(c *gin.Context) {
	var q dto.ListInvoicesQuery
	if !h.BindQuery(c, &q) {
		return
	}
	from, to, err := q.Parse()
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()))
		return
	}

	items, err := h.queries.ListInvoices(c.Request.Context(), queries.InvoiceFilter{
		Status: q.Status,
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

// UpdateStatus handles PATCH /invoices/:id/status
func (h *InvoicesHandler) UpdateStatus(c *gin.Context) {
	invoiceID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateInvoiceStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.status.UpdateStatus(c.Request.Context(), invoiceID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, inv)
}
