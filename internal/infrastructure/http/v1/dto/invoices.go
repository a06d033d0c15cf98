package dto

// UpdateInvoiceStatusRequest changes an invoice status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,max=32"`
}

// ListInvoicesQuery filters GET /invoices.
type ListInvoicesQuery struct {
	PageQuery
	DateRangeQuery
	Status string `form:"status"`
}
