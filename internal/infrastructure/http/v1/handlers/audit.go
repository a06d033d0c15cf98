package handlers

import (
	"github.com/gin-gonic/gin"

	"storepos/internal/core/apperror"
	"storepos/internal/domain/audit"
	"storepos/internal/infrastructure/http/v1/dto"
)

// AuditHandler serves the audit trail of sales and invoices.
type AuditHandler struct {
	*BaseHandler
	history audit.HistoryReader
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(base *BaseHandler, history audit.HistoryReader) *AuditHandler {
	return &AuditHandler{BaseHandler: base, history: history}
}

// History returns the handler for GET /<entities>/:id/history, newest first.
func (h *AuditHandler) History(entityType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		entityID, ok := h.ParseID(c, "id")
		if !ok {
			return
		}
		var q dto.HistoryQuery
		if !h.BindQuery(c, &q) {
			return
		}

		entries, err := h.history.History(c.Request.Context(), entityType, entityID, q.Limit)
		if err != nil {
			h.Error(c, apperror.OrPersistence("read audit history", err))
			return
		}
		if entries == nil {
			entries = []audit.Entry{}
		}
		h.OK(c, dto.NewListResponse(entries, q.Limit, 0))
	}
}
