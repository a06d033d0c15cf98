package v1

import (
	"github.com/gin-gonic/gin"
)

// SaleRouteHandler defines the routes served for sales.
type SaleRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	WithoutInvoice(c *gin.Context)
	IssueInvoice(c *gin.Context)
}

// InvoiceRouteHandler defines the routes served for invoices.
type InvoiceRouteHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	GetByNumber(c *gin.Context)
	UpdateStatus(c *gin.Context)
}

// RegisterSaleRoutes registers sale routes on group.
// Static segments are registered before /:id.
func RegisterSaleRoutes(group *gin.RouterGroup, handler SaleRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/without-invoice", handler.WithoutInvoice)
	group.GET("/:id", handler.Get)
	group.POST("/:id/invoice", handler.IssueInvoice)
}

// RegisterInvoiceRoutes registers invoice routes on group.
func RegisterInvoiceRoutes(group *gin.RouterGroup, handler InvoiceRouteHandler) {
	group.GET("", handler.List)
	group.GET("/by-number/:number", handler.GetByNumber)
	group.GET("/:id", handler.Get)
	group.PATCH("/:id/status", handler.UpdateStatus)
}
