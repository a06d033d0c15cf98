// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"storepos/internal/domain/audit"
	"storepos/internal/infrastructure/http/v1/handlers"
	"storepos/internal/infrastructure/http/v1/middleware"
	"storepos/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Store backs the readiness check
	Store handlers.Pinger

	Checkout handlers.CheckoutService
	Queries  handlers.QueryService
	Invoices handlers.InvoiceStatusService

	// Audit serves /:id/history routes; nil disables them
	Audit audit.HistoryReader

	// Development enables gin debug mode
	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Store)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Operator())
	{
		base := handlers.NewBaseHandler()

		cart := handlers.NewCartHandler(base, cfg.Checkout)
		v1.POST("/cart/quote", cart.Quote)

		salesGroup := v1.Group("/sales")
		invoicesGroup := v1.Group("/invoices")
		RegisterSaleRoutes(salesGroup, handlers.NewSalesHandler(base, cfg.Checkout, cfg.Queries))
		RegisterInvoiceRoutes(invoicesGroup, handlers.NewInvoicesHandler(base, cfg.Queries, cfg.Invoices))

		if cfg.Audit != nil {
			auditHandler := handlers.NewAuditHandler(base, cfg.Audit)
			salesGroup.GET("/:id/history", auditHandler.History(audit.EntitySale))
			invoicesGroup.GET("/:id/history", auditHandler.History(audit.EntityInvoice))
		}
	}

	return router
}
