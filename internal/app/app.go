// Package app assembles the store, repositories and services shared by the
// server, worker and seed commands.
package app

import (
	"context"
	"fmt"

	"storepos/internal/config"
	"storepos/internal/domain/audit"
	"storepos/internal/domain/checkout"
	"storepos/internal/domain/inventory"
	"storepos/internal/domain/invoices"
	"storepos/internal/domain/queries"
	"storepos/internal/domain/sales"
	"storepos/internal/infrastructure/storage"
	"storepos/internal/infrastructure/storage/audit_repo"
	"storepos/internal/infrastructure/storage/catalog_repo"
	"storepos/internal/infrastructure/storage/document_repo"
	"storepos/internal/infrastructure/storage/postgres"
	"storepos/internal/infrastructure/storage/register_repo"
	"storepos/internal/infrastructure/storage/sqlite"
)

// OpenStore connects to the configured backend and migrates its schema.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.DBDriver {
	case config.DriverPostgres:
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		poolCfg.StatementTimeout = cfg.StatementTimeout
		store, err = postgres.Open(ctx, poolCfg)
	case config.DriverSQLite:
		store, err = sqlite.Open(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate %s store: %w", cfg.DBDriver, err)
	}
	return store, nil
}

// Services is the wired domain layer.
type Services struct {
	Store     storage.Store
	Products  *catalog_repo.ProductRepo
	Customers *catalog_repo.CustomerRepo
	Audit     audit.HistoryReader
	Ledger    *inventory.Ledger
	Sales     *sales.Service
	Invoices  *invoices.Deriver
	Queries   *queries.Service
	Checkout  *checkout.Service
}

// Options tunes the domain layer.
type Options struct {
	StrictStock bool
}

// NewServices wires repositories and services on top of store.
func NewServices(store storage.Store, opts Options) (*Services, error) {
	db := store.Executor()
	txm := store.TxManager()

	auditRepo, err := audit_repo.New(db)
	if err != nil {
		return nil, fmt.Errorf("create audit repo: %w", err)
	}

	products := catalog_repo.NewProductRepo(db)
	customers := catalog_repo.NewCustomerRepo(db)
	saleRepo := document_repo.NewSaleRepo(db)
	invoiceRepo := document_repo.NewInvoiceRepo(db)

	ledger := inventory.NewLedger(register_repo.NewStockRepo(db), inventory.Options{StrictStock: opts.StrictStock})
	saleService := sales.NewService(saleRepo, ledger, auditRepo, txm)
	deriver := invoices.NewDeriver(invoiceRepo, auditRepo, txm)
	queryService := queries.NewService(saleRepo, invoiceRepo, txm)

	return &Services{
		Store:     store,
		Products:  products,
		Customers: customers,
		Audit:     auditRepo,
		Ledger:    ledger,
		Sales:     saleService,
		Invoices:  deriver,
		Queries:   queryService,
		Checkout:  checkout.NewService(products, customers, saleService, deriver, queryService, txm),
	}, nil
}
