// Package main provides a CLI tool for seeding the store with demo products
// and customers.
package main

import (
	"context"
	"fmt"
	"os"

	"storepos/internal/app"
	"storepos/internal/config"
	"storepos/internal/core/types"
	"storepos/internal/domain/customers"
	"storepos/internal/domain/inventory"
	"storepos/pkg/logger"
)

type demoProduct struct {
	name, description string
	selling, buying   string
	discountPct       string
	stock             int64
}

var demoProducts = []demoProduct{
	{"Espresso beans 1kg", "Dark roast", "24.90", "15.10", "0", 40},
	{"Oat milk 1l", "Barista edition", "2.49", "1.20", "10", 120},
	{"Paper cups (50)", "8oz, compostable", "6.00", "3.10", "0", 60},
	{"Croissant", "Baked daily", "1.80", "0.65", "0", 36},
	{"Gift card", "Fixed value", "25.00", "25.00", "0", 500},
}

var demoCustomers = []customers.Customer{
	{Name: "Ada Lovelace", ContactInfo: "ada@example.org"},
	{Name: "Grace Hopper", ContactInfo: "+1 555 0100"},
	{Name: "Alan Turing"},
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
		Service:     "storepos-seed",
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	ctx := context.Background()
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}
	defer func() { _ = store.Close() }()

	svc, err := app.NewServices(store, app.Options{})
	if err != nil {
		log.Fatalw("failed to wire services", "error", err)
	}

	existing, err := svc.Products.List(ctx, 1, 0)
	if err != nil {
		log.Fatalw("failed to inspect catalog", "error", err)
	}
	if len(existing) > 0 {
		log.Info("catalog already seeded, nothing to do")
		return
	}

	err = store.TxManager().RunInTransaction(ctx, func(ctx context.Context) error {
		for _, d := range demoProducts {
			p := &inventory.Product{
				Name:               d.name,
				Description:        d.description,
				SellingPrice:       types.MustMoney(d.selling),
				PurchasingPrice:    types.MustMoney(d.buying),
				StockQuantity:      d.stock,
				DiscountPercentage: types.MustMoney(d.discountPct),
				ManualDiscount:     types.Zero(),
			}
			if err := svc.Products.Create(ctx, p); err != nil {
				return fmt.Errorf("product %q: %w", d.name, err)
			}
			log.Infow("product created", "id", p.ID, "name", p.Name)
		}
		for i := range demoCustomers {
			c := demoCustomers[i]
			if err := svc.Customers.Create(ctx, &c); err != nil {
				return fmt.Errorf("customer %q: %w", c.Name, err)
			}
			log.Infow("customer created", "id", c.ID, "name", c.Name)
		}
		return nil
	})
	if err != nil {
		log.Fatalw("failed to seed demo data", "error", err)
	}

	log.Info("seeding completed successfully")
}
