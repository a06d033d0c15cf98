// Package main is the entry point for the storepos background worker.
// It issues invoices for sales whose derivation failed after commit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"storepos/internal/app"
	"storepos/internal/config"
	"storepos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
		Service:     "storepos-worker",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infow("starting storepos worker",
		"driver", cfg.DBDriver,
		"interval", cfg.WorkerInterval,
		"batch", cfg.WorkerBatch,
	)

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}
	defer func() { _ = store.Close() }()

	svc, err := app.NewServices(store, app.Options{StrictStock: cfg.StrictStock})
	if err != nil {
		log.Fatalw("failed to wire services", "error", err)
	}

	reconciler := app.NewReconciler(svc.Queries, svc.Checkout, log, cfg.WorkerInterval, cfg.WorkerBatch)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		reconciler.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}
