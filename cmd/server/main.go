// Package main is the entry point for the storepos API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storepos/internal/app"
	"storepos/internal/config"
	v1 "storepos/internal/infrastructure/http/v1"
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
		Service:     "storepos-server",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	log.Infow("starting storepos server", "driver", cfg.DBDriver, "strict_stock", cfg.StrictStock)

	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}
	defer func() { _ = store.Close() }()
	log.Info("database connection established")

	svc, err := app.NewServices(store, app.Options{StrictStock: cfg.StrictStock})
	if err != nil {
		log.Fatalw("failed to wire services", "error", err)
	}

	router := v1.NewRouter(v1.RouterConfig{
		Logger:      log,
		Store:       store,
		Checkout:    svc.Checkout,
		Queries:     svc.Queries,
		Invoices:    svc.Invoices,
		Audit:       svc.Audit,
		Development: cfg.IsDevelopment(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
