package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-orders/internal/catalog"
	"restaurant-orders/internal/config"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/services/order"
	"restaurant-orders/internal/stats"
	"restaurant-orders/internal/web"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to config file")
		port       = flag.Int("port", 0, "Override listen port")
		catalogDir = flag.String("catalog-dir", "", "Override restaurant catalog directory")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *catalogDir != "" {
		cfg.Catalog.Dir = *catalogDir
	}

	// Create logger
	log := logger.New("order-service")
	requestID := logger.GenerateRequestID()

	log.Info("service_started", requestID, fmt.Sprintf("Starting order service on %s", cfg.Addr()))

	// Load the catalog fully before the server accepts any request, so no
	// request ever observes a partially loaded catalog.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.LoadTimeout())
	cat, err := catalog.Load(loadCtx, cfg.Catalog.Dir, log)
	cancelLoad()
	if err != nil {
		// Keep serving static assets even with no restaurant data.
		log.Error("catalog_load_failed", requestID, "Starting with an empty catalog", err)
		cat = catalog.Empty()
	}
	log.Info("catalog_loaded", requestID, fmt.Sprintf("Loaded %d restaurants from %s", cat.Len(), cfg.Catalog.Dir))

	// Initialize service and handler
	aggregator := stats.NewAggregator()
	service := order.NewService(cat, aggregator, log, cfg.TaxRateDecimal(), cfg.Orders.EnforceMinOrder)
	static := web.NewStaticServer(cfg.Static.Root, log)
	handler := order.NewHandler(service, cat, static, log, cfg.Orders.MaxBodyBytes)

	// Setup HTTP server
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler.SetupRoutes(),
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", requestID, "Received shutdown signal")
		cancel()
	}()

	// Start HTTP server in goroutine
	go func() {
		log.Info("server_listening", requestID, fmt.Sprintf("Server running at http://%s", cfg.Addr()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", requestID, "HTTP server failed", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown_failed", requestID, "HTTP server shutdown failed", err)
		os.Exit(1)
	}

	log.Info("service_stopped", requestID, "Service stopped gracefully")
}
