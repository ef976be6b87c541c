package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/resource"
	"storefront/internal/worker"
	"storefront/internal/worker/processors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The worker shares the gateway's cache store; the memory driver would
	// only evict this process's own copy.
	store, err := cache.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache: %v", err)
	}
	defer store.Close()
	if cfg.CacheDriver == "memory" || cfg.CacheDriver == "" {
		logger.Warn("CACHE_DRIVER=memory: events will not reach the gateway cache")
	}

	client := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	layer := resource.NewLayer(client, store, cfg.CacheTTL, logger)

	// Initialize worker
	w := worker.New(cfg, logger, processors.NewEventProcessor(layer, logger))
	if p, ok := store.Unwrap().(worker.Purger); ok {
		w.WithPurger(p, time.Minute)
	}

	// Start worker
	logger.Info("Starting worker...")
	if err := w.Start(ctx); err != nil {
		logger.Error("Worker stopped: %v", err)
	}

	logger.Info("Shutting down worker...")
	w.Stop()
}
