package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/api"
	"storefront/internal/apiclient"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/resource"
	"storefront/internal/services"
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

	// Initialize cache
	store, err := cache.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache: %v", err)
	}
	defer store.Close()

	// Initialize remote API access
	client := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	layer := resource.NewLayer(client, store, cfg.CacheTTL, logger)
	svc := services.New(layer, logger)

	// Initialize API server
	server := api.New(cfg, logger, layer, svc, store)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}
}
