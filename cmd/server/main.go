package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labelcheck/backend/config"
	httpDelivery "github.com/labelcheck/backend/internal/delivery/http"
	"github.com/labelcheck/backend/internal/domain"
	"github.com/labelcheck/backend/internal/infrastructure/cache"
	"github.com/labelcheck/backend/internal/infrastructure/catalog"
	"github.com/labelcheck/backend/internal/infrastructure/history"
	"github.com/labelcheck/backend/internal/logging"
	"github.com/labelcheck/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting LabelCheck backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"catalog", cfg.Catalog.Type,
		"cache_ttl", cfg.Cache.TTL)

	productCatalog, err := newCatalog(cfg, logger)
	if err != nil {
		return err
	}

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	scanHistory, closeHistory, err := newHistory(cfg, logger)
	if err != nil {
		return err
	}
	defer closeHistory()

	scanService := usecase.NewScanService(
		productCatalog,
		memoryCache,
		scanHistory,
		usecase.ScanServiceConfig{
			CacheTTL:         cfg.Cache.TTL,
			MinOCRConfidence: cfg.Scan.MinOCRConfidence,
			MaxAlternatives:  cfg.Scan.MaxAlternatives,
			Logger:           logger,
		},
	)

	handler := httpDelivery.NewHandler(scanService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newCatalog(cfg *config.Config, logger *slog.Logger) (domain.ProductCatalog, error) {
	switch cfg.Catalog.Type {
	case "http":
		client := catalog.NewClient(catalog.ClientConfig{
			BaseURL:           cfg.Catalog.BaseURL,
			APIKey:            cfg.Catalog.APIKey,
			RequestsPerMinute: cfg.RateLimit.Catalog,
			Logger:            logger,
		})
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}
		if cfg.Catalog.APIKey == "" {
			logger.Warn("catalog API key not configured", "base_url", cfg.Catalog.BaseURL)
		}
		logger.Info("remote catalog configured", "base_url", cfg.Catalog.BaseURL)
		return client, nil
	default:
		fileCatalog, err := catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		logger.Info("catalog loaded", "path", cfg.Catalog.Path, "products", fileCatalog.Len())
		return fileCatalog, nil
	}
}

func newHistory(cfg *config.Config, logger *slog.Logger) (domain.ScanRepository, func(), error) {
	if cfg.Scan.HistoryPath == "" {
		logger.Info("scan history kept in memory")
		return history.NewMemoryStore(), func() {}, nil
	}

	store, err := history.Open(cfg.Scan.HistoryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open scan history: %w", err)
	}
	logger.Info("scan history opened", "path", store.Path())
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("close scan history", "error", err)
		}
	}, nil
}
