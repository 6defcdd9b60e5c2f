package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/healthshield-server/internal/api"
	"github.com/healthshield-server/internal/cache"
	"github.com/healthshield-server/internal/config"
	"github.com/healthshield-server/internal/database"
	"github.com/healthshield-server/internal/domain"
	"github.com/healthshield-server/internal/notify"
	"github.com/healthshield-server/internal/service"
	"github.com/healthshield-server/internal/store"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(cfg.Logging)
	logger.Infof("Starting HealthShield backend on %s:%d", cfg.Server.Host, cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the report store; postgres runs its migrations here, before
	// any request handling.
	reportStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open report store: %v", err)
	}
	defer reportStore.Close()

	// Report-list page cache
	pageCache, err := openCache(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open page cache: %v", err)
	}
	if pageCache != nil {
		defer pageCache.Close()
	}

	// Outbound alert notifier
	notifier, err := notify.New(cfg.SMS, logger)
	if err != nil {
		log.Fatalf("Failed to create alert notifier: %v", err)
	}

	// Wire the report service over the immutable disease catalog
	scorer := service.NewRiskScorer(domain.DefaultCatalog())
	reports := service.NewReportService(logger, scorer, reportStore, notifier, pageCache, cfg.SMS.AuthorityNumber)

	// Create server
	server := api.NewServer(cfg, reports, reportStore, logger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}

	logger.Info("Server stopped")
}

// openStore builds the configured report store backend.
func openStore(ctx context.Context, cfg *domain.Config, logger *logrus.Logger) (store.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}

		runner, err := database.NewMigrationRunner(cfg.Database.URL, cfg.Database.MigrationsPath, logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		defer runner.Close()

		if err := runner.Up(ctx); err != nil {
			db.Close()
			return nil, err
		}

		return store.NewPostgresStore(db.Pool, logger)
	default:
		return store.NewSQLiteStore(cfg.Database.Path)
	}
}

// openCache builds the configured page cache, or nil when disabled.
func openCache(cfg *domain.Config, logger *logrus.Logger) (cache.PageCache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	if cfg.Cache.Backend == "redis" {
		return cache.NewRedisCache(cfg.Cache, logger)
	}
	return cache.NewLRUCache(cfg.Cache.LocalSize, cfg.Cache.TTL)
}
