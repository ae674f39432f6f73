package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/vietddude/stylelog"

	"github.com/bytemint/minty/internal/api"
	"github.com/bytemint/minty/internal/core/config"
	"github.com/bytemint/minty/internal/infra/chain"
	"github.com/bytemint/minty/internal/infra/indexer"
	"github.com/bytemint/minty/internal/infra/metadata"
	"github.com/bytemint/minty/internal/infra/session"
	"github.com/bytemint/minty/internal/infra/storage/postgres"
	"github.com/bytemint/minty/internal/market"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load .env if present, then configuration (env vars feed config expansion)
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Fall back to default logger for config load errors
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(
		&tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})
	slog.Info("Logger initialized", "level", slogLevel.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Chain client
	retry := chain.DefaultRetryConfig
	if cfg.Chain.MaxRetries > 0 {
		retry.MaxAttempts = cfg.Chain.MaxRetries
	}
	chainClient, err := chain.NewClient(cfg.Chain.RPCURL, cfg.Chain.MarketplaceAddress,
		cfg.Chain.RequestTimeout, retry)
	if err != nil {
		slog.Error("Failed to initialize chain client", "error", err)
		os.Exit(1)
	}
	defer chainClient.Close()

	// Ownership indexer and metadata resolver
	idx := indexer.NewClient(cfg.Indexer.URL, cfg.Indexer.APIKey,
		cfg.Indexer.PageSize, cfg.Indexer.RequestTimeout)
	resolver := metadata.NewResolver(cfg.Metadata.IPFSGateway,
		cfg.Metadata.PlaceholderImage, cfg.Metadata.RequestTimeout)

	engine := market.NewEngine(chainClient, idx, resolver, cfg.Chain.SnapshotFanout)

	// Database
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Sessions: Redis when configured, in-memory otherwise
	var sessions session.Store
	if cfg.Redis.URL != "" {
		redisStore, err := session.NewRedisStore(cfg.Redis)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		slog.Warn("No redis URL configured, using in-memory sessions")
		sessions = session.NewMemoryStore()
	}

	server := api.NewServer(cfg.Server.Port, engine,
		postgres.NewUserRepo(db), postgres.NewNFTRepo(db), postgres.NewOfferRepo(db),
		sessions, db, cfg.Chain, cfg.Session.TTL)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Handle OS Signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
	case err := <-errCh:
		if err != nil {
			slog.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graceful Shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}
