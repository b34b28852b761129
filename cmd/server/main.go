package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/coding-mage/StockVibe/internal/analytics"
	"github.com/coding-mage/StockVibe/internal/broadcast"
	"github.com/coding-mage/StockVibe/internal/config"
	"github.com/coding-mage/StockVibe/internal/logging"
	"github.com/coding-mage/StockVibe/internal/quote"
	"github.com/coding-mage/StockVibe/internal/redis"
	"github.com/coding-mage/StockVibe/internal/registry"
	"github.com/coding-mage/StockVibe/internal/search"
	"github.com/coding-mage/StockVibe/internal/sentiment"
	"github.com/coding-mage/StockVibe/internal/server"
	"github.com/coding-mage/StockVibe/internal/version"
)

const snapshotTTL = 5 * time.Minute

func setupConfig() *config.Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	if cfg.RedisURL == "" {
		slog.Info("REDIS_URL not set, running without snapshot store and response caches")
		return nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupQuoteBackend(cfg *config.Config) *quote.Resilient {
	var backend quote.Backend
	switch cfg.QuoteBackend {
	case "fake":
		backend = quote.NewFakeBackend(100.0)
	default:
		backend = quote.NewYahooBackend()
	}
	return quote.NewResilient(backend, cfg.QuoteRatePerSecond)
}

func runGracefulShutdown(srv *server.Server, cancelScheduler context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		cancelScheduler()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	info := version.Get()
	slog.Info("Application starting",
		"env", cfg.AppEnv, "port", cfg.Port,
		"version", info.Version, "commit", info.Commit)

	redisClient := setupRedis(context.Background(), cfg)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	provider := setupQuoteBackend(cfg)
	reg := registry.New()

	// Wire the optional Redis-backed pieces. Typed nils must not leak
	// into the interface fields, so assign only when a client exists.
	var (
		sink           broadcast.PriceSink
		snapshots      server.PriceSnapshots
		searchCache    search.Cache
		sentimentCache sentiment.Cache
	)
	if redisClient != nil {
		priceStore := redis.NewPriceStore(redisClient, snapshotTTL)
		sink = priceStore
		snapshots = priceStore
		searchCache = redis.NewResponseCache(redisClient, "search")
		sentimentCache = redis.NewResponseCache(redisClient, "sentiment")
	}

	scheduler := broadcast.NewScheduler(reg, provider, sink, clock, cfg.PollInterval)
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	go scheduler.Run(schedulerCtx)

	srv := server.NewServer(cfg, server.Deps{
		Registry:  reg,
		Clock:     clock,
		Provider:  provider,
		Snapshots: snapshots,
		Analytics: analytics.NewService(provider),
		Sentiment: sentiment.NewService(cfg.NewsAPIKey, sentimentCache),
		Search:    search.NewService(cfg.FinnhubAPIKey, searchCache),
		Redis:     redisClient,
	})

	done := runGracefulShutdown(srv, cancelScheduler)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}
