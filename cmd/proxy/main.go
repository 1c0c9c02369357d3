package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	httpadapter "github.com/yarimitsu/boatsafe-sub000/internal/adapter/http"
	"github.com/yarimitsu/boatsafe-sub000/internal/adapter/noaa"
	"github.com/yarimitsu/boatsafe-sub000/internal/cache"
	"github.com/yarimitsu/boatsafe-sub000/internal/config"
	"github.com/yarimitsu/boatsafe-sub000/internal/observability"
	"github.com/yarimitsu/boatsafe-sub000/internal/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := noaa.NewClient(cfg.UserAgent, cfg.UpstreamTimeout, logger)

	// Rate-limit store (shared via REDIS_ADDR, per-instance otherwise).
	var limitStore ratelimit.Store
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		limitStore = ratelimit.NewRedisStore(redisClient)
		logger.Info("rate limiting against redis", "addr", cfg.RedisAddr)
	} else {
		limitStore = ratelimit.NewMemoryStore(cfg.RateLimitMaxKeys)
		logger.Info("rate limiting in process memory", "max_keys", cfg.RateLimitMaxKeys)
	}

	ready := httpadapter.ReadinessFunc(func(ctx context.Context) error {
		if redisClient != nil {
			return redisClient.Ping(ctx).Err()
		}
		return nil
	})

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:              cfg.HTTPAddr,
		Fetcher:           fetcher,
		Cache:             cache.NewMemory(cfg.CacheMaxEntries),
		CacheEnabled:      cfg.CacheEnabled,
		LimitStore:        limitStore,
		StandardLimit:     cfg.RateLimitPerHour,
		ObservationLimit:  cfg.TideRateLimitPerHour,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Ready:             ready,
		Logger:            logger,
		Metrics:           metrics,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
