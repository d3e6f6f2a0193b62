package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/waterjug"
	"github.com/aretw0/waterjug/internal/config"
	"github.com/aretw0/waterjug/internal/logging"
	httpAdapter "github.com/aretw0/waterjug/pkg/adapters/http"
	"github.com/aretw0/waterjug/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/waterjug/pkg/adapters/redis"
	"github.com/aretw0/waterjug/pkg/observability"
	"github.com/aretw0/waterjug/pkg/ports"
	"github.com/spf13/cobra"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *waterjug.Service
	metrics *observability.Metrics
	checks  map[string]httpAdapter.HealthCheck
	closers []func() error

	memCache *memory.Cache
}

// loadConfig reads the --config flag and builds the configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// newApp wires logging, caching and metrics from cfg.
func newApp(cfg *config.Config) (*app, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.New(level, cfg.Log.Format)

	a := &app{
		cfg:    cfg,
		logger: logger,
		checks: make(map[string]httpAdapter.HealthCheck),
	}

	opts := []waterjug.Option{waterjug.WithLogger(logger)}

	exp := ports.Expiration{Absolute: cfg.Cache.Absolute, Sliding: cfg.Cache.Sliding}
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		a.memCache = memory.NewCache(memory.WithExpiration(exp))
		stop := a.memCache.StartJanitor(cfg.Cache.PruneInterval)
		a.closers = append(a.closers, func() error {
			stop()
			return nil
		})
		opts = append(opts, waterjug.WithCache(a.memCache))
	case config.CacheRedis:
		cache := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithPrefix(cfg.Redis.Prefix+"cache:"),
			redisAdapter.WithExpiration(exp),
		)
		if err := cache.Ping(context.Background()); err != nil {
			logger.Warn("Redis unreachable at startup, requests will be solved uncached", "addr", cfg.Redis.Addr, "error", err)
		}
		a.checks["redis"] = cache.Ping
		a.closers = append(a.closers, cache.Close)
		opts = append(opts, waterjug.WithCache(cache))
	case config.CacheNone:
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	if cfg.Metrics.Enabled {
		a.metrics = observability.NewMetrics()
		opts = append(opts, waterjug.WithMetrics(a.metrics))
	}

	a.service = waterjug.New(opts...)
	return a, nil
}

// handler builds the HTTP API for the wired service.
func (a *app) handler() http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(a.logger),
		httpAdapter.WithEnvironment(a.cfg.Environment),
		httpAdapter.WithRequestTimeout(a.cfg.Server.RequestTimeout),
	}
	if a.metrics != nil {
		opts = append(opts, httpAdapter.WithMetricsHandler(a.metrics.Handler()))
	}
	for name, check := range a.checks {
		opts = append(opts, httpAdapter.WithHealthCheck(name, check))
	}
	return httpAdapter.NewHandler(a.service, opts...)
}

// Close releases backend connections.
func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("Close failed", "error", err)
		}
	}
}
