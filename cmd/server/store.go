package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"golfbot/internal/participant/service"
	"golfbot/internal/participant/store"
	"golfbot/internal/platform/config"
	"golfbot/internal/platform/database"
	"golfbot/internal/platform/redis"
)

// storeBackend is the selected participant store plus its lifecycle hooks.
type storeBackend struct {
	store      service.Store
	close      func()
	background func(ctx context.Context)
}

func openStore(ctx context.Context, cfg config.Server, log *slog.Logger, reg prometheus.Registerer) (*storeBackend, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if cfg.MigrateOnStart {
			if err := database.RunMigrations(cfg.Database.URL, log); err != nil {
				return nil, err
			}
		}
		pool, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info("using postgres participant store")
		return &storeBackend{
			store: store.NewPostgres(pool.DB()),
			close: func() { _ = pool.Close() },
		}, nil

	case config.BackendRedis:
		client, err := redis.New(ctx, cfg.Redis, redis.NewPoolMetrics(reg))
		if err != nil {
			return nil, err
		}
		log.Info("using redis participant store")
		return &storeBackend{
			store: store.NewRedis(client.Client),
			close: func() { _ = client.Close() },
			background: func(ctx context.Context) {
				every(ctx, 15*time.Second, client.RecordPoolStats)
			},
		}, nil

	case config.BackendMemory:
		log.Info("using in-memory participant store")
		return &storeBackend{
			store: store.NewInMemory(),
			close: func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
