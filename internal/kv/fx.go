package kv

import (
	"context"

	"github.com/empresia/walletadmin/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Result struct {
	fx.Out

	Store Store
	// Redis is nil unless the redis backend is selected. The tenant locker
	// reuses the same client for cross-process locks.
	Redis *redis.Client
}

// New selects the persistence backend from configuration.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Result, error) {
	log = log.Named("kv")

	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Info("using in-memory storage backend")
		return Result{Store: NewMemory()}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = ctx
				return client.Close()
			},
		})
		log.Info("using redis storage backend", zap.String("addr", cfg.RedisAddr))
		return Result{Store: NewRedis(client), Redis: client}, nil

	default:
		store, err := NewSQLite(cfg.SQLitePath)
		if err != nil {
			return Result{}, err
		}
		log.Info("using sqlite storage backend", zap.String("path", cfg.SQLitePath))
		return Result{Store: store}, nil
	}
}

// Module wires the key-value persistence port.
var Module = fx.Module("kv",
	fx.Provide(New),
)
