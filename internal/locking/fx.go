package locking

import (
	"github.com/empresia/walletadmin/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// New picks the locker matching the storage backend: in-process mutexes for
// memory and sqlite, a Redis lock when the data itself lives in Redis.
func New(cfg config.Config, client *redis.Client) (TenantLocker, error) {
	if cfg.StorageBackend == config.BackendRedis {
		return NewRedisLocker(client, cfg.AppName)
	}
	return NewMemoryLocker(), nil
}

// Module wires the per-tenant write lock.
var Module = fx.Module("locking",
	fx.Provide(New),
)
