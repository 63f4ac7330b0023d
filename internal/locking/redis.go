package locking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

const (
	lockTTL       = 5 * time.Second
	lockRetryWait = 20 * time.Millisecond
)

// RedisLocker serializes tenant writes across processes sharing one Redis.
// The token-checked release keeps an expired holder from deleting a lock it
// no longer owns.
type RedisLocker struct {
	client *redis.Client
	script *redis.Script
	prefix string
}

func NewRedisLocker(client *redis.Client, prefix string) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("lock client is required")
	}
	return &RedisLocker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
		prefix: prefix,
	}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, tenantID string) (func(), error) {
	if tenantID == "" {
		return nil, errors.New("lock tenant is empty")
	}

	key := l.prefix + ":lock:" + tenantID
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = l.script.Run(releaseCtx, l.client, []string{key}, token).Err()
	}
	return release, nil
}
