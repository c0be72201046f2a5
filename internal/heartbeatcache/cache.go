// Package heartbeatcache maintains a write-through, non-authoritative view
// of worker liveness in redis. It exists purely as an operator read path;
// the dispatcher's claim decision never consults it, only the repository's
// heartbeat column does.
package heartbeatcache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"jobplane/pkg/logger"
	"jobplane/pkg/redisclient"
)

// Cache mirrors worker liveness with a TTL, independent of the durable
// repository row.
type Cache interface {
	Touch(ctx context.Context, machineName string, now time.Time, ttl time.Duration)
	LastSeen(ctx context.Context, machineName string) (time.Time, bool)
}

type RedisCache struct {
	client *redisclient.Client
}

func NewRedisCache(client *redisclient.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Touch(ctx context.Context, machineName string, now time.Time, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	key := "heartbeat:" + machineName
	if err := c.client.Raw().Set(ctx, key, now.Format(time.RFC3339Nano), ttl).Err(); err != nil {
		logger.Warnf("heartbeat cache write failed machine=%s error=%v", machineName, err)
	}
}

func (c *RedisCache) LastSeen(ctx context.Context, machineName string) (time.Time, bool) {
	if c == nil || c.client == nil {
		return time.Time{}, false
	}
	val, err := c.client.Raw().Get(ctx, "heartbeat:"+machineName).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warnf("heartbeat cache read failed machine=%s error=%v", machineName, err)
		}
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NoopCache disables the cache entirely.
type NoopCache struct{}

func (NoopCache) Touch(context.Context, string, time.Time, time.Duration) {}
func (NoopCache) LastSeen(context.Context, string) (time.Time, bool)      { return time.Time{}, false }
