package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLocker implements the per-user recompute lock with SET NX + TTL.
// The TTL bounds lock lifetime if a holder dies mid-recompute; recompute is
// idempotent, so an expired lock at worst costs a redundant pass.
type RedisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{rdb: rdb}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, key, "1", ttl).Result()
}

func (l *RedisLocker) Unlock(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, key).Err()
}
