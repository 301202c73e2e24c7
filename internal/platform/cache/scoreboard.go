package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"contestjam/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const scoreboardKey = "scoreboard:ranked"

// RedisScoreboardCache stores the rendered scoreboard for a short TTL so a
// burst of reads does not trigger a full recompute each time. Best-effort:
// every failure degrades to a cache miss.
type RedisScoreboardCache struct {
	rdb *redis.Client
}

func NewRedisScoreboardCache(rdb *redis.Client) *RedisScoreboardCache {
	return &RedisScoreboardCache{rdb: rdb}
}

func (c *RedisScoreboardCache) Get(ctx context.Context) ([]model.ScoreboardEntry, bool) {
	raw, err := c.rdb.Get(ctx, scoreboardKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("scoreboard cache get failed: %v", err)
		}
		return nil, false
	}
	var entries []model.ScoreboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Printf("scoreboard cache decode failed: %v", err)
		return nil, false
	}
	return entries, true
}

func (c *RedisScoreboardCache) Set(ctx context.Context, entries []model.ScoreboardEntry, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		log.Printf("scoreboard cache encode failed: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, scoreboardKey, raw, ttl).Err(); err != nil {
		log.Printf("scoreboard cache set failed: %v", err)
	}
}
