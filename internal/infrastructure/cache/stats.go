package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"digilib-backend/internal/domain/loanrequest"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigFastest

// StatsCache keeps aggregate counts in redis under an expiry. Redis failures
// degrade to cache misses; the caller recomputes from the database.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsCache{rdb: rdb, ttl: ttl}
}

func (c *StatsCache) Get(ctx context.Context, key string) (*loanrequest.Stats, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("stats cache get %s: %v", key, err)
		return nil, false
	}
	var s loanrequest.Stats
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Printf("stats cache decode %s: %v", key, err)
		return nil, false
	}
	return &s, true
}

func (c *StatsCache) Set(ctx context.Context, key string, s *loanrequest.Stats) {
	raw, err := json.Marshal(s)
	if err != nil {
		log.Printf("stats cache encode %s: %v", key, err)
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("stats cache set %s: %v", key, err)
	}
}

func (c *StatsCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("stats cache invalidate %v: %v", keys, err)
	}
}
