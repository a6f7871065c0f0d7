package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/logger"
	"github.com/go-redis/redis/v8"
)

type cachedEntry struct {
	Composition *composer.Composition `json:"composition"`
	CachedAt    int64                 `json:"cached_at"`
}

// RedisCache keeps compositions as JSON values with a fixed TTL
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	hits   int64
	misses int64
}

// NewRedisCache wraps an existing client
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Connect parses a redis:// URL, checks the server is reachable and returns a cache
func Connect(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisCache(rdb, ttl), nil
}

// Get returns the cached composition for key. A missing key is not an error.
func (c *RedisCache) Get(ctx context.Context, key string) (*composer.Composition, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis error: %w", err)
	}

	var entry cachedEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, fmt.Errorf("failed to parse cached composition: %w", err)
	}
	if entry.Composition == nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}

	atomic.AddInt64(&c.hits, 1)
	logger.Debug("Composition cache hit", logger.Fields{
		"key":       key,
		"cached_at": entry.CachedAt,
	})
	return entry.Composition, true, nil
}

// Set stores a composition under key
func (c *RedisCache) Set(ctx context.Context, key string, comp *composer.Composition) error {
	data, err := json.Marshal(cachedEntry{Composition: comp, CachedAt: time.Now().Unix()})
	if err != nil {
		return fmt.Errorf("failed to serialize composition: %w", err)
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache composition: %w", err)
	}
	return nil
}

// Stats returns the hit and miss counters
func (c *RedisCache) Stats() Stats {
	return newStats("redis", atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses))
}

// Close releases the underlying client
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
