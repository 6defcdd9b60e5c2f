package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/healthshield-server/internal/domain"
	"github.com/healthshield-server/internal/store"
)

// generationKey tracks the current cache generation in Redis.
const generationKey = "healthshield:reports:generation"

// RedisCache implements PageCache backed by Redis, for deployments with
// multiple server replicas sharing one cache.
type RedisCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisCache creates a new Redis-backed page cache.
func NewRedisCache(cfg domain.CacheConfig, logger *logrus.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.PoolTimeout = cfg.PoolTimeout
	opts.MaxRetries = cfg.MaxRetries

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{
		redis:  client,
		ttl:    cfg.TTL,
		logger: logger,
	}, nil
}

// generation reads the current generation counter; a missing key is
// generation zero.
func (c *RedisCache) generation(ctx context.Context) int64 {
	gen, err := c.redis.Get(ctx, generationKey).Int64()
	if err != nil && err != redis.Nil {
		c.logger.WithError(err).Debug("Failed to read cache generation")
	}
	return gen
}

// GetPage returns a cached page, or false on a miss. Cache errors degrade
// to a miss; the caller falls through to the store.
func (c *RedisCache) GetPage(ctx context.Context, page, perPage int) (*store.ReportPage, bool) {
	key := pageKey(c.generation(ctx), page, perPage)

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Debug("Failed to get cached page")
		return nil, false
	}

	var p store.ReportPage
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		c.logger.WithError(err).Debug("Failed to decode cached page")
		return nil, false
	}
	return &p, true
}

// SetPage stores a page for the current generation.
func (c *RedisCache) SetPage(ctx context.Context, page, perPage int, p *store.ReportPage) {
	data, err := json.Marshal(p)
	if err != nil {
		c.logger.WithError(err).Debug("Failed to encode page for cache")
		return
	}

	key := pageKey(c.generation(ctx), page, perPage)
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Debug("Failed to cache page")
	}
}

// Invalidate bumps the generation counter; previously cached pages expire
// via their TTL.
func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.redis.Incr(ctx, generationKey).Err(); err != nil {
		c.logger.WithError(err).Warn("Failed to invalidate page cache")
	}
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.redis.Close()
}
