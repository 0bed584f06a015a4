package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

// RedisCache stores validation results in Redis so multiple agent
// instances can share one cache. Expiry is handled server-side via key
// TTL; eviction is delegated to the Redis maxmemory policy, so the
// evictions counter stays zero here.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zerolog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, logger *zerolog.Logger) *RedisCache {
	if prefix == "" {
		prefix = "validation"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisCache) key(validatorID, input string, vctx map[string]any) string {
	return c.prefix + ":" + Key(validatorID, input, vctx)
}

func (c *RedisCache) Get(ctx context.Context, validatorID, input string, vctx map[string]any) (models.ValidationResult, bool) {
	raw, err := c.client.Get(ctx, c.key(validatorID, input, vctx)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("cache read failed")
		}
		c.misses.Add(1)
		return models.ValidationResult{}, false
	}

	var result models.ValidationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.Warn().Err(err).Msg("cache entry corrupt, treating as miss")
		c.misses.Add(1)
		return models.ValidationResult{}, false
	}

	c.hits.Add(1)
	return result, true
}

func (c *RedisCache) Put(ctx context.Context, validatorID, input string, vctx map[string]any, result models.ValidationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to serialize validation result for cache")
		return
	}

	if err := c.client.Set(ctx, c.key(validatorID, input, vctx), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache write failed")
	}
}

func (c *RedisCache) Clear(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", iter.Val()).Msg("cache delete failed")
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("cache clear scan failed")
	}
}

func (c *RedisCache) Stats() Stats {
	size := 0
	ctx := context.Background()

	iter := c.client.Scan(ctx, 0, c.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		size++
	}

	return Stats{
		Size:   size,
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

func (c *RedisCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}
