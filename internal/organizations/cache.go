package organizations

import (
	"context"
	"encoding/json"
	"time"

	"campaign_tracking_backend/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const cacheKey = "orgs:registry"

// Lister provides the registered organizations.
type Lister interface {
	List(ctx context.Context) ([]Organization, error)
}

// CachedLister serves the organization list from Redis with a bounded
// staleness window. Cache misses are deduplicated with singleflight so a
// burst of tracking requests triggers a single database load. Redis being
// unavailable degrades to direct database reads.
type CachedLister struct {
	inner Lister
	redis redis.UniversalClient
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

// NewCachedLister wraps inner with a Redis cache. A nil client disables caching.
func NewCachedLister(inner Lister, client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *CachedLister {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedLister{inner: inner, redis: client, ttl: ttl, log: log}
}

// List returns the registered organizations, cached.
func (c *CachedLister) List(ctx context.Context) ([]Organization, error) {
	if c.redis == nil {
		return c.inner.List(ctx)
	}

	if cached, err := c.redis.Get(ctx, cacheKey).Bytes(); err == nil {
		var orgs []Organization
		if err := json.Unmarshal(cached, &orgs); err == nil {
			return orgs, nil
		}
		// Corrupt entry: drop it and fall through to a fresh load.
		c.redis.Del(ctx, cacheKey)
	}

	result, err, _ := c.group.Do(cacheKey, func() (interface{}, error) {
		orgs, err := c.inner.List(ctx)
		if err != nil {
			return nil, err
		}

		if encoded, err := json.Marshal(orgs); err == nil {
			if err := c.redis.Set(ctx, cacheKey, encoded, c.ttl).Err(); err != nil {
				c.log.Warn("org cache write failed", "error", err)
			}
		}

		return orgs, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]Organization), nil
}

// Invalidate drops the cached registry, forcing the next read to hit the database.
func (c *CachedLister) Invalidate(ctx context.Context) {
	if c.redis != nil {
		c.redis.Del(ctx, cacheKey)
	}
}
