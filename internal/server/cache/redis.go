// Package cache keeps the site catalog listing in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/edupass/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// SitesKey holds the JSON-encoded catalog listing.
const SitesKey = "sites:all"

// redisClient is the subset of *redis.Client used here.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// SiteCache stores the site listing under SitesKey with a TTL.
type SiteCache struct {
	rdb redisClient
	ttl time.Duration
}

// NewSiteCache wraps rdb. A zero ttl keeps entries until invalidated.
func NewSiteCache(rdb *redis.Client, ttl time.Duration) *SiteCache {
	return newSiteCache(rdb, ttl)
}

func newSiteCache(rdb redisClient, ttl time.Duration) *SiteCache {
	return &SiteCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached listing; ok is false on a miss.
func (c *SiteCache) Get(ctx context.Context) ([]*models.Site, bool, error) {
	raw, err := c.rdb.Get(ctx, SitesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var sites []*models.Site
	if err := json.Unmarshal(raw, &sites); err != nil {
		return nil, false, fmt.Errorf("decode cached sites: %w", err)
	}
	return sites, true, nil
}

// Set replaces the cached listing.
func (c *SiteCache) Set(ctx context.Context, sites []*models.Site) error {
	if sites == nil {
		sites = []*models.Site{}
	}
	raw, err := json.Marshal(sites)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, SitesKey, raw, c.ttl).Err()
}

// Invalidate drops the cached listing.
func (c *SiteCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, SitesKey).Err()
}
