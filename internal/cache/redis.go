package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RouteMatchCache caches the set of route IDs matching a from/to stop pair.
// A nil *RouteMatchCache is valid and behaves as a cache that always misses,
// so callers never need to branch on whether caching is enabled.
type RouteMatchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRouteMatchCache connects to Redis and returns a cache, or nil when the
// connection cannot be established (the service degrades to uncached lookups).
func NewRouteMatchCache(addr, password string, db int, ttl time.Duration, logger *logrus.Logger) *RouteMatchCache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unavailable, route match caching disabled")
		client.Close()
		return nil
	}

	return &RouteMatchCache{client: client, ttl: ttl, logger: logger}
}

// Key builds a deterministic cache key for a from/to stop pair.
// Stop names are case-insensitive, so the key is normalized to lowercase.
func Key(from, to string) string {
	data := fmt.Sprintf("%s|%s", strings.ToLower(strings.TrimSpace(from)), strings.ToLower(strings.TrimSpace(to)))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("routematch:%x", hash[:8])
}

// Get returns the cached route IDs for a key, or (nil, false) on a miss.
// Errors are logged and treated as misses.
func (c *RouteMatchCache) Get(ctx context.Context, key string) ([]string, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("Route match cache read failed")
		return nil, false
	}

	var routeIDs []string
	if err := json.Unmarshal(data, &routeIDs); err != nil {
		c.logger.WithError(err).Warn("Route match cache entry corrupt, ignoring")
		return nil, false
	}
	return routeIDs, true
}

// Set stores the route IDs for a key. Failures are logged, not returned:
// a broken cache must never fail a search.
func (c *RouteMatchCache) Set(ctx context.Context, key string, routeIDs []string) {
	if c == nil {
		return
	}

	data, err := json.Marshal(routeIDs)
	if err != nil {
		c.logger.WithError(err).Warn("Route match cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Route match cache write failed")
	}
}

// Invalidate drops all cached route matches. Called when routes change.
func (c *RouteMatchCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, "routematch:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.WithError(err).Warn("Route match cache invalidation failed")
			return
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.WithError(err).Warn("Route match cache scan failed")
	}
}

// HealthCheck pings Redis. A nil cache reports healthy (caching disabled).
func (c *RouteMatchCache) HealthCheck(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *RouteMatchCache) Close() {
	if c == nil {
		return
	}
	c.client.Close()
}
