package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheNotAvailable = errors.New("cache not available")
	ErrCacheNotFound     = errors.New("cache key not found")
)

// CacheConfig pairs a key prefix with its TTL.
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

var (
	// StatsCacheConfig covers the aggregation reads (attendance rates,
	// session summaries). Short enough that a correction shows up within
	// minutes even if invalidation misses it.
	StatsCacheConfig = CacheConfig{TTL: 5 * time.Minute, Prefix: "stats:"}

	// RosterCacheConfig covers roster reads behind the reporting views.
	RosterCacheConfig = CacheConfig{TTL: 2 * time.Minute, Prefix: "roster:"}
)

// CacheHelper wraps a redis client with JSON marshalling and a key prefix.
// A nil client is a valid helper: reads miss, writes are dropped.
type CacheHelper struct {
	client *redis.Client
	prefix string
}

func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{client: client, prefix: prefix}
}

func (c *CacheHelper) key(k string) string {
	return c.prefix + k
}

// Get reads a key and unmarshals it into dest. ErrCacheNotFound on a miss.
func (c *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrCacheNotAvailable
	}

	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	switch {
	case err == redis.Nil:
		return ErrCacheNotFound
	case err != nil:
		return fmt.Errorf("cache read: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("cache decode: %w", err)
	}
	return nil
}

// Set marshals value and stores it under the prefixed key.
func (c *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(key), raw, ttl).Err()
}

// Delete drops the given keys.
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}
	return c.client.Del(ctx, prefixed...).Err()
}

// Exists reports whether the key is currently cached.
func (c *CacheHelper) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, ErrCacheNotAvailable
	}

	n, err := c.client.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists: %w", err)
	}
	return n > 0, nil
}

// InvalidatePattern drops every key matching the glob pattern. Walks the
// keyspace with SCAN so a broad pattern never blocks redis the way KEYS would.
func (c *CacheHelper) InvalidatePattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}

	var stale []string
	iter := c.client.Scan(ctx, 0, c.key(pattern), 100).Iterator()
	for iter.Next(ctx) {
		stale = append(stale, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %q: %w", pattern, err)
	}

	if len(stale) == 0 {
		return nil
	}
	return c.client.Del(ctx, stale...).Err()
}

// CacheManager groups the helpers used by the read paths.
type CacheManager struct {
	Stats  *CacheHelper
	Roster *CacheHelper
}

// NewCacheManager creates cache helpers for each configured prefix. A nil
// redis client degrades every helper to pass-through.
func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		Stats:  NewCacheHelper(client, StatsCacheConfig.Prefix),
		Roster: NewCacheHelper(client, RosterCacheConfig.Prefix),
	}
}
