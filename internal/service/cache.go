package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"core/internal/utils"

	"github.com/redis/go-redis/v9"
)

// ResultCache is a read-through cache for assembled search responses.
// Implementations must be safe for concurrent use. There is no invalidation;
// staleness is bounded by the TTL only.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// PromptCacheKey builds the deterministic cache key for prompt-driven
// searches. Text fields are trimmed and lowercased; coordinates are fixed to
// 6 decimals so float representation noise cannot split entries.
func PromptCacheKey(query, location string, radiusM int, coords *Coordinates) string {
	parts := []string{
		"llm",
		strings.ToLower(strings.TrimSpace(query)),
		strings.ToLower(strings.TrimSpace(location)),
		strconv.Itoa(radiusM),
	}
	if coords != nil {
		parts = append(parts, utils.FormatFixed6(coords.Lat), utils.FormatFixed6(coords.Lng))
	}
	return strings.Join(parts, "|")
}

// QueryCacheKey builds the deterministic cache key for direct query searches
func QueryCacheKey(query string, coords *Coordinates) string {
	latPart, lngPart := "", ""
	if coords != nil {
		latPart = utils.FormatFixed6(coords.Lat)
		lngPart = utils.FormatFixed6(coords.Lng)
	}
	return strings.Join([]string{"places", strings.ToLower(strings.TrimSpace(query)), latPart, lngPart}, "|")
}

// MemoryCache is the default in-process cache backend
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached value when present and not expired. Expired entries
// are removed on access.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

// Set stores a value with the given TTL
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// RedisCache is the shared cache backend for multi-instance deployments
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed cache from a redis:// URL
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opt)}, nil
}

// Get returns the cached value when present
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores a value with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Close releases the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
