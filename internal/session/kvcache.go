package session

import (
	"context"
	"errors"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/mazaohq/mazao-pos-backend/pkg/redis"
)

// MemoryCache is an in-process Cache used in demo mode and tests.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryCache constructs an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]string)}
}

func (c *MemoryCache) GetItem(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.items[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return value, nil
}

func (c *MemoryCache) SetItem(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *MemoryCache) RemoveItem(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// RedisCache namespaces session cache entries per device so two tills
// hydrating from the same Redis never see each other's identity.
type RedisCache struct {
	client   *redis.Client
	deviceID string
	ttl      time.Duration
}

// NewRedisCache wraps the shared redis client for one device's cache slots.
func NewRedisCache(client *redis.Client, deviceID string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, deviceID: deviceID, ttl: ttl}
}

func (c *RedisCache) GetItem(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, c.client.CacheKey(c.deviceID, key))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return value, nil
}

func (c *RedisCache) SetItem(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, c.client.CacheKey(c.deviceID, key), value, c.ttl)
}

func (c *RedisCache) RemoveItem(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.client.CacheKey(c.deviceID, key))
}
