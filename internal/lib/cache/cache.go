// Package cache stores JSON-encoded values in Redis with a TTL. A Cache
// built without a client is a no-op, so callers never need a nil check.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by GetJSON when the key is absent or caching is off.
var ErrMiss = errors.New("cache: miss")

type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

func (c *Cache) key(k string) string {
	return c.prefix + ":" + k
}

// GetJSON decodes the cached value for k into v.
func (c *Cache) GetJSON(ctx context.Context, k string, v any) error {
	if !c.enabled() {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, c.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", k, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cache decode %s: %w", k, err)
	}
	return nil
}

func (c *Cache) SetJSON(ctx context.Context, k string, v any) error {
	if !c.enabled() {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", k, err)
	}
	if err := c.client.Set(ctx, c.key(k), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", k, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, k string) error {
	if !c.enabled() {
		return nil
	}
	if err := c.client.Del(ctx, c.key(k)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", k, err)
	}
	return nil
}
