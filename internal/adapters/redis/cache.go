// Package redis caches expanded documents so the document server does not
// re-run expansion on every request.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/tessera/pkg/domain"
)

// Cache stores expansions keyed by document path.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration for cached expansions.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix for cached expansions.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a Redis cache with its own client.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: "tessera:page:",
		ttl:    5 * time.Minute,
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *Cache) key(path string) string {
	return c.prefix + path
}

// Get returns the cached expansion for a document path. The second return
// is false on a miss.
func (c *Cache) Get(ctx context.Context, path string) (domain.Expansion, bool, error) {
	val, err := c.client.Get(ctx, c.key(path)).Result()
	if err != nil {
		if err == backend.Nil {
			return domain.Expansion{}, false, nil
		}
		return domain.Expansion{}, false, fmt.Errorf("failed to read from redis: %w", err)
	}

	var exp domain.Expansion
	if err := json.Unmarshal([]byte(val), &exp); err != nil {
		return domain.Expansion{}, false, fmt.Errorf("failed to unmarshal cached expansion: %w", err)
	}
	return exp, true, nil
}

// Set stores the expansion for a document path with the cache TTL.
func (c *Cache) Set(ctx context.Context, path string, exp domain.Expansion) error {
	data, err := json.Marshal(exp)
	if err != nil {
		return fmt.Errorf("failed to marshal expansion: %w", err)
	}
	if err := c.client.Set(ctx, c.key(path), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached expansion for a document path.
func (c *Cache) Invalidate(ctx context.Context, path string) error {
	if err := c.client.Del(ctx, c.key(path)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
