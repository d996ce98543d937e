// Package redis implements ports.ListingCache on Redis. The cache is
// strictly opt-in and read-through: the facade consults it only when
// installed, and staleness is resolved by the caller-visible Invalidate
// call, never implicitly.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// Cache stores raw listing results under a common key prefix.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the cache.
type Option func(*Cache)

// WithTTL sets an expiration for cached listings. Zero means no expiry;
// entries then live until Invalidate.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithPrefix sets the key prefix for cached listings.
func WithPrefix(prefix string) Option {
	return func(c *Cache) { c.prefix = prefix }
}

// New creates a cache with its own Redis client.
func New(address, password string, db int, opts ...Option) *Cache {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		prefix: "maestro:listing:",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get returns the cached raw result for key, if present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, backend.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cached listing %q: %w", key, err)
	}
	return raw, true, nil
}

// Set stores the raw result for key and tracks the key in an index set
// so Invalidate can drop everything in one pass.
func (c *Cache) Set(ctx context.Context, key string, raw string) error {
	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.key(key), raw, c.ttl)
	pipe.SAdd(ctx, c.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("caching listing %q: %w", key, err)
	}
	return nil
}

// Invalidate drops every cached listing.
func (c *Cache) Invalidate(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, c.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("listing cache index: %w", err)
	}
	pipe := c.client.Pipeline()
	for _, k := range keys {
		pipe.Del(ctx, c.key(k))
	}
	pipe.Del(ctx, c.indexKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidating listings: %w", err)
	}
	return nil
}

func (c *Cache) indexKey() string {
	return c.prefix + "index"
}
