package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// envelope is the stored representation of a cached response.
// Created is kept so the absolute bound survives sliding refreshes.
type envelope struct {
	Created  time.Time        `json:"created"`
	Response *domain.Response `json:"response"`
}

// Cache implements ports.Cache using Redis, so replicas share solve results.
type Cache struct {
	client *backend.Client
	prefix string
	exp    ports.Expiration
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// WithExpiration overrides the default expiration policy.
func WithExpiration(exp ports.Expiration) Option {
	return func(c *Cache) {
		c.exp = exp
	}
}

// WithClock sets the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a Redis cache connected to address.
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
	c := &Cache{
		client: client,
		prefix: "waterjug:cache:",
		exp:    ports.DefaultExpiration(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.Cache = (*Cache)(nil)

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// ttl converts a deadline into a Redis expiration. 0 means no expiration.
func ttl(deadline, now time.Time) time.Duration {
	if deadline.IsZero() {
		return 0
	}
	return deadline.Sub(now)
}

// Get loads the response and pushes its sliding deadline forward.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Response, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	// Undecodable entries are dropped so the next Set can replace them.
	var env envelope
	if err := json.Unmarshal(val, &env); err != nil || env.Response == nil {
		if delErr := c.client.Del(ctx, c.key(key)).Err(); delErr != nil {
			return nil, fmt.Errorf("failed to drop corrupt entry: %w", delErr)
		}
		return nil, domain.ErrCacheMiss
	}

	now := c.now()
	if deadline := c.exp.Deadline(env.Created, now); !deadline.IsZero() {
		if !now.Before(deadline) {
			_ = c.client.Del(ctx, c.key(key)).Err()
			return nil, domain.ErrCacheMiss
		}
		if err := c.client.Expire(ctx, c.key(key), deadline.Sub(now)).Err(); err != nil {
			return nil, fmt.Errorf("failed to refresh expiration: %w", err)
		}
	}

	return env.Response, nil
}

// Set stores resp with the cache's expiration policy.
func (c *Cache) Set(ctx context.Context, key string, resp *domain.Response) error {
	now := c.now()
	data, err := json.Marshal(envelope{Created: now, Response: resp})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if err := c.client.Set(ctx, c.key(key), data, ttl(c.exp.Deadline(now, now), now)).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes the entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Ping checks connectivity with the backend.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
