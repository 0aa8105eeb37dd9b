// Package cache stores serialized responses in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every key written by the gateway.
const KeyPrefix = "hydro:"

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache miss")

// RedisCache is a byte-oriented cache over a go-redis client.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New returns a RedisCache writing entries with the given ttl.
func New(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Key builds "hydro:<dataset>[:<part>...]". Parts are query-escaped so a
// ':' inside a request value cannot shift the separators.
func Key(dataset string, parts ...string) string {
	var b strings.Builder
	b.WriteString(KeyPrefix)
	b.WriteString(dataset)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(url.QueryEscape(p))
	}
	return b.String()
}

// Get returns the cached value, or ErrMiss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

// Set stores value under key for the configured ttl.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
