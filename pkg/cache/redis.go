package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultRedisPrefix namespaces cache keys so Clear and Stats only touch
// this application's entries in a shared database.
const defaultRedisPrefix = "cloudweave:"

// RedisOptions configures a Redis-backed cache.
type RedisOptions struct {
	Addr     string // host:port, defaults to localhost:6379
	Password string
	DB       int
	Prefix   string // key namespace, defaults to "cloudweave:"
}

// withDefaults fills in the zero-value fields.
func (o RedisOptions) withDefaults() RedisOptions {
	if o.Addr == "" {
		o.Addr = "localhost:6379"
	}
	if o.Prefix == "" {
		o.Prefix = defaultRedisPrefix
	}
	return o
}

// RedisCache implements a Redis-backed cache for server deployments
// where several processes share one cache. TTLs map to native Redis
// key expirations.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection.
// The initial ping is retried with backoff so a Redis container that is
// still starting up does not fail the whole process.
func NewRedisCache(ctx context.Context, opts RedisOptions) (Cache, error) {
	opts = opts.withDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	err := RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	return &RedisCache{client: client, prefix: opts.Prefix}, nil
}

// Get retrieves a value from the cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value in the cache.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Delete removes a value from the cache.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Clear removes every key under the cache's prefix. Other data in the
// same Redis database is left alone.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Stats counts the keys under the cache's prefix. Redis does not expose
// per-key sizes cheaply, so Bytes stays zero.
func (c *RedisCache) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		stats.Entries++
	}
	return stats, iter.Err()
}

// Close releases the client's connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
