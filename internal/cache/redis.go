package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spherical/textbook-extractor/internal/domain"
)

const (
	defaultRedisPrefix = "tx:"
	redisDialTimeout   = 5 * time.Second
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisClient keeps generative responses in Redis so several runs, or
// several machines, share them.
type RedisClient struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisClient connects and fails fast when the server is unreachable.
func NewRedisClient(cfg RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: redisDialTimeout,
		MaxRetries:  1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, domain.IOError("connect to response cache at "+cfg.Addr, err)
	}

	c := &RedisClient{rdb: rdb, prefix: cfg.Prefix}
	if c.prefix == "" {
		c.prefix = defaultRedisPrefix
	}
	return c, nil
}

func (c *RedisClient) key(k string) string { return c.prefix + k }

func (c *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrCacheMiss
	case err != nil:
		return nil, domain.IOError("read cached response", err)
	}
	return data, nil
}

// Set stores value. A ttl of zero keeps the response until evicted by Redis.
func (c *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return domain.IOError("write cached response", err)
	}
	return nil
}

func (c *RedisClient) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return domain.IOError("drop cached response", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	return c.rdb.Close()
}
