// Package cache stores generative responses keyed by model and prompt so
// re-running a document does not repeat identical calls.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrCacheMiss indicates a cache miss.
var ErrCacheMiss = errors.New("cache miss")

// Client defines the cache interface.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a cache backend.
type Config struct {
	Driver string // none, memory or redis
	Redis  RedisConfig
}

// New builds the client named by cfg.Driver. The "none" driver returns a nil
// Client, which callers treat as caching disabled.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryClient(0), nil
	case "redis":
		c, err := NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Key derives a fixed-length key for a generative request.
func Key(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "gen:" + hex.EncodeToString(sum[:])
}
