// Package gateway is the single path to the external collaborators. It
// applies the call gate, counts calls and consults the response cache.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/spherical/textbook-extractor/internal/cache"
	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// Options configures a Gateway. Zero values disable the respective feature.
type Options struct {
	Gate     *Gate
	Cache    cache.Client
	CacheTTL time.Duration
	// Model namespaces cache keys so switching models never serves stale text.
	Model  string
	Logger *observability.Logger
}

// Gateway wraps the vision and generative collaborators.
type Gateway struct {
	vision domain.VisionAnnotator
	gen    domain.Generator
	gate   *Gate
	cache  cache.Client
	ttl    time.Duration
	model  string
	log    *observability.Logger
}

// New creates a Gateway. Either collaborator may be nil when a command does
// not need it; calling through a nil collaborator returns an error.
func New(vision domain.VisionAnnotator, gen domain.Generator, opts Options) *Gateway {
	log := opts.Logger
	if log == nil {
		log = observability.Nop()
	}
	gate := opts.Gate
	if gate == nil {
		gate = NewGate(0, 1)
	}
	return &Gateway{
		vision: vision,
		gen:    gen,
		gate:   gate,
		cache:  opts.Cache,
		ttl:    opts.CacheTTL,
		model:  opts.Model,
		log:    log.WithOperation("gateway"),
	}
}

// Annotate runs OCR on one page image. The vision counter is incremented
// before the request is sent.
func (g *Gateway) Annotate(ctx context.Context, image []byte, c *domain.Counters) (*domain.VisionResult, error) {
	if g.vision == nil {
		return nil, domain.ConfigError("vision collaborator is not configured", nil)
	}
	if err := g.gate.Wait(ctx); err != nil {
		return nil, err
	}
	c.VisionCalls++
	return g.vision.Annotate(ctx, image)
}

// Generate sends prompt to the generative collaborator. A cached response
// is returned without waiting on the gate and without counting a call.
func (g *Gateway) Generate(ctx context.Context, prompt string, c *domain.Counters) (string, error) {
	if g.gen == nil {
		return "", domain.ConfigError("generative collaborator is not configured", nil)
	}

	key := cache.Key(g.model, prompt)
	if g.cache != nil {
		data, err := g.cache.Get(ctx, key)
		if err == nil {
			g.log.Debug().Str("key", key).Msg("cache hit")
			return string(data), nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			g.log.Warn().Err(err).Msg("cache read failed")
		}
	}

	if err := g.gate.Wait(ctx); err != nil {
		return "", err
	}
	c.GenerativeCalls++

	resp, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if g.cache != nil && resp != "" {
		if err := g.cache.Set(ctx, key, []byte(resp), g.ttl); err != nil {
			g.log.Warn().Err(err).Msg("cache write failed")
		}
	}

	return resp, nil
}
