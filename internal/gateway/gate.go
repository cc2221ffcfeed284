package gateway

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate spaces collaborator calls. Every call site waits on the same Gate, so
// the spacing holds across stages and across both collaborators.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate allows one call per interval with the given burst. A non-positive
// interval disables spacing.
func NewGate(interval time.Duration, burst int) *Gate {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Gate{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until the next call may proceed or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
