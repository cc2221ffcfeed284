package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/textbook-extractor/internal/cache"
	"github.com/spherical/textbook-extractor/internal/domain"
)

type stubGenerator struct {
	calls int
	resp  string
	err   error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.resp, s.err
}

type stubVision struct{ calls int }

func (s *stubVision) Annotate(ctx context.Context, image []byte) (*domain.VisionResult, error) {
	s.calls++
	return &domain.VisionResult{Text: "લખાણ", HasTextAnnotations: true}, nil
}

func TestGenerateCountsBeforeCall(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota")}
	gw := New(nil, gen, Options{})

	var c domain.Counters
	_, err := gw.Generate(context.Background(), "p", &c)
	require.Error(t, err)
	assert.Equal(t, 1, c.GenerativeCalls)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateCacheHitIsFree(t *testing.T) {
	gen := &stubGenerator{resp: "ઉત્તર"}
	gw := New(nil, gen, Options{Cache: cache.NewMemoryClient(0), CacheTTL: time.Hour, Model: "m"})

	var c domain.Counters
	for i := 0; i < 3; i++ {
		out, err := gw.Generate(context.Background(), "same prompt", &c)
		require.NoError(t, err)
		assert.Equal(t, "ઉત્તર", out)
	}
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, c.GenerativeCalls)
}

func TestAnnotateCounts(t *testing.T) {
	v := &stubVision{}
	gw := New(v, nil, Options{})

	var c domain.Counters
	_, err := gw.Annotate(context.Background(), []byte("img"), &c)
	require.NoError(t, err)
	assert.Equal(t, domain.Counters{VisionCalls: 1}, c)
}

func TestMissingCollaborator(t *testing.T) {
	gw := New(nil, nil, Options{})
	var c domain.Counters

	_, err := gw.Annotate(context.Background(), nil, &c)
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
	_, err = gw.Generate(context.Background(), "p", &c)
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
	assert.Zero(t, c.Total())
}

func TestGateSpacesCalls(t *testing.T) {
	g := NewGate(20*time.Millisecond, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, g.Wait(ctx))
	}
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestGateHonorsCancellation(t *testing.T) {
	g := NewGate(time.Hour, 1)
	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, g.Wait(ctx))
}

func TestGateCancelledCallNotCounted(t *testing.T) {
	gen := &stubGenerator{resp: "x"}
	gw := New(nil, gen, Options{Gate: NewGate(time.Hour, 1)})

	var c domain.Counters
	_, err := gw.Generate(context.Background(), "a", &c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gw.Generate(ctx, "b", &c)
	assert.Error(t, err)
	assert.Equal(t, 1, c.GenerativeCalls)
}
