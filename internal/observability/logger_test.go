package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARNING "))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "debug", Format: "json", Output: &buf, ServiceName: "svc"})

	log.With().Str("stage", "summarization").Logger().
		Warn().Int("page", 4).Err(errors.New("boom")).Msg("summary failed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "svc", line["service"])
	assert.Equal(t, "summarization", line["stage"])
	assert.Equal(t, float64(4), line["page"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "summary failed", line["message"])
	assert.Equal(t, "warn", line["level"])
}

func TestLevelFiltersEvents(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "error", Format: "json", Output: &buf})

	log.Info().Str("k", "v").Msg("hidden")
	assert.Zero(t, buf.Len())

	log.WithOperation("render").Error().Msg("shown")
	assert.Contains(t, buf.String(), `"operation":"render"`)
}

func TestNopDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Info().Str("a", "b").Ints("n", []int{1}).Msgf("x %d", 1)
	})
}
