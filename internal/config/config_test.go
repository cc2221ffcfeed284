package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/textbook-extractor/internal/domain"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		EnvVisionAPIKey, EnvGeminiAPIKey, "GEMINI_MODEL", "VISION_ENDPOINT", "RATE_INTERVAL",
		"REDIS_URL", "STORAGE_PATH", "STORAGE_ENABLED", "OUTPUT_DIR", "CHAPTER_NAME", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, []string{"gu", "en"}, cfg.Vision.LanguageHints)
	assert.Equal(t, float64(300), cfg.Vision.DPI)
	assert.Equal(t, time.Second, cfg.Rate.Interval)
	assert.Equal(t, 100, cfg.Questions.MinTextLength)
	assert.InDelta(t, 0.3, cfg.Questions.RelevanceThreshold, 1e-9)
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gemini:
  model: gemini-2.5-flash
rate:
  interval: 250ms
questions:
  exercise_prefilter: true
cache:
  driver: none
`), 0o644))

	t.Setenv(EnvGeminiAPIKey, "g-key")
	t.Setenv("REDIS_URL", "redis://cache:6379")
	t.Setenv("CHAPTER_NAME", "ત્રિકોણ")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 250*time.Millisecond, cfg.Rate.Interval)
	assert.True(t, cfg.Questions.ExercisePrefilter)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "ત્રિકોણ", cfg.Pipeline.Chapter)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, domain.IsType(err, domain.ErrorTypeConfig))
}

func TestRequireCredentials(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	err = cfg.RequireVision()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvVisionAPIKey)
	assert.Error(t, cfg.RequireGemini())

	cfg.Vision.APIKey = "v"
	cfg.Gemini.APIKey = "g"
	assert.NoError(t, cfg.RequireVision())
	assert.NoError(t, cfg.RequireGemini())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"cache driver", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"dpi", func(c *Config) { c.Vision.DPI = 0 }},
		{"burst", func(c *Config) { c.Rate.Burst = 0 }},
		{"threshold", func(c *Config) { c.Questions.RelevanceThreshold = 1.5 }},
		{"storage path", func(c *Config) { c.Storage.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
