// Package config loads extractor configuration from an optional YAML file,
// a .env file and the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spherical/textbook-extractor/internal/domain"
)

// Environment variables holding the two collaborator credentials.
const (
	EnvVisionAPIKey = "GOOGLE_CLOUD_VISION_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Config holds all configuration for the extractor.
type Config struct {
	Vision    VisionConfig    `yaml:"vision"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Rate      RateConfig      `yaml:"rate"`
	Retry     RetryConfig     `yaml:"retry"`
	Cache     CacheConfig     `yaml:"cache"`
	Storage   StorageConfig   `yaml:"storage"`
	Document  DocumentConfig  `yaml:"document"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Questions QuestionsConfig `yaml:"questions"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
}

// VisionConfig holds OCR collaborator settings. The key is never read from
// the YAML file.
type VisionConfig struct {
	APIKey           string        `yaml:"-"`
	Endpoint         string        `yaml:"endpoint"`
	LanguageHints    []string      `yaml:"language_hints"`
	DPI              float64       `yaml:"dpi"`
	TextMaxResults   int           `yaml:"text_max_results"`
	ObjectMaxResults int           `yaml:"object_max_results"`
	Timeout          time.Duration `yaml:"timeout"`
}

// GeminiConfig holds generative collaborator settings.
type GeminiConfig struct {
	APIKey      string  `yaml:"-"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// RateConfig configures the call gate shared by all collaborator calls.
type RateConfig struct {
	Interval time.Duration `yaml:"interval"`
	Burst    int           `yaml:"burst"`
}

// RetryConfig configures backoff for transient collaborator failures.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Driver string        `yaml:"driver"` // none, memory or redis
	TTL    time.Duration `yaml:"ttl"`
	Redis  RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis-specific settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// StorageConfig holds the run ledger settings.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DocumentConfig is copied into the metadata block of the document record.
type DocumentConfig struct {
	Board      string `yaml:"board"`
	Class      int    `yaml:"class"`
	Subject    string `yaml:"subject"`
	Medium     string `yaml:"medium"`
	FilePrefix string `yaml:"file_prefix"`
}

// PipelineConfig holds document pipeline settings.
type PipelineConfig struct {
	Chapter string `yaml:"chapter"`
}

// QuestionsConfig holds question extraction settings.
type QuestionsConfig struct {
	MinTextLength      int     `yaml:"min_text_length"`
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	ExercisePrefilter  bool    `yaml:"exercise_prefilter"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads .env, applies defaults, the optional YAML file at path and
// environment overrides, then validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError("read config file", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError("parse config file", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Vision: VisionConfig{
			Endpoint:         "https://vision.googleapis.com/v1/images:annotate",
			LanguageHints:    []string{"gu", "en"},
			DPI:              300,
			TextMaxResults:   100,
			ObjectMaxResults: 20,
			Timeout:          60 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Temperature: 0.3,
		},
		Rate: RateConfig{
			Interval: time.Second,
			Burst:    1,
		},
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialBackoff: time.Second,
			MaxBackoff:     30 * time.Second,
		},
		Cache: CacheConfig{
			Driver: "memory",
			TTL:    24 * time.Hour,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "tx:",
			},
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "textbook-extractor.db",
		},
		Document: DocumentConfig{
			Board:      "GSEB",
			Class:      10,
			Subject:    "Mathematics",
			Medium:     "Gujarati",
			FilePrefix: "gseb_class10_maths",
		},
		Pipeline: PipelineConfig{
			Chapter: "દ્વિચલ સુરેખ સમીકરણયુગ્મ",
		},
		Questions: QuestionsConfig{
			MinTextLength:      100,
			RelevanceThreshold: 0.3,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks settings that do not depend on the command being run.
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "none", "memory", "redis":
	default:
		return domain.ConfigError(fmt.Sprintf("invalid cache driver: %s", c.Cache.Driver), nil)
	}

	if c.Vision.DPI <= 0 {
		return domain.ConfigError(fmt.Sprintf("vision dpi must be positive, got %v", c.Vision.DPI), nil)
	}

	if c.Rate.Interval < 0 || c.Rate.Burst < 1 {
		return domain.ConfigError("rate interval must be >= 0 and burst >= 1", nil)
	}

	if c.Retry.MaxRetries < 0 {
		return domain.ConfigError("max_retries must be >= 0", nil)
	}

	if c.Questions.RelevanceThreshold < 0 || c.Questions.RelevanceThreshold > 1 {
		return domain.ConfigError("relevance_threshold must be between 0 and 1", nil)
	}

	if c.Storage.Enabled && c.Storage.Path == "" {
		return domain.ConfigError("storage path is required when storage is enabled", nil)
	}

	return nil
}

// RequireVision fails when the vision credential is absent.
func (c *Config) RequireVision() error {
	if c.Vision.APIKey == "" {
		return domain.ConfigError(EnvVisionAPIKey+" not found in environment variables", nil)
	}
	return nil
}

// RequireGemini fails when the generative credential is absent.
func (c *Config) RequireGemini() error {
	if c.Gemini.APIKey == "" {
		return domain.ConfigError(EnvGeminiAPIKey+" not found in environment variables", nil)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Vision.APIKey = os.Getenv(EnvVisionAPIKey)
	cfg.Gemini.APIKey = os.Getenv(EnvGeminiAPIKey)

	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}

	if v := os.Getenv("VISION_ENDPOINT"); v != "" {
		cfg.Vision.Endpoint = v
	}

	if v := os.Getenv("RATE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Rate.Interval = d
		}
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.Driver = "redis"
		cfg.Cache.Redis.Addr = strings.TrimPrefix(v, "redis://")
	}

	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}

	if v := os.Getenv("STORAGE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.Enabled = b
		}
	}

	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}

	if v := os.Getenv("CHAPTER_NAME"); v != "" {
		cfg.Pipeline.Chapter = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
