// Package llm wraps the Gemini generative API and decodes its JSON answers.
package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	// BaseURL overrides the API endpoint. Empty means the public endpoint.
	BaseURL string
}

// GeminiClient implements domain.Generator on top of the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	log         *observability.Logger
}

// NewGeminiClient creates a client for the Gemini API backend.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, log *observability.Logger) (*GeminiClient, error) {
	if log == nil {
		log = observability.Nop()
	}
	if cfg.APIKey == "" {
		return nil, domain.ConfigError("gemini api key is required", nil)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, domain.APIError("failed to create gemini client", err)
	}

	return &GeminiClient{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         log.WithOperation("gemini"),
	}, nil
}

// Generate sends a single user prompt and returns the concatenated text of
// the response. Failures are not retried.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		},
	}, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", domain.APIError("gemini generate failed", err)
	}

	text := strings.TrimSpace(resp.Text())
	g.log.Debug().
		Str("model", g.model).
		Int("prompt_chars", len([]rune(prompt))).
		Int("response_chars", len([]rune(text))).
		Msg("generation complete")

	return text, nil
}
