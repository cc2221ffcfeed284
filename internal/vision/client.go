// Package vision is a REST client for the Google Cloud Vision annotate
// endpoint, requesting text, document text and object localization.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// Config configures a Client.
type Config struct {
	APIKey           string
	Endpoint         string
	LanguageHints    []string
	TextMaxResults   int
	ObjectMaxResults int
	Timeout          time.Duration
	Retry            RetryConfig
}

// Client implements domain.VisionAnnotator.
type Client struct {
	apiKey     string
	endpoint   string
	hints      []string
	textMax    int
	objectMax  int
	retry      RetryConfig
	httpClient *http.Client
	log        *observability.Logger
}

// NewClient creates a Vision client.
func NewClient(cfg Config, log *observability.Logger) *Client {
	if log == nil {
		log = observability.Nop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		endpoint:   cfg.Endpoint,
		hints:      cfg.LanguageHints,
		textMax:    cfg.TextMaxResults,
		objectMax:  cfg.ObjectMaxResults,
		retry:      cfg.Retry,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.WithOperation("vision"),
	}
}

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image        imageContent `json:"image"`
	Features     []feature    `json:"features"`
	ImageContext imageContext `json:"imageContext"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type imageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
}

type imageResponse struct {
	TextAnnotations []struct {
		Description string `json:"description"`
	} `json:"textAnnotations"`
	FullTextAnnotation *struct {
		Text string `json:"text"`
	} `json:"fullTextAnnotation"`
	LocalizedObjectAnnotations []struct {
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	} `json:"localizedObjectAnnotations"`
}

// Annotate sends one PNG page image and returns the parts of the answer the
// pipeline consumes. A non-200 answer yields *domain.StatusError; an answer
// with no per-image response yields domain.ErrEmptyAnnotation.
func (c *Client) Annotate(ctx context.Context, image []byte) (*domain.VisionResult, error) {
	payload := annotateRequest{
		Requests: []imageRequest{{
			Image: imageContent{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []feature{
				{Type: "TEXT_DETECTION", MaxResults: c.textMax},
				{Type: "DOCUMENT_TEXT_DETECTION"},
				{Type: "OBJECT_LOCALIZATION", MaxResults: c.objectMax},
			},
			ImageContext: imageContext{LanguageHints: c.hints},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, domain.APIError("failed to marshal annotate request", err)
	}

	endpoint := c.endpoint + "?key=" + url.QueryEscape(c.apiKey)

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.APIError("failed to read annotate response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.StatusError{Service: "Vision", Code: resp.StatusCode, Body: string(respBody)}
	}

	var decoded annotateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, domain.ParseError(fmt.Sprintf("failed to decode annotate response (%d bytes)", len(respBody)), err)
	}

	if len(decoded.Responses) == 0 {
		return nil, domain.ErrEmptyAnnotation
	}

	r := decoded.Responses[0]
	result := &domain.VisionResult{}
	if len(r.TextAnnotations) > 0 {
		result.HasTextAnnotations = true
		result.Text = r.TextAnnotations[0].Description
	}
	if r.FullTextAnnotation != nil {
		result.DocumentText = r.FullTextAnnotation.Text
	}
	for _, obj := range r.LocalizedObjectAnnotations {
		result.Objects = append(result.Objects, domain.LocalizedObject{Name: obj.Name, Score: obj.Score})
	}

	c.log.Debug().
		Int("text_chars", len([]rune(result.Text))).
		Int("document_chars", len([]rune(result.DocumentText))).
		Int("objects", len(result.Objects)).
		Msg("annotate response decoded")

	return result, nil
}
