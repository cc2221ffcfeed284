package vision

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/textbook-extractor/internal/domain"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		APIKey:           "test-key",
		Endpoint:         url,
		LanguageHints:    []string{"gu", "en"},
		TextMaxResults:   100,
		ObjectMaxResults: 20,
		Retry:            RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond},
	}, nil)
}

func TestAnnotateRequestShape(t *testing.T) {
	var got annotateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Write([]byte(`{"responses":[{
			"textAnnotations":[{"description":"short"},{"description":"ignored"}],
			"fullTextAnnotation":{"text":"a much longer document text"},
			"localizedObjectAnnotations":[{"name":"Triangle outline","score":0.81},{"name":"Person","score":0.9}]
		}]}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Annotate(t.Context(), []byte("png-bytes"))
	require.NoError(t, err)

	require.Len(t, got.Requests, 1)
	req := got.Requests[0]
	assert.Equal(t, "cG5nLWJ5dGVz", req.Image.Content)
	assert.Equal(t, []string{"gu", "en"}, req.ImageContext.LanguageHints)
	require.Len(t, req.Features, 3)
	assert.Equal(t, feature{Type: "TEXT_DETECTION", MaxResults: 100}, req.Features[0])
	assert.Equal(t, feature{Type: "DOCUMENT_TEXT_DETECTION"}, req.Features[1])
	assert.Equal(t, feature{Type: "OBJECT_LOCALIZATION", MaxResults: 20}, req.Features[2])

	assert.True(t, res.HasTextAnnotations)
	assert.Equal(t, "short", res.Text)
	assert.Equal(t, "a much longer document text", res.DocumentText)
	assert.Equal(t, []domain.LocalizedObject{{Name: "Triangle outline", Score: 0.81}, {Name: "Person", Score: 0.9}}, res.Objects)
}

func TestAnnotateStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"API key not valid"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Annotate(t.Context(), []byte("x"))
	var se *domain.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 403, se.Code)
	assert.Equal(t, `Vision API error: 403 - {"error":"API key not valid"}`, err.Error())
}

func TestAnnotateEmptyResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Annotate(t.Context(), []byte("x"))
	assert.ErrorIs(t, err, domain.ErrEmptyAnnotation)
}

func TestAnnotateNoTextAnnotations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[{}]}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Annotate(t.Context(), []byte("x"))
	require.NoError(t, err)
	assert.False(t, res.HasTextAnnotations)
	assert.Empty(t, res.Text)
}

func TestAnnotateRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"responses":[{"textAnnotations":[{"description":"ok"}]}]}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Annotate(t.Context(), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnnotateRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("quota"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Annotate(t.Context(), []byte("x"))
	var se *domain.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 429, se.Code)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCalculateBackoff(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, time.Second, calculateBackoff(0, cfg))
	assert.Equal(t, 4*time.Second, calculateBackoff(2, cfg))
	assert.Equal(t, 30*time.Second, calculateBackoff(10, cfg))
}
