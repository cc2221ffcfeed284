package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Renderer turns a PDF into page images.
type Renderer interface {
	// Render writes one image per page and returns them in page order
	Render(ctx context.Context, pdfPath string) ([]PageImage, error)

	// Cleanup removes temporary files created during rendering
	Cleanup() error
}

// VisionAnnotator is the OCR and object localization collaborator.
type VisionAnnotator interface {
	Annotate(ctx context.Context, image []byte) (*VisionResult, error)
}

// Generator is the generative-text collaborator: free-text prompt in,
// free-text response out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyAnnotation is returned when the vision service answers without a
// per-image response.
var ErrEmptyAnnotation = errors.New("vision response contained no annotations")

// StatusError is a non-success HTTP answer from a collaborator.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	body := e.Body
	if utf8.RuneCountInString(body) > 200 {
		body = string([]rune(body)[:200])
	}
	return fmt.Sprintf("%s API error: %d - %s", e.Service, e.Code, body)
}

// EventType names a progress event emitted by the orchestrator.
type EventType string

const (
	EventStart         EventType = "start"
	EventStageStart    EventType = "stage_start"
	EventPageComplete  EventType = "page_complete"
	EventStageComplete EventType = "stage_complete"
	EventError         EventType = "error"
	EventComplete      EventType = "complete"
)

// StreamEvent is emitted during processing for progress display.
type StreamEvent struct {
	Type       EventType   `json:"type"`
	Stage      string      `json:"stage,omitempty"`
	PageNumber int         `json:"page_number,omitempty"`
	Total      int         `json:"total,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// PageReporter is called by a stage after it finishes a page.
type PageReporter func(pageNumber int)

// Report calls r if it is set.
func (r PageReporter) Report(pageNumber int) {
	if r != nil {
		r(pageNumber)
	}
}
