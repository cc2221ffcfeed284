// Package orchestrator runs the document pipeline for one PDF: render,
// extract, then every remaining stage in order across the whole page set.
package orchestrator

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/observability"
	"github.com/spherical/textbook-extractor/internal/stages"
)

// Options configures an Orchestrator.
type Options struct {
	Chapter string
	Board   string
	Class   int
	Subject string
	Medium  string
	Logger  *observability.Logger
}

// Orchestrator drives the stages and assembles the document record.
type Orchestrator struct {
	renderer   domain.Renderer
	extraction *stages.Extraction
	stages     []stages.Stage
	opts       Options
	logger     *observability.Logger
}

// New creates an orchestrator with the standard stage order.
func New(renderer domain.Renderer, gw *gateway.Gateway, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = observability.Nop()
	}
	return &Orchestrator{
		renderer:   renderer,
		extraction: stages.NewExtraction(gw, opts.Chapter, logger),
		stages: []stages.Stage{
			stages.NewDescription(gw, logger),
			stages.NewIntegration(logger),
			stages.NewSummarization(gw, logger),
			stages.NewChapterAnalysis(gw, logger),
			stages.NewTopicAssignment(gw, logger),
		},
		opts:   opts,
		logger: logger.WithOperation("orchestrator"),
	}
}

// Process runs the full pipeline on pdfPath. The returned counters cover
// every call made, including those of a run that failed part way.
func (o *Orchestrator) Process(ctx context.Context, pdfPath string, eventCh chan<- domain.StreamEvent) (*domain.Document, domain.Counters, error) {
	startTime := time.Now()
	runID := uuid.New()
	var counters domain.Counters

	o.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventStart,
		Payload:   fmt.Sprintf("Starting processing of %s", pdfPath),
		Timestamp: time.Now(),
	})

	o.logger.Info().Str("run_id", runID.String()).Str("pdf", pdfPath).Msg("Rendering PDF")
	images, err := o.renderer.Render(ctx, pdfPath)
	defer func() {
		if err := o.renderer.Cleanup(); err != nil {
			o.logger.Warn().Err(err).Msg("cleanup failed")
		}
	}()
	if err != nil {
		o.emitError(eventCh, err)
		return nil, counters, err
	}
	if len(images) == 0 {
		err := domain.ExtractionError("PDF has no pages", nil)
		o.emitError(eventCh, err)
		return nil, counters, err
	}
	o.logger.Info().Int("pages", len(images)).Msg("Rendered pages")

	o.stageStart(eventCh, stages.NameExtraction, len(images))
	pages, c, err := o.extraction.Extract(ctx, images, o.reporter(eventCh, stages.NameExtraction, len(images)))
	counters = counters.Add(c)
	if err != nil {
		o.emitError(eventCh, err)
		return nil, counters, err
	}
	if allFailed(pages) {
		err := domain.ExtractionError("All pages failed to extract", nil)
		o.emitError(eventCh, err)
		return nil, counters, err
	}
	o.stageComplete(eventCh, stages.NameExtraction, c)

	doc := &domain.Document{Pages: pages}
	for _, st := range o.stages {
		o.stageStart(eventCh, st.Name(), len(doc.Pages))
		c, err := st.Run(ctx, doc, o.reporter(eventCh, st.Name(), len(doc.Pages)))
		counters = counters.Add(c)
		if err != nil {
			o.emitError(eventCh, err)
			return nil, counters, err
		}
		o.stageComplete(eventCh, st.Name(), c)
	}

	o.fillMetadata(doc, runID, pdfPath, startTime, counters)

	o.emitEvent(eventCh, domain.StreamEvent{
		Type: domain.EventComplete,
		Payload: fmt.Sprintf("Processing complete: %d pages, %d API calls in %.2fs",
			len(doc.Pages), counters.Total(), doc.Metadata.ProcessingTimeSeconds),
		Timestamp: time.Now(),
	})

	o.logger.Info().
		Str("run_id", runID.String()).
		Int("vision_calls", counters.VisionCalls).
		Int("generative_calls", counters.GenerativeCalls).
		Float64("seconds", doc.Metadata.ProcessingTimeSeconds).
		Msg("Processing complete")

	return doc, counters, nil
}

func (o *Orchestrator) fillMetadata(doc *domain.Document, runID uuid.UUID, pdfPath string, start time.Time, c domain.Counters) {
	images, chars := doc.Totals()
	topics := 0
	if doc.ChapterInfo != nil {
		topics = len(doc.ChapterInfo.ExtractedTopics)
	}
	doc.Metadata = domain.DocumentMetadata{
		RunID:                 runID.String(),
		SourcePDF:             filepath.Base(pdfPath),
		Board:                 o.opts.Board,
		Class:                 o.opts.Class,
		Subject:               o.opts.Subject,
		Medium:                o.opts.Medium,
		ProcessedAt:           time.Now(),
		TotalPages:            len(doc.Pages),
		TotalTopics:           topics,
		TotalImages:           images,
		TotalCharacters:       chars,
		ProcessingTimeSeconds: math.Round(time.Since(start).Seconds()*100) / 100,
		APIUsage:              c.Usage(),
	}
}

// allFailed reports whether no page produced any text.
func allFailed(pages []domain.Page) bool {
	for i := range pages {
		if !pages[i].Failed() || pages[i].Text != "" {
			return false
		}
	}
	return true
}

func (o *Orchestrator) reporter(eventCh chan<- domain.StreamEvent, stage string, total int) domain.PageReporter {
	return func(page int) {
		o.emitEvent(eventCh, domain.StreamEvent{
			Type:       domain.EventPageComplete,
			Stage:      stage,
			PageNumber: page,
			Total:      total,
			Timestamp:  time.Now(),
		})
	}
}

func (o *Orchestrator) stageStart(eventCh chan<- domain.StreamEvent, stage string, total int) {
	o.logger.Info().Str("stage", stage).Msg("Stage started")
	o.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventStageStart,
		Stage:     stage,
		Total:     total,
		Timestamp: time.Now(),
	})
}

func (o *Orchestrator) stageComplete(eventCh chan<- domain.StreamEvent, stage string, c domain.Counters) {
	o.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventStageComplete,
		Stage:     stage,
		Payload:   c,
		Timestamp: time.Now(),
	})
}

// emitEvent sends without blocking; a full channel drops the event.
func (o *Orchestrator) emitEvent(eventCh chan<- domain.StreamEvent, event domain.StreamEvent) {
	if eventCh != nil {
		select {
		case eventCh <- event:
		default:
			o.logger.Warn().Str("type", string(event.Type)).Msg("Event channel full, dropping event")
		}
	}
}

func (o *Orchestrator) emitError(eventCh chan<- domain.StreamEvent, err error) {
	o.emitEvent(eventCh, domain.StreamEvent{
		Type:      domain.EventError,
		Payload:   err.Error(),
		Timestamp: time.Now(),
	})
}
