// Package questions extracts worked examples and exercise questions from a
// processed page collection. A single generic pipeline drives both record
// kinds; the kind-specific parts live in a Variant.
package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/llm"
	"github.com/spherical/textbook-extractor/internal/observability"
	"github.com/spherical/textbook-extractor/internal/visuals"
)

var validate = validator.New()

// DefaultMinTextLength is the shortest page text, in characters, that can
// hold a complete question.
const DefaultMinTextLength = 100

// Variant supplies the record-kind specific behaviour of a Pipeline.
type Variant[Q domain.Question] interface {
	// Kind is used in logs and artifact metadata ("examples", "exercises").
	Kind() string
	Source() domain.QuestionSource
	// Prefilter reports whether the page text is worth a collaborator call.
	Prefilter(text string) bool
	Prompt(text, chapter string, page int) string
	// Decode validates one element of the collaborator's JSON array.
	Decode(item json.RawMessage, page *domain.Page) (Q, error)
	ChapterName(doc *domain.Document) string
	Synonyms() visuals.Synonyms
}

// Config holds pipeline configuration.
type Config struct {
	MinTextLength      int
	RelevanceThreshold float64
}

// Result is the outcome of one pipeline run.
type Result[Q domain.Question] struct {
	Records        []Q
	Chapter        string
	Counters       domain.Counters
	PagesProcessed int
	PagesSkipped   int
	SkippedRecords int
	StartedAt      time.Time
	CompletedAt    time.Time
	Duration       time.Duration
}

// Pipeline extracts question records page by page.
type Pipeline[Q domain.Question] struct {
	variant  Variant[Q]
	gw       *gateway.Gateway
	resolver *visuals.Resolver
	config   Config
	logger   *observability.Logger
}

// NewPipeline creates a pipeline for variant.
func NewPipeline[Q domain.Question](variant Variant[Q], gw *gateway.Gateway, cfg Config, logger *observability.Logger) *Pipeline[Q] {
	if logger == nil {
		logger = observability.Nop()
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = DefaultMinTextLength
	}
	if cfg.RelevanceThreshold <= 0 {
		cfg.RelevanceThreshold = visuals.DefaultThreshold
	}
	return &Pipeline[Q]{
		variant:  variant,
		gw:       gw,
		resolver: visuals.NewResolver(variant.Synonyms()),
		config:   cfg,
		logger:   logger.With().Str("pipeline", variant.Kind()).Logger(),
	}
}

// Kind returns the variant kind.
func (p *Pipeline[Q]) Kind() string { return p.variant.Kind() }

// Run extracts records from every page of doc in page order. Only
// cancellation is returned as an error; page failures yield no records for
// that page.
func (p *Pipeline[Q]) Run(ctx context.Context, doc *domain.Document, report domain.PageReporter) (*Result[Q], error) {
	result := &Result[Q]{
		Records:   []Q{},
		Chapter:   p.variant.ChapterName(doc),
		StartedAt: time.Now(),
	}

	p.logger.Info().
		Str("chapter", result.Chapter).
		Int("pages", len(doc.Pages)).
		Msg("Starting question extraction")

	for i := range doc.Pages {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		page := &doc.Pages[i]
		records, skipped, called, err := p.ExtractPage(ctx, page, result.Chapter, &result.Counters)
		if err != nil {
			return result, err
		}
		if called {
			result.PagesProcessed++
		} else {
			result.PagesSkipped++
		}
		result.SkippedRecords += skipped
		result.Records = append(result.Records, records...)
		report.Report(page.PageNumber)
	}

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	p.logger.Info().
		Int("records", len(result.Records)).
		Int("skipped_records", result.SkippedRecords).
		Int("api_calls", result.Counters.Total()).
		Dur("duration", result.Duration).
		Msg("Question extraction completed")

	return result, nil
}

// ExtractPage returns the records found on one page, the number of array
// elements rejected by validation and whether the collaborator was called.
// Pages shorter than the minimum length or rejected by the prefilter are
// never sent.
func (p *Pipeline[Q]) ExtractPage(ctx context.Context, page *domain.Page, chapter string, c *domain.Counters) ([]Q, int, bool, error) {
	log := p.logger.With().Int("page", page.PageNumber).Logger()

	if utf8.RuneCountInString(page.Text) < p.config.MinTextLength {
		log.Debug().Msg("page text too short, skipping")
		return nil, 0, false, nil
	}
	if !p.variant.Prefilter(page.Text) {
		log.Debug().Msg("no indicators on page, skipping")
		return nil, 0, false, nil
	}

	resp, err := p.gw.Generate(ctx, p.variant.Prompt(page.Text, chapter, page.PageNumber), c)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, true, err
		}
		log.Warn().Err(err).Msg("extraction call failed")
		return nil, 0, true, nil
	}

	items, err := llm.DecodeArray(resp)
	if err != nil {
		log.Debug().Err(err).Msg("response is not a JSON array")
		return nil, 0, true, nil
	}

	now := time.Now()
	records := make([]Q, 0, len(items))
	skipped := 0
	for _, item := range items {
		q, err := p.variant.Decode(item, page)
		if err != nil {
			log.Warn().Err(err).Msg("skipping invalid record")
			skipped++
			continue
		}

		base := q.Base()
		base.PageNumber = page.PageNumber
		base.Chapter = chapter
		base.ExtractedAt = now
		base.Source = p.variant.Source()
		base.Status = domain.StatusInactive

		p.enhance(q, page)
		log.Debug().
			Str("number", q.Number()).
			Int("visual_references", base.TotalVisualReferences).
			Msg("record extracted")
		records = append(records, q)
	}

	return records, skipped, true, nil
}

// enhance resolves the record's visual mentions against the page visuals
// and scores the remaining visuals for relevance.
func (p *Pipeline[Q]) enhance(q Q, page *domain.Page) {
	base := q.Base()
	if base.MentionedVisuals == nil {
		base.MentionedVisuals = []domain.VisualMention{}
	}

	used := make(map[int]bool)
	for i := range base.MentionedVisuals {
		m := &base.MentionedVisuals[i]
		desc, idx, ok := p.resolver.Resolve(m.Reference, m.Type, page.Images)
		if !ok {
			m.FullDescription = domain.DescriptionUnavailable
			continue
		}
		m.FullDescription = desc
		used[idx] = true
	}

	base.DetectedVisuals = p.detect(q.Text()+" "+base.Explanation, page, used)
	base.TotalVisualReferences = len(base.MentionedVisuals) + len(base.DetectedVisuals)
}

func (p *Pipeline[Q]) detect(passage string, page *domain.Page, used map[int]bool) []domain.DetectedVisual {
	detected := []domain.DetectedVisual{}
	for i, img := range page.Images {
		if used[i] {
			continue
		}
		score := visuals.Score(passage, img.EducationalDescription)
		if score <= p.config.RelevanceThreshold {
			continue
		}
		ref := img.ReferenceID
		if ref == "" {
			ref = fmt.Sprintf("%d_%d", page.PageNumber, i+1)
		}
		detected = append(detected, domain.DetectedVisual{
			Type:            visuals.Classify(img.EducationalDescription),
			ReferenceID:     ref,
			Description:     img.EducationalDescription,
			DetectionMethod: img.DetectionMethod,
			RelevanceScore:  math.Round(score*100) / 100,
		})
	}
	return detected
}

// decodeMentions reads the mentioned_visuals field leniently: a value that
// is not an array yields no mentions and malformed or empty entries are
// dropped.
func decodeMentions(raw json.RawMessage) []domain.VisualMention {
	mentions := []domain.VisualMention{}
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return mentions
	}
	for _, item := range items {
		var m mentionWire
		if err := json.Unmarshal(item, &m); err != nil {
			continue
		}
		if strings.TrimSpace(m.Type) == "" && strings.TrimSpace(m.Reference) == "" {
			continue
		}
		mentions = append(mentions, domain.VisualMention{
			Type:      m.Type,
			Reference: m.Reference,
			Context:   m.Context,
		})
	}
	return mentions
}

type mentionWire struct {
	Type      string `json:"type"`
	Reference string `json:"reference"`
	Context   string `json:"context"`
}
