package stages

import (
	"context"
	"strings"
	"time"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// Summarization writes a page summary conditioned on the page text and its
// visual descriptions.
type Summarization struct {
	base
}

func NewSummarization(gw *gateway.Gateway, log *observability.Logger) *Summarization {
	return &Summarization{base: newBase(gw, log, NameSummarization)}
}

func (s *Summarization) Name() string { return NameSummarization }

func (s *Summarization) Run(ctx context.Context, doc *domain.Document, report domain.PageReporter) (domain.Counters, error) {
	var c domain.Counters
	failed := 0

	for i := range doc.Pages {
		select {
		case <-ctx.Done():
			return c, ctx.Err()
		default:
		}

		page := &doc.Pages[i]
		visuals := NoVisualsMarker
		if len(page.Images) > 0 {
			visuals = strings.Join(page.Descriptions(), "\n")
		}

		resp, err := s.gw.Generate(ctx, buildSummaryPrompt(page.Text, visuals), &c)
		if err != nil {
			if aborted(ctx, err) {
				return c, err
			}
			s.log.Warn().Int("page", page.PageNumber).Err(err).Msg("summary failed")
		}
		if err != nil || strings.TrimSpace(resp) == "" {
			page.Summary = domain.SummaryUnavailable
			failed++
		} else {
			now := time.Now()
			page.Summary = resp
			page.SummarizedAt = &now
		}
		report.Report(page.PageNumber)
	}

	s.log.Info().Int("pages", len(doc.Pages)).Int("failed", failed).Msg("summaries complete")
	return c, nil
}
