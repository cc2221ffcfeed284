package stages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// ChapterAnalysis aggregates the valid page summaries into one chapter
// summary. It makes at most one call.
type ChapterAnalysis struct {
	base
}

func NewChapterAnalysis(gw *gateway.Gateway, log *observability.Logger) *ChapterAnalysis {
	return &ChapterAnalysis{base: newBase(gw, log, NameChapterAnalysis)}
}

func (s *ChapterAnalysis) Name() string { return NameChapterAnalysis }

func (s *ChapterAnalysis) Run(ctx context.Context, doc *domain.Document, report domain.PageReporter) (domain.Counters, error) {
	var c domain.Counters

	var labeled []string
	for i := range doc.Pages {
		page := &doc.Pages[i]
		if page.HasValidSummary() {
			labeled = append(labeled, fmt.Sprintf("પાનું %d: %s", page.PageNumber, page.Summary))
		}
	}

	info := &domain.ChapterInfo{}
	doc.ChapterInfo = info

	if len(labeled) == 0 {
		s.log.Warn().Int("pages", len(doc.Pages)).Msg("no valid page summaries, skipping chapter analysis")
		info.ChapterSummary = ChapterNoSummaries
		info.AnalyzedAt = time.Now()
		return c, nil
	}

	resp, err := s.gw.Generate(ctx, buildChapterPrompt(strings.Join(labeled, "\n\n")), &c)
	info.AnalyzedAt = time.Now()
	if err != nil {
		if aborted(ctx, err) {
			return c, err
		}
		s.log.Error().Err(err).Msg("chapter analysis failed")
		info.ChapterSummary = ChapterAnalysisFailed
		return c, nil
	}
	if strings.TrimSpace(resp) == "" {
		info.ChapterSummary = ChapterAnalysisFailed
		return c, nil
	}

	info.ChapterSummary = resp
	s.log.Info().Int("summaries", len(labeled)).Int("chars", len([]rune(resp))).Msg("chapter analysis complete")
	return c, nil
}
