// Package stages holds the document pipeline stages. Each stage walks every
// page of a document before the next stage starts. Failures on a page are
// logged and degrade that page only; the only error a stage returns is
// context cancellation.
package stages

import (
	"context"
	"errors"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// Stage names, used in logs and progress events.
const (
	NameExtraction      = "extraction"
	NameDescription     = "description"
	NameIntegration     = "integration"
	NameSummarization   = "summarization"
	NameChapterAnalysis = "chapter_analysis"
	NameTopicAssignment = "topic_assignment"
)

// Sentinels and fixed markers written into document records.
const (
	NoVisualsMarker       = "આ પાનામાં કોઈ ચિત્ર નથી."
	ChapterAnalysisFailed = "અધ્યાય વિશ્લેષણમાં ભૂલ"
	ChapterNoSummaries    = "અધ્યાય વિશ્લેષણમાં ભૂલ - કોઈ સારાંશ ઉપલબ્ધ નથી"
	UnknownChapter        = "અજ્ઞાત અધ્યાય"
)

const generativeConfidence = 1.0

// DefaultTopics is substituted when no topic can be parsed from the
// chapter summary.
var DefaultTopics = []string{
	"સામાન્ય ગણિતીય સંકલ્પનાઓ",
	"સૂત્રો અને ગણતરી",
	"ઉદાહરણો અને કસોટીઓ",
}

// Stage transforms a document in place and returns the calls it made.
type Stage interface {
	Name() string
	Run(ctx context.Context, doc *domain.Document, report domain.PageReporter) (domain.Counters, error)
}

type base struct {
	gw  *gateway.Gateway
	log *observability.Logger
}

func newBase(gw *gateway.Gateway, log *observability.Logger, name string) base {
	if log == nil {
		log = observability.Nop()
	}
	return base{gw: gw, log: log.With().Str("stage", name).Logger()}
}

// aborted reports whether err ends the whole run rather than one page.
func aborted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
