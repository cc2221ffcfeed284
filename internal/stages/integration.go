package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// Integration appends one "[ચિત્ર i: description]" line per visual to the
// page text and assigns reference ids "<page>_<i>" in detection order. A
// page whose visuals already carry ids is left untouched.
type Integration struct {
	log *observability.Logger
}

func NewIntegration(log *observability.Logger) *Integration {
	return &Integration{log: newBase(nil, log, NameIntegration).log}
}

func (s *Integration) Name() string { return NameIntegration }

func (s *Integration) Run(ctx context.Context, doc *domain.Document, report domain.PageReporter) (domain.Counters, error) {
	total := 0
	for i := range doc.Pages {
		select {
		case <-ctx.Done():
			return domain.Counters{}, ctx.Err()
		default:
		}

		page := &doc.Pages[i]
		if len(page.Images) == 0 {
			report.Report(page.PageNumber)
			continue
		}
		if page.Integrated() {
			s.log.Warn().Int("page", page.PageNumber).Msg("page already integrated, skipping")
			report.Report(page.PageNumber)
			continue
		}

		var b strings.Builder
		b.WriteString(page.Text)
		for j := range page.Images {
			img := &page.Images[j]
			desc := img.EducationalDescription
			if desc == "" {
				desc = domain.DescriptionUnavailable
			}
			fmt.Fprintf(&b, "\n[ચિત્ર %d: %s]", j+1, desc)
			img.ReferenceID = fmt.Sprintf("%d_%d", page.PageNumber, j+1)
		}
		page.Text = b.String()
		total += len(page.Images)
		report.Report(page.PageNumber)
	}

	s.log.Info().Int("references", total).Msg("integration complete")
	return domain.Counters{}, nil
}
