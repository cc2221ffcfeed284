package stages

import (
	"context"
	"strings"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/observability"
)

// Description asks for an educational description of every visual that
// does not have one yet.
type Description struct {
	base
}

func NewDescription(gw *gateway.Gateway, log *observability.Logger) *Description {
	return &Description{base: newBase(gw, log, NameDescription)}
}

func (s *Description) Name() string { return NameDescription }

func (s *Description) Run(ctx context.Context, doc *domain.Document, report domain.PageReporter) (domain.Counters, error) {
	var c domain.Counters
	described, failed := 0, 0

	for i := range doc.Pages {
		page := &doc.Pages[i]
		for j := range page.Images {
			img := &page.Images[j]
			if img.EducationalDescription != "" {
				continue
			}

			select {
			case <-ctx.Done():
				return c, ctx.Err()
			default:
			}

			prompt := buildDescriptionPrompt(img.ObjectType, img.Confidence, page.PageNumber)
			resp, err := s.gw.Generate(ctx, prompt, &c)
			if err != nil {
				if aborted(ctx, err) {
					return c, err
				}
				s.log.Warn().Int("page", page.PageNumber).Str("object", img.ObjectType).Err(err).Msg("description failed")
			}
			if err != nil || strings.TrimSpace(resp) == "" {
				img.EducationalDescription = domain.DescriptionUnavailable
				failed++
				continue
			}
			img.EducationalDescription = resp
			described++
		}
		report.Report(page.PageNumber)
	}

	s.log.Info().Int("described", described).Int("failed", failed).Msg("descriptions complete")
	return c, nil
}
