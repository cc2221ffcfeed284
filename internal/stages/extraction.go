package stages

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/llm"
	"github.com/spherical/textbook-extractor/internal/observability"
	"github.com/spherical/textbook-extractor/internal/vision"
)

var validate = validator.New()

// detectionItem is one element of the generative detection answer.
type detectionItem struct {
	Description        string `json:"description" validate:"required"`
	EducationalContext string `json:"educational_context"`
}

// Extraction turns rendered page images into pages with text and candidate
// visuals. Vision objects come first, generative detections follow; the two
// sources are not deduplicated against each other.
type Extraction struct {
	base
	chapter  string
	readFile func(string) ([]byte, error)
}

// NewExtraction creates the extraction stage for pages of chapter.
func NewExtraction(gw *gateway.Gateway, chapter string, log *observability.Logger) *Extraction {
	if strings.TrimSpace(chapter) == "" {
		chapter = UnknownChapter
	}
	return &Extraction{
		base:     newBase(gw, log, NameExtraction),
		chapter:  chapter,
		readFile: os.ReadFile,
	}
}

func (s *Extraction) Name() string { return NameExtraction }

// Extract processes images in order and returns one page per image.
func (s *Extraction) Extract(ctx context.Context, images []domain.PageImage, report domain.PageReporter) ([]domain.Page, domain.Counters, error) {
	var c domain.Counters
	pages := make([]domain.Page, 0, len(images))

	for _, img := range images {
		select {
		case <-ctx.Done():
			return pages, c, ctx.Err()
		default:
		}

		page, err := s.extractPage(ctx, img, &c)
		if err != nil {
			return pages, c, err
		}
		pages = append(pages, page)
		report.Report(img.PageNumber)
	}

	return pages, c, nil
}

func (s *Extraction) extractPage(ctx context.Context, img domain.PageImage, c *domain.Counters) (domain.Page, error) {
	page := domain.Page{
		PageNumber:  img.PageNumber,
		Images:      []domain.VisualObject{},
		ExtractedAt: time.Now(),
	}

	data, err := s.readFile(img.ImagePath)
	if err != nil {
		page.Error = "Failed to read page image: " + err.Error()
		s.log.Warn().Int("page", img.PageNumber).Err(err).Msg("page image unreadable")
		return page, nil
	}

	res, err := s.gw.Annotate(ctx, data, c)
	if err != nil {
		if aborted(ctx, err) {
			return page, err
		}
		page.Error = visionErrorMarker(err)
		s.log.Warn().Int("page", img.PageNumber).Err(err).Msg("vision annotation failed")
		return page, nil
	}

	page.Text = res.Text
	if !res.HasTextAnnotations {
		page.Error = "No text extracted from TEXT_DETECTION"
	}
	if utf8.RuneCountInString(res.DocumentText) > utf8.RuneCountInString(page.Text) {
		page.Text = res.DocumentText
	}

	for _, obj := range res.Objects {
		if !vision.IsMathematical(obj.Name) {
			continue
		}
		page.Images = append(page.Images, domain.VisualObject{
			ObjectType:      obj.Name,
			Confidence:      obj.Score,
			DetectionMethod: domain.DetectionVisionObject,
			RawDetection:    obj.Name,
		})
	}

	if strings.TrimSpace(page.Text) == "" {
		return page, nil
	}

	detected, err := s.detect(ctx, page.PageNumber, page.Text, c)
	if err != nil {
		return page, err
	}
	page.Images = append(page.Images, detected...)

	s.log.Debug().
		Int("page", page.PageNumber).
		Int("chars", utf8.RuneCountInString(page.Text)).
		Int("visuals", len(page.Images)).
		Msg("page extracted")

	return page, nil
}

// detect asks the generative collaborator for visuals implied by the text.
// Only cancellation is returned as an error.
func (s *Extraction) detect(ctx context.Context, pageNumber int, text string, c *domain.Counters) ([]domain.VisualObject, error) {
	prompt := buildDetectionPrompt(s.chapter, pageNumber, ChapterHints(s.chapter), text)
	resp, err := s.gw.Generate(ctx, prompt, c)
	if err != nil {
		if aborted(ctx, err) {
			return nil, err
		}
		s.log.Warn().Int("page", pageNumber).Err(err).Msg("generative detection failed")
		return nil, nil
	}

	items, err := llm.DecodeArray(resp)
	if err != nil {
		s.log.Debug().Int("page", pageNumber).Msg("generative detection returned no data")
		return nil, nil
	}

	var out []domain.VisualObject
	for _, raw := range items {
		var item detectionItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if err := validate.Struct(item); err != nil {
			continue
		}
		out = append(out, domain.VisualObject{
			ObjectType:         item.Description,
			Confidence:         generativeConfidence,
			DetectionMethod:    domain.DetectionGenerative,
			RawDetection:       item.Description,
			EducationalContext: item.EducationalContext,
		})
	}
	return out, nil
}

func visionErrorMarker(err error) string {
	var se *domain.StatusError
	switch {
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, domain.ErrEmptyAnnotation):
		return "No response data from Vision API"
	default:
		return "Vision API request failed: " + err.Error()
	}
}
