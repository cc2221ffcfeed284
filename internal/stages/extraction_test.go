package stages

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/textbook-extractor/internal/domain"
)

func TestExtractionMergesSources(t *testing.T) {
	v := &fakeVision{respond: func(image []byte) (*domain.VisionResult, error) {
		return &domain.VisionResult{
			Text:               "ટૂંકું",
			HasTextAnnotations: true,
			DocumentText:       "સંપૂર્ણ લખાણ કોષ્ટક 3.1",
			Objects: []domain.LocalizedObject{
				{Name: "triangle outline", Score: 0.81},
				{Name: "Person", Score: 0.95},
			},
		}, nil
	}}
	g := &fakeGenerator{respond: func(prompt string) (string, error) {
		return "```json\n[{\"description\":\"કોષ્ટક 3.1\",\"educational_context\":\"કિંમતો\"},{\"educational_context\":\"no description\"},\"bad\"]\n```", nil
	}}

	st := NewExtraction(newGateway(v, g), "દ્વિચલ સુરેખ સમીકરણયુગ્મ", nil)
	var reported []int
	pages, c, err := st.Extract(context.Background(), writeImages(t, "img1"), func(n int) { reported = append(reported, n) })
	require.NoError(t, err)

	require.Len(t, pages, 1)
	p := pages[0]
	assert.Equal(t, "સંપૂર્ણ લખાણ કોષ્ટક 3.1", p.Text)
	assert.Empty(t, p.Error)
	require.Len(t, p.Images, 2)

	assert.Equal(t, domain.VisualObject{
		ObjectType:      "triangle outline",
		Confidence:      0.81,
		DetectionMethod: domain.DetectionVisionObject,
		RawDetection:    "triangle outline",
	}, p.Images[0])
	assert.Equal(t, domain.DetectionGenerative, p.Images[1].DetectionMethod)
	assert.Equal(t, 1.0, p.Images[1].Confidence)
	assert.Equal(t, "કિંમતો", p.Images[1].EducationalContext)

	assert.Equal(t, domain.Counters{VisionCalls: 1, GenerativeCalls: 1}, c)
	assert.Equal(t, []int{1}, reported)

	require.Len(t, g.prompts, 1)
	assert.Contains(t, g.prompts[0], "સમીકરણના ગ્રાફ, કોષ્ટક, રેખાઓના intersection")
	assert.Contains(t, g.prompts[0], "પાનું 1")
}

func TestExtractionDegradesPerPage(t *testing.T) {
	v := &fakeVision{respond: func(image []byte) (*domain.VisionResult, error) {
		switch string(image) {
		case "forbidden":
			return nil, &domain.StatusError{Service: "Vision", Code: 403, Body: "denied"}
		case "empty":
			return nil, domain.ErrEmptyAnnotation
		case "blank":
			return &domain.VisionResult{}, nil
		default:
			return nil, errors.New("connection reset")
		}
	}}
	g := &fakeGenerator{}

	st := NewExtraction(newGateway(v, g), "", nil)
	pages, c, err := st.Extract(context.Background(), writeImages(t, "forbidden", "empty", "blank", "reset"), nil)
	require.NoError(t, err)
	require.Len(t, pages, 4)

	assert.Equal(t, "Vision API error: 403 - denied", pages[0].Error)
	assert.Equal(t, "No response data from Vision API", pages[1].Error)
	assert.Equal(t, "No text extracted from TEXT_DETECTION", pages[2].Error)
	assert.True(t, strings.HasPrefix(pages[3].Error, "Vision API request failed: "))

	for _, p := range pages {
		assert.Empty(t, p.Text)
		assert.NotNil(t, p.Images)
		assert.Empty(t, p.Images)
	}
	assert.Equal(t, 4, c.VisionCalls)
	assert.Zero(t, c.GenerativeCalls)
	assert.Empty(t, g.prompts)
}

func TestExtractionUnknownChapterHasNoHints(t *testing.T) {
	v := &fakeVision{respond: func(image []byte) (*domain.VisionResult, error) {
		return &domain.VisionResult{Text: "લખાણ", HasTextAnnotations: true}, nil
	}}
	g := &fakeGenerator{respond: func(string) (string, error) { return "કોઈ આકૃતિ નથી", nil }}

	st := NewExtraction(newGateway(v, g), "", nil)
	pages, _, err := st.Extract(context.Background(), writeImages(t, "x"), nil)
	require.NoError(t, err)
	assert.Empty(t, pages[0].Images)
	assert.Contains(t, g.prompts[0], UnknownChapter)
	assert.Contains(t, g.prompts[0], "આકૃતિઓ: .")
}

func TestExtractionStopsOnCancel(t *testing.T) {
	v := &fakeVision{respond: func(image []byte) (*domain.VisionResult, error) {
		return &domain.VisionResult{}, nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pages, c, err := NewExtraction(newGateway(v, &fakeGenerator{}), "", nil).
		Extract(ctx, writeImages(t, "a", "b"), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pages)
	assert.Zero(t, c.Total())
}

func TestChapterHints(t *testing.T) {
	assert.Len(t, chapterHints, 15)
	assert.Equal(t, []string{"સંભાવના વૃક્ષ", "પ્રયોગોના આકૃતિઓ", "નમૂના સ્થાન"}, ChapterHints("સંભાવના"))
	assert.Empty(t, ChapterHints("Calculus"))
}
