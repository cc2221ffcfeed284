package questions

import (
	"encoding/json"
	"strings"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/observability"
	"github.com/spherical/textbook-extractor/internal/visuals"
)

// exampleIndicators gate the collaborator call for example extraction.
var exampleIndicators = []string{"ઉદાહરણ", "Example", "ઉકેલ", "હલ"}

// linearPairChapter is recognised in chapter summaries.
const (
	linearPairMarker  = "દ્વિચલ સુરેખ સમીકરણ"
	linearPairChapter = "દ્વિચલ સુરેખ સમીકરણયુગ્મ"
)

type exampleWire struct {
	ExampleNumber    flexString      `json:"example_number"`
	Question         string          `json:"question" validate:"required"`
	Answer           flexString      `json:"answer"`
	Explanation      flexString      `json:"explanation"`
	QuestionType     flexString      `json:"question_type"`
	MentionedVisuals json.RawMessage `json:"mentioned_visuals"`
}

// ExampleVariant extracts worked examples.
type ExampleVariant struct{}

// NewExamplePipeline creates the example extraction pipeline.
func NewExamplePipeline(gw *gateway.Gateway, cfg Config, logger *observability.Logger) *Pipeline[*domain.Example] {
	return NewPipeline[*domain.Example](ExampleVariant{}, gw, cfg, logger)
}

func (ExampleVariant) Kind() string                  { return "examples" }
func (ExampleVariant) Source() domain.QuestionSource { return domain.SourceExample }
func (ExampleVariant) Synonyms() visuals.Synonyms    { return visuals.ExampleSynonyms }

// Prefilter requires at least one example indicator in the page text.
func (ExampleVariant) Prefilter(text string) bool {
	for _, ind := range exampleIndicators {
		if strings.Contains(text, ind) {
			return true
		}
	}
	return false
}

func (ExampleVariant) Prompt(text, chapter string, page int) string {
	return buildExamplePrompt(chapter, page, text)
}

// Decode validates one example. A missing answer is recovered from the
// explanation, then from the page text.
func (ExampleVariant) Decode(item json.RawMessage, page *domain.Page) (*domain.Example, error) {
	var w exampleWire
	if err := json.Unmarshal(item, &w); err != nil {
		return nil, domain.ParseError("decode example", err)
	}
	if err := validate.Struct(&w); err != nil {
		return nil, domain.ValidationError("invalid example", err)
	}

	answer := strings.TrimSpace(string(w.Answer))
	if answer == "" {
		answer = FinalAnswer(string(w.Explanation))
	}
	if answer == domain.AnswerIncomplete {
		answer = FinalAnswer(page.Text)
	}

	return &domain.Example{
		ExampleNumber: string(w.ExampleNumber),
		Question:      w.Question,
		QuestionType:  string(w.QuestionType),
		QuestionRecord: domain.QuestionRecord{
			Answer:           answer,
			Explanation:      string(w.Explanation),
			MentionedVisuals: decodeMentions(w.MentionedVisuals),
		},
	}, nil
}

// ChapterName recognises the linear-pair chapter from its summary and
// otherwise derives a name from the source file.
func (ExampleVariant) ChapterName(doc *domain.Document) string {
	if doc.ChapterInfo != nil && strings.Contains(doc.ChapterInfo.ChapterSummary, linearPairMarker) {
		return linearPairChapter
	}
	return chapterFromFile(doc.Metadata.SourcePDF)
}
