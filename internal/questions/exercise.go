package questions

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spherical/textbook-extractor/internal/domain"
	"github.com/spherical/textbook-extractor/internal/gateway"
	"github.com/spherical/textbook-extractor/internal/observability"
	"github.com/spherical/textbook-extractor/internal/visuals"
)

var (
	exerciseSection    = regexp.MustCompile(`(?:સ્વાધ્યાય|અભ્યાસ|પ્રેક્ટિસ|Exercise|કસોટી)\s+\d+\.\d+`)
	leadingMarks       = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)
	numberedQuestion   = regexp.MustCompile(`\n\s*\d+\.\s+|\n\s*\(\s*[ivx]+\s*\)|\n\s*[અઆઇ]\)\s+`)
	exerciseIndicators = []string{"સ્વાધ્યાય", "અભ્યાસ", "પ્રશ્નો"}
)

const (
	indicatorWindow  = 500
	chapterNameRunes = 50
)

var marksHints = map[domain.QuestionType]string{
	domain.QuestionVeryShort:     " - 1 ગુણ",
	domain.QuestionShortAnswerI:  " - 2 ગુણ",
	domain.QuestionShortAnswerII: " - 3 ગુણ",
	domain.QuestionLongAnswer:    " - 4+ ગુણ",
}

// flexString accepts a JSON string or number. Any other value decodes as
// empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	*f = ""
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(n.String())
	}
	return nil
}

// flexMarks reads a marks estimate from a number or from text such as
// "3 ગુણ". Fractions are rounded; anything unreadable is 0.
type flexMarks int

func (m *flexMarks) UnmarshalJSON(b []byte) error {
	*m = 0
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		var s string
		if json.Unmarshal(b, &s) != nil {
			return nil
		}
		match := leadingMarks.FindStringSubmatch(asciiDigits(s))
		if match == nil {
			return nil
		}
		f, _ = strconv.ParseFloat(match[1], 64)
	}
	if f > 0 {
		*m = flexMarks(math.Round(f))
	}
	return nil
}

// asciiDigits maps Gujarati digits to their ASCII forms.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '૦' && r <= '૯' {
			return '0' + (r - '૦')
		}
		return r
	}, s)
}

type exerciseWire struct {
	ExerciseNumber         flexString      `json:"exercise_number"`
	OriginalQuestionNumber flexString      `json:"original_question_number"`
	SubQuestionNumber      flexString      `json:"sub_question_number"`
	QuestionText           string          `json:"question_text" validate:"required"`
	QuestionType           string          `json:"question_type" validate:"required"`
	Answer                 flexString      `json:"answer"`
	Explanation            flexString      `json:"explanation"`
	MarksEstimate          flexMarks       `json:"marks_estimate"`
	Difficulty             flexString      `json:"difficulty"`
	MentionedVisuals       json.RawMessage `json:"mentioned_visuals"`
}

// ExerciseVariant extracts exercise questions, one record per sub-question.
type ExerciseVariant struct {
	// Strict enables the structural prefilter; otherwise every page that
	// is long enough is sent.
	Strict bool
}

// NewExercisePipeline creates the exercise extraction pipeline.
func NewExercisePipeline(gw *gateway.Gateway, cfg Config, strict bool, logger *observability.Logger) *Pipeline[*domain.Exercise] {
	return NewPipeline[*domain.Exercise](ExerciseVariant{Strict: strict}, gw, cfg, logger)
}

func (ExerciseVariant) Kind() string                  { return "exercises" }
func (ExerciseVariant) Source() domain.QuestionSource { return domain.SourceExercise }
func (ExerciseVariant) Synonyms() visuals.Synonyms    { return visuals.ExerciseSynonyms }

func (v ExerciseVariant) Prefilter(text string) bool {
	if !v.Strict {
		return true
	}
	return HasExerciseSection(text)
}

// HasExerciseSection reports whether text carries a numbered exercise
// heading such as "સ્વાધ્યાય 3.1", or an exercise indicator followed within
// 500 characters by a numbered question line.
func HasExerciseSection(text string) bool {
	if exerciseSection.MatchString(text) {
		return true
	}
	for _, ind := range exerciseIndicators {
		pos := strings.Index(text, ind)
		if pos < 0 {
			continue
		}
		if numberedQuestion.MatchString(truncateRunes(text[pos:], indicatorWindow)) {
			return true
		}
	}
	return false
}

func (ExerciseVariant) Prompt(text, _ string, page int) string {
	lines := make([]string, len(domain.QuestionTypes))
	for i, qt := range domain.QuestionTypes {
		lines[i] = fmt.Sprintf("%d. %q%s", i+1, string(qt), marksHints[qt])
	}
	return buildExercisePrompt(page, text, strings.Join(lines, "\n"))
}

// Decode validates one exercise question. Only a missing text or a question
// type outside the closed set rejects the record.
func (ExerciseVariant) Decode(item json.RawMessage, _ *domain.Page) (*domain.Exercise, error) {
	var w exerciseWire
	if err := json.Unmarshal(item, &w); err != nil {
		return nil, domain.ParseError("decode exercise", err)
	}
	if err := validate.Struct(&w); err != nil {
		return nil, domain.ValidationError("invalid exercise", err)
	}

	qt, ok := domain.ParseQuestionType(w.QuestionType)
	if !ok {
		return nil, domain.ValidationError(fmt.Sprintf("unknown question type %q", w.QuestionType), nil)
	}

	return &domain.Exercise{
		ExerciseNumber:         string(w.ExerciseNumber),
		OriginalQuestionNumber: string(w.OriginalQuestionNumber),
		SubQuestionNumber:      string(w.SubQuestionNumber),
		QuestionText:           w.QuestionText,
		QuestionType:           qt,
		MarksEstimate:          int(w.MarksEstimate),
		Difficulty:             string(w.Difficulty),
		QuestionRecord: domain.QuestionRecord{
			Answer:           string(w.Answer),
			Explanation:      string(w.Explanation),
			MentionedVisuals: decodeMentions(w.MentionedVisuals),
		},
	}, nil
}

// ChapterName is the first sentence of the chapter summary, or its first
// 50 characters when it has no full stop. Without a summary the name is
// derived from the source file.
func (ExerciseVariant) ChapterName(doc *domain.Document) string {
	if doc.ChapterInfo != nil && doc.ChapterInfo.ChapterSummary != "" {
		summary := doc.ChapterInfo.ChapterSummary
		if i := strings.Index(summary, "."); i >= 0 {
			return summary[:i]
		}
		return truncateRunes(summary, chapterNameRunes)
	}
	return chapterFromFile(doc.Metadata.SourcePDF)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
