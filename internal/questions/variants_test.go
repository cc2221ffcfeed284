package questions

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/textbook-extractor/internal/domain"
)

func TestExerciseDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		item string
		kind domain.ErrorType
	}{
		{"not an object", `"question"`, domain.ErrorTypeParse},
		{"missing text", `{"question_type": "True / False"}`, domain.ErrorTypeValidation},
		{"missing type", `{"question_text": "સાચું કે ખોટું"}`, domain.ErrorTypeValidation},
		{"unknown type", `{"question_text": "q", "question_type": "Essay"}`, domain.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExerciseVariant{}.Decode(json.RawMessage(tt.item), &domain.Page{})
			require.Error(t, err)
			assert.True(t, domain.IsType(err, tt.kind))
		})
	}
}

func TestExerciseDecodeOptionalFields(t *testing.T) {
	tests := []struct {
		marks string
		want  int
	}{
		{`3`, 3},
		{`"3"`, 3},
		{`""`, 0},
		{`"3 ગુણ"`, 3},
		{`"૪ ગુણ"`, 4},
		{`2.5`, 3},
		{`"1.4"`, 1},
		{`-2`, 0},
		{`null`, 0},
		{`{"min": 2}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.marks, func(t *testing.T) {
			item := `{"question_text": "હલ કરો", "question_type": "Long Answer (LA)", "marks_estimate": ` + tt.marks + `}`
			ex, err := ExerciseVariant{}.Decode(json.RawMessage(item), &domain.Page{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ex.MarksEstimate)
		})
	}

	item := `{"exercise_number": 3.1, "original_question_number": {"n": 1}, "question_text": "હલ કરો",
		"question_type": "True / False", "answer": 5, "explanation": ["x"], "difficulty": null}`
	ex, err := ExerciseVariant{}.Decode(json.RawMessage(item), &domain.Page{})
	require.NoError(t, err)
	assert.Equal(t, "3.1", ex.ExerciseNumber)
	assert.Empty(t, ex.OriginalQuestionNumber)
	assert.Equal(t, "5", ex.Answer)
	assert.Empty(t, ex.Explanation)
	assert.Empty(t, ex.Difficulty)
}

func TestDecodeMentionsIsLenient(t *testing.T) {
	assert.Equal(t, []domain.VisualMention{}, decodeMentions(nil))
	assert.Equal(t, []domain.VisualMention{}, decodeMentions(json.RawMessage(`"આકૃતિ 3.1"`)))

	got := decodeMentions(json.RawMessage(`[{"type": "આલેખ", "reference": "આલેખ 3.2"}, 7, {}, {"reference": "કોષ્ટક 3.1"}]`))
	assert.Equal(t, []domain.VisualMention{
		{Type: "આલેખ", Reference: "આલેખ 3.2"},
		{Reference: "કોષ્ટક 3.1"},
	}, got)
}

func TestExampleDecodeFallsBackToPageAnswer(t *testing.T) {
	page := &domain.Page{Text: "ઉદાહરણ 3. ... જવાબ: 42 કિમી."}
	ex, err := ExampleVariant{}.Decode(json.RawMessage(`{"question": "અંતર શોધો", "explanation": "ઝડપ અને સમય"}`), page)
	require.NoError(t, err)
	assert.Equal(t, "42 કિમી", ex.Answer)

	ex, err = ExampleVariant{}.Decode(json.RawMessage(`{"question": "અંતર શોધો"}`), &domain.Page{Text: "કંઈ નથી"})
	require.NoError(t, err)
	assert.Equal(t, domain.AnswerIncomplete, ex.Answer)

	ex, err = ExampleVariant{}.Decode(json.RawMessage(`{"example_number": 4, "question": "x શોધો", "answer": 7}`), page)
	require.NoError(t, err)
	assert.Equal(t, "4", ex.ExampleNumber)
	assert.Equal(t, "7", ex.Answer)
}

func TestHasExerciseSection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"numbered heading", "સ્વાધ્યાય 3.1\nનીચેના પ્રશ્નો", true},
		{"english heading", "Exercise 4.2", true},
		{"indicator then question", "અભ્યાસ માટે\n1. x + y = 5 ઉકેલો", true},
		{"indicator then roman", "પ્રશ્નો\n (ii) સાચું કે ખોટું", true},
		{"indicator then letter", "સ્વાધ્યાય\nઅ) ત્રિકોણ દોરો", true},
		{"question too far", "અભ્યાસ" + strings.Repeat(" ", 600) + "\n1. પ્રશ્ન", false},
		{"no indicator", "ઉદાહરણ 1\n1. ઉકેલ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasExerciseSection(tt.text))
		})
	}

	assert.True(t, ExerciseVariant{}.Prefilter("કંઈ પણ"))
	assert.False(t, ExerciseVariant{Strict: true}.Prefilter("કંઈ પણ"))
}

func TestChapterNames(t *testing.T) {
	withSummary := func(s string) *domain.Document {
		return &domain.Document{
			Metadata:    domain.DocumentMetadata{SourcePDF: "linear-equations.pdf"},
			ChapterInfo: &domain.ChapterInfo{ChapterSummary: s},
		}
	}

	assert.Equal(t, "દ્વિચલ સુરેખ સમીકરણયુગ્મ", ExampleVariant{}.ChapterName(withSummary("દ્વિચલ સુરેખ સમીકરણ અને આલેખ")))
	assert.Equal(t, "Linear Equations", ExampleVariant{}.ChapterName(withSummary("ત્રિકોણ")))
	assert.Equal(t, "Linear Equations", ExerciseVariant{}.ChapterName(withSummary("")))

	assert.Equal(t, "વર્તુળ", ExerciseVariant{}.ChapterName(withSummary("વર્તુળ. સ્પર્શક")))
	long := strings.Repeat("ક", 60)
	assert.Equal(t, strings.Repeat("ક", 50), ExerciseVariant{}.ChapterName(withSummary(long)))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Linear Equations", chapterFromFile("linear-equations.pdf"))
	assert.Equal(t, "Ch3 દ્વિચલ", chapterFromFile("/books/CH3-દ્વિચલ.pdf"))
	assert.Equal(t, "", chapterFromFile(""))
}

func TestFinalAnswer(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"તેથી ∴ x = 8", "x = 8"},
		{"જવાબ: 42 કિમી.", "42 કિમી"},
		{"ઉકેલ : x = 3", "x = 3"},
		{"આમ x = 3 અને y = 2", "x = 3 અને y = 2"},
		{"કિંમત = 12 રૂપિયા", "કિંમત = 12 રૂપિયા"},
		{"∴ બાકી", domain.AnswerIncomplete},
		{"", domain.AnswerIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, FinalAnswer(tt.text))
		})
	}
}

func TestSummarize(t *testing.T) {
	exercises := []*domain.Exercise{
		{ExerciseNumber: "3.1", QuestionType: domain.QuestionShortAnswerII, Difficulty: "Medium",
			QuestionRecord: domain.QuestionRecord{PageNumber: 4, MentionedVisuals: []domain.VisualMention{
				{FullDescription: "આકૃતિ 3.1"}, {FullDescription: domain.DescriptionUnavailable},
			}, DetectedVisuals: []domain.DetectedVisual{{}}}},
		{ExerciseNumber: "3.1", QuestionType: domain.QuestionLongAnswer, QuestionRecord: domain.QuestionRecord{PageNumber: 4}},
		{ExerciseNumber: "3.2", QuestionType: domain.QuestionShortAnswerII, Difficulty: "Medium", QuestionRecord: domain.QuestionRecord{PageNumber: 5}},
	}

	s := Summarize(exercises)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, map[string]int{string(domain.QuestionShortAnswerII): 2, string(domain.QuestionLongAnswer): 1}, s.QuestionTypes)
	assert.Equal(t, map[string]int{"Medium": 2, "Unknown": 1}, s.Difficulties)
	assert.Equal(t, 2, s.ExerciseSets)
	assert.Equal(t, 2, s.UniquePages)
	assert.Equal(t, 2, s.MentionedVisuals)
	assert.Equal(t, 1, s.ResolvedVisuals)
	assert.Equal(t, 1, s.DetectedVisuals)

	ex := Summarize([]*domain.Example{{QuestionType: ""}, {QuestionType: "Long Answer"}})
	assert.Equal(t, map[string]int{"Unknown": 1, "Long Answer": 1}, ex.QuestionTypes)
	assert.Nil(t, ex.Difficulties)
}
