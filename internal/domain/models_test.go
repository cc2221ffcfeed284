package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionType(t *testing.T) {
	tests := []struct {
		in   string
		want QuestionType
		ok   bool
	}{
		{"Long Answer (LA)", QuestionLongAnswer, true},
		{"  long answer (la) ", QuestionLongAnswer, true},
		{"Short Answer - II (SA-II)", QuestionShortAnswerII, true},
		{"Short Answer – I (SA-I)", QuestionShortAnswerI, true},
		{"Diagram-Based", QuestionDiagram, true},
		{"Essay", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseQuestionType(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuestionTypesClosedSet(t *testing.T) {
	assert.Len(t, QuestionTypes, 9)
	for _, qt := range QuestionTypes {
		got, ok := ParseQuestionType(string(qt))
		assert.True(t, ok)
		assert.Equal(t, qt, got)
	}
}

func TestParseDetectionMethod(t *testing.T) {
	m, ok := ParseDetectionMethod("gemini_ai_detection")
	assert.True(t, ok)
	assert.Equal(t, DetectionGenerative, m)

	_, ok = ParseDetectionMethod("unknown")
	assert.False(t, ok)
}

func TestCounters(t *testing.T) {
	c := Counters{VisionCalls: 2, GenerativeCalls: 5}.Add(Counters{GenerativeCalls: 3})
	assert.Equal(t, 2, c.VisionCalls)
	assert.Equal(t, 8, c.GenerativeCalls)
	assert.Equal(t, 10, c.Total())
	assert.Equal(t, APIUsage{VisionAPICalls: 2, GeminiAPICalls: 8, TotalAPICalls: 10}, c.Usage())
}

func TestStatusErrorTruncatesBody(t *testing.T) {
	err := &StatusError{Service: "Vision", Code: 403, Body: strings.Repeat("ક", 250)}
	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "Vision API error: 403 - "))
	assert.Equal(t, 200, len([]rune(strings.TrimPrefix(msg, "Vision API error: 403 - "))))
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ConfigError("missing key", nil))
	assert.True(t, IsType(err, ErrorTypeConfig))
	assert.False(t, IsType(err, ErrorTypeIO))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeConfig))
}

func TestPageHelpers(t *testing.T) {
	p := Page{PageNumber: 3, Images: []VisualObject{{EducationalDescription: "a"}, {EducationalDescription: "b"}}}
	assert.False(t, p.Failed())
	assert.False(t, p.HasValidSummary())
	assert.False(t, p.Integrated())
	assert.Equal(t, []string{"a", "b"}, p.Descriptions())

	p.Summary = SummaryUnavailable
	assert.False(t, p.HasValidSummary())
	p.Summary = "સારાંશ"
	assert.True(t, p.HasValidSummary())

	p.Images[1].ReferenceID = "3_2"
	assert.True(t, p.Integrated())
}

func TestDocumentTotals(t *testing.T) {
	doc := Document{Pages: []Page{
		{PageNumber: 1, Text: "કખગ", Images: []VisualObject{{}}},
		{PageNumber: 2, Text: "ab", Images: []VisualObject{{}, {}}},
	}}
	images, chars := doc.Totals()
	assert.Equal(t, 3, images)
	assert.Equal(t, 5, chars)
}

func TestExerciseJSONInlinesRecord(t *testing.T) {
	ex := Exercise{
		ExerciseNumber:         "3.1",
		OriginalQuestionNumber: "2",
		SubQuestionNumber:      "ii",
		QuestionText:           "હલ કરો",
		QuestionType:           QuestionShortAnswerII,
		QuestionRecord: QuestionRecord{
			PageNumber: 4,
			Source:     SourceExercise,
			Status:     StatusInactive,
		},
	}
	assert.Equal(t, "3.1/2/ii", ex.Number())

	data, err := json.Marshal(&ex)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "exercise", m["source"])
	assert.Equal(t, "inactive", m["status"])
	assert.Equal(t, float64(4), m["page_number"])
	assert.Equal(t, "Short Answer – II (SA-II)", m["question_type"])
}
