package domain

import "strings"

// DetectionMethod records which pathway proposed a visual object.
type DetectionMethod string

const (
	// DetectionVisionObject is an object localized by the vision service and
	// kept by the mathematical-content filter.
	DetectionVisionObject DetectionMethod = "vision_object_detection"
	// DetectionGenerative is a visual proposed by the generative pass from
	// page text and the chapter hint table.
	DetectionGenerative DetectionMethod = "gemini_ai_detection"
)

// ParseDetectionMethod returns the method for s and whether it is known.
func ParseDetectionMethod(s string) (DetectionMethod, bool) {
	switch DetectionMethod(s) {
	case DetectionVisionObject:
		return DetectionVisionObject, true
	case DetectionGenerative:
		return DetectionGenerative, true
	default:
		return "", false
	}
}

// VisualType is the closed category set produced by the visual classifier.
// Values are the labels written to output records.
type VisualType string

const (
	VisualTable         VisualType = "કોષ્ટક"
	VisualFigureOrGraph VisualType = "આકૃતિ/આલેખ"
	VisualDiagram       VisualType = "ચિત્ર"
	VisualLineDiagram   VisualType = "રેખાકૃતિ"
	VisualGenericFigure VisualType = "આકૃતિ"
)

// QuestionSource tags a QuestionRecord with the pipeline that produced it.
type QuestionSource string

const (
	SourceExample  QuestionSource = "example"
	SourceExercise QuestionSource = "exercise"
)

// RecordStatus is the review lifecycle of an extracted question.
type RecordStatus string

const (
	// StatusInactive means not yet reviewed or published.
	StatusInactive RecordStatus = "inactive"
)

// QuestionType is the closed set of exercise question kinds.
type QuestionType string

const (
	QuestionVeryShort     QuestionType = "Very Short / Objective (O)"
	QuestionMCQ           QuestionType = "MCQs (Multiple Choice Questions)"
	QuestionTrueFalse     QuestionType = "True / False"
	QuestionFillBlanks    QuestionType = "Fill in the Blanks"
	QuestionShortAnswerI  QuestionType = "Short Answer – I (SA-I)"
	QuestionShortAnswerII QuestionType = "Short Answer – II (SA-II)"
	QuestionLongAnswer    QuestionType = "Long Answer (LA)"
	QuestionMatch         QuestionType = "Match the Values / (Jodka Jodo)"
	QuestionDiagram       QuestionType = "Diagram-Based"
)

// QuestionTypes lists every exercise question type in prompt order.
var QuestionTypes = []QuestionType{
	QuestionVeryShort,
	QuestionMCQ,
	QuestionTrueFalse,
	QuestionFillBlanks,
	QuestionShortAnswerI,
	QuestionShortAnswerII,
	QuestionLongAnswer,
	QuestionMatch,
	QuestionDiagram,
}

// ParseQuestionType matches s against the closed set. Matching ignores case,
// surrounding space and the difference between a hyphen and an en dash.
func ParseQuestionType(s string) (QuestionType, bool) {
	want := normalizeLabel(s)
	if want == "" {
		return "", false
	}
	for _, qt := range QuestionTypes {
		if normalizeLabel(string(qt)) == want {
			return qt, true
		}
	}
	return "", false
}

func normalizeLabel(s string) string {
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
