package domain

import "time"

// VisualMention is a textual citation of a visual inside a question record.
// FullDescription is filled during enhancement; unresolved mentions carry
// DescriptionUnavailable.
type VisualMention struct {
	Type            string `json:"type"`
	Reference       string `json:"reference"`
	Context         string `json:"context"`
	FullDescription string `json:"full_description"`
}

// DetectedVisual links a record to a page visual by content relevance
// rather than explicit citation.
type DetectedVisual struct {
	Type            VisualType      `json:"type"`
	ReferenceID     string          `json:"reference_id"`
	Description     string          `json:"description"`
	DetectionMethod DetectionMethod `json:"detection_method"`
	RelevanceScore  float64         `json:"relevance_score"`
}

// QuestionRecord holds the fields shared by examples and exercises.
type QuestionRecord struct {
	PageNumber            int              `json:"page_number"`
	Chapter               string           `json:"chapter"`
	Answer                string           `json:"answer"`
	Explanation           string           `json:"explanation"`
	MentionedVisuals      []VisualMention  `json:"mentioned_visuals"`
	DetectedVisuals       []DetectedVisual `json:"detected_visuals"`
	TotalVisualReferences int              `json:"total_visual_references"`
	ExtractedAt           time.Time        `json:"extracted_at"`
	Source                QuestionSource   `json:"source"`
	Status                RecordStatus     `json:"status"`
}

// Question is implemented by both record variants.
type Question interface {
	Base() *QuestionRecord
	Number() string
	Text() string
	TypeLabel() string
}

// Example is a worked example lifted from the chapter body.
type Example struct {
	ExampleNumber string `json:"example_number"`
	Question      string `json:"question"`
	QuestionType  string `json:"question_type"`
	QuestionRecord
}

func (e *Example) Base() *QuestionRecord { return &e.QuestionRecord }
func (e *Example) Number() string        { return e.ExampleNumber }
func (e *Example) Text() string          { return e.Question }
func (e *Example) TypeLabel() string     { return e.QuestionType }

// Exercise is one (sub)question from an exercise section.
type Exercise struct {
	ExerciseNumber         string       `json:"exercise_number"`
	OriginalQuestionNumber string       `json:"original_question_number"`
	SubQuestionNumber      string       `json:"sub_question_number"`
	QuestionText           string       `json:"question_text"`
	QuestionType           QuestionType `json:"question_type"`
	MarksEstimate          int          `json:"marks_estimate"`
	Difficulty             string       `json:"difficulty"`
	QuestionRecord
}

func (e *Exercise) Base() *QuestionRecord { return &e.QuestionRecord }
func (e *Exercise) Text() string          { return e.QuestionText }
func (e *Exercise) TypeLabel() string     { return string(e.QuestionType) }

// Number joins the exercise, question and sub-question numbers, e.g. "3.1/2/ii".
func (e *Exercise) Number() string {
	n := e.ExerciseNumber
	if e.OriginalQuestionNumber != "" {
		n += "/" + e.OriginalQuestionNumber
	}
	if e.SubQuestionNumber != "" {
		n += "/" + e.SubQuestionNumber
	}
	return n
}
