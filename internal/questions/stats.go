package questions

import (
	"github.com/spherical/textbook-extractor/internal/domain"
)

const unknownLabel = "Unknown"

// Stats summarises a set of extracted records.
type Stats struct {
	Total            int            `json:"total"`
	QuestionTypes    map[string]int `json:"question_types"`
	Difficulties     map[string]int `json:"difficulties,omitempty"`
	ExerciseSets     int            `json:"exercise_sets,omitempty"`
	UniquePages      int            `json:"unique_pages"`
	MentionedVisuals int            `json:"mentioned_visuals"`
	ResolvedVisuals  int            `json:"resolved_visuals"`
	DetectedVisuals  int            `json:"detected_visuals"`
}

// Summarize computes distribution and visual reference statistics.
func Summarize[Q domain.Question](records []Q) Stats {
	s := Stats{
		Total:         len(records),
		QuestionTypes: make(map[string]int),
	}
	pages := make(map[int]struct{})
	sets := make(map[string]struct{})

	for _, q := range records {
		s.QuestionTypes[labelOrUnknown(q.TypeLabel())]++

		base := q.Base()
		if base.PageNumber != 0 {
			pages[base.PageNumber] = struct{}{}
		}
		s.MentionedVisuals += len(base.MentionedVisuals)
		for _, m := range base.MentionedVisuals {
			if m.FullDescription != "" && m.FullDescription != domain.DescriptionUnavailable {
				s.ResolvedVisuals++
			}
		}
		s.DetectedVisuals += len(base.DetectedVisuals)

		if ex, ok := any(q).(*domain.Exercise); ok {
			if s.Difficulties == nil {
				s.Difficulties = make(map[string]int)
			}
			s.Difficulties[labelOrUnknown(ex.Difficulty)]++
			if ex.ExerciseNumber != "" {
				sets[ex.ExerciseNumber] = struct{}{}
			}
		}
	}

	s.UniquePages = len(pages)
	s.ExerciseSets = len(sets)
	return s
}

func labelOrUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}
