// Package visuals links question text to the visuals detected on a page:
// explicit citations are resolved, uncited visuals are scored for relevance
// and every description can be classified into a visual type.
package visuals

import (
	"regexp"
	"strings"

	"github.com/spherical/textbook-extractor/internal/domain"
)

var numericToken = regexp.MustCompile(`\d+\.\d+`)

// Synonyms maps a lower-cased mention type to the words that identify it in
// a visual description.
type Synonyms map[string][]string

// ExampleSynonyms is the table used for worked examples.
var ExampleSynonyms = Synonyms{
	"કોષ્ટક": {"કોષ્ટક", "table"},
	"આકૃતિ": {"આકૃતિ", "આલેખ", "graph"},
	"ચિત્ર":  {"ચિત્ર", "diagram", "figure"},
}

// ExerciseSynonyms is the table used for exercise questions.
var ExerciseSynonyms = Synonyms{
	"આકૃતિ": {"આકૃતિ", "figure", "diagram"},
	"આલેખ":  {"આલેખ", "graph", "chart"},
	"કોષ્ટક": {"કોષ્ટક", "table"},
}

// Resolver matches a textual citation such as "કોષ્ટક 3.1" to a page visual.
type Resolver struct {
	synonyms Synonyms
}

// NewResolver creates a resolver using the given synonym table.
func NewResolver(synonyms Synonyms) *Resolver {
	return &Resolver{synonyms: synonyms}
}

// Resolve returns the description of the first candidate matching the
// citation, and its index in candidates. A candidate whose description
// carries both the citation's N.M number and its leading word wins over any
// keyword match. Otherwise the first candidate containing a synonym of
// visualType is returned.
func (r *Resolver) Resolve(reference, visualType string, candidates []domain.VisualObject) (string, int, bool) {
	if number := numericToken.FindString(reference); number != "" {
		typeWord := strings.Fields(reference)[0]
		for i, c := range candidates {
			desc := c.EducationalDescription
			if strings.Contains(desc, number) && strings.Contains(desc, typeWord) {
				return desc, i, true
			}
		}
	}

	keywords, ok := r.synonyms[strings.ToLower(strings.TrimSpace(visualType))]
	if !ok {
		return "", -1, false
	}
	for i, c := range candidates {
		desc := strings.ToLower(c.EducationalDescription)
		for _, kw := range keywords {
			if strings.Contains(desc, kw) {
				return c.EducationalDescription, i, true
			}
		}
	}

	return "", -1, false
}
