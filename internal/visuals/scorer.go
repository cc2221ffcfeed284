package visuals

import (
	"regexp"
	"strings"
)

const (
	keywordWeight   = 0.2
	referenceWeight = 0.4
	equationWeight  = 0.3
	maxScore        = 1.0
)

// DefaultThreshold is the score a visual must exceed to be linked.
const DefaultThreshold = 0.3

var scoreKeywords = []string{
	"સમીકરણ", "કોષ્ટક", "આકૃતિ", "આલેખ", "ગ્રાફ", "રેખા", "બિંદુ",
	"ઉકેલ", "હલ", "સંખ્યા", "મૂલ્ય", "છેદ", "intersection", "coordinate",
}

var (
	referencePattern = regexp.MustCompile(`(કોષ્ટક|આકૃતિ|ચિત્ર|આલેખ)\s*(\d+\.\d+)`)
	equationPattern  = regexp.MustCompile(`\d*[xy]\s*[+\-]\s*(?:\d*[xy]|\d+)\s*=\s*\d+`)
)

// Score rates how strongly passage and description talk about the same
// visual, in [0, 1]. It is pure: equal inputs always give equal scores.
func Score(passage, description string) float64 {
	score := 0.0

	p := strings.ToLower(passage)
	d := strings.ToLower(description)
	for _, kw := range scoreKeywords {
		if strings.Contains(p, kw) && strings.Contains(d, kw) {
			score += keywordWeight
		}
	}

	descRefs := referenceTokens(description)
	for ref := range referenceTokens(passage) {
		if _, ok := descRefs[ref]; ok {
			score += referenceWeight
		}
	}

	if equationPattern.MatchString(passage) && equationPattern.MatchString(description) {
		score += equationWeight
	}

	if score > maxScore {
		return maxScore
	}
	return score
}

// referenceTokens returns the distinct "<type> <N.M>" citations in s,
// normalized to a single space.
func referenceTokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, m := range referencePattern.FindAllStringSubmatch(s, -1) {
		out[m[1]+" "+m[2]] = struct{}{}
	}
	return out
}
