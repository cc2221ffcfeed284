package visuals

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreKeywordsAndReference(t *testing.T) {
	passage := "ચિત્ર 3.1 માં સમીકરણ નું બિંદુ જુઓ"
	description := "ચિત્ર 3.1: સમીકરણ દર્શાવતો ગ્રાફ અને બિંદુ"
	assert.InDelta(t, 0.8, Score(passage, description), 1e-9)
}

func TestScoreSignals(t *testing.T) {
	tests := []struct {
		name        string
		passage     string
		description string
		want        float64
	}{
		{"nothing shared", "પ્રશ્ન", "વર્તુળ", 0},
		{"one keyword", "સમીકરણ", "સમીકરણ", 0.2},
		{"keyword case insensitive", "INTERSECTION point", "intersection of lines", 0.2},
		{"reference needs both", "ચિત્ર 3.1", "ચિત્ર 3.2", 0},
		{"reference spacing normalized", "ચિત્ર3.1 જુઓ", "ચિત્ર 3.1", 0.4},
		{"repeated reference counted once", "ચિત્ર 3.1 અને ચિત્ર 3.1", "ચિત્ર 3.1", 0.4},
		{"single variable equation", "2x+3=7 ઉકેલો", "x + 3 = 7", 0.3},
		{"two variable equation", "x + y = 5", "2x - y = 1", 0.3},
		{"equation in one side only", "x + y = 5", "કોઈ સમીકરણ નથી", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.passage, tt.description), 1e-9)
		})
	}
}

func TestScoreCappedAndDeterministic(t *testing.T) {
	text := strings.Join(scoreKeywords, " ") + " કોષ્ટક 3.1 આકૃતિ 3.2 x + y = 5"

	first := Score(text, text)
	assert.Equal(t, 1.0, first)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(text, text))
	}
}

func TestScoreMonotonic(t *testing.T) {
	passage := "સમીકરણ"
	description := "સમીકરણ"
	base := Score(passage, description)

	passage += " બિંદુ ચિત્ર 4.1"
	description += " બિંદુ ચિત્ર 4.1"
	more := Score(passage, description)
	assert.Greater(t, more, base)

	passage += " x + y = 3"
	description += " 2x + y = 9"
	assert.GreaterOrEqual(t, Score(passage, description), more)
}
