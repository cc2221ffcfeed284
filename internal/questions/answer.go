package questions

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/spherical/textbook-extractor/internal/domain"
)

// Tried in order; the first match containing a digit wins.
var answerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`∴\s*([^.]+)`),
	regexp.MustCompile(`જવાબ\s*:?\s*([^.]+)`),
	regexp.MustCompile(`ઉકેલ\s*:?\s*([^.]+)`),
	regexp.MustCompile(`x\s*=\s*\d+.*y\s*=\s*\d+`),
	regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+\s*=\s*\d+[^.]*`),
}

// FinalAnswer looks for a stated final answer in a worked solution. It
// returns domain.AnswerIncomplete when none is found.
func FinalAnswer(text string) string {
	for _, re := range answerPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			candidate := m[0]
			if len(m) > 1 {
				candidate = m[1]
			}
			if strings.IndexFunc(candidate, unicode.IsDigit) >= 0 {
				return strings.TrimSpace(candidate)
			}
		}
	}
	return domain.AnswerIncomplete
}
