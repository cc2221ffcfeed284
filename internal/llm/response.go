package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/spherical/textbook-extractor/internal/domain"
)

var fencePattern = regexp.MustCompile("(?s)^\\s*```(?:json|JSON)?\\s*\\n?(.*?)\\n?\\s*```\\s*$")

// CleanFences removes a surrounding markdown code fence, if any.
func CleanFences(s string) string {
	s = strings.TrimSpace(s)

	if m := fencePattern.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// DecodeArray parses a generative answer expected to hold a JSON array and
// returns its elements undecoded so each can be validated on its own.
// Anything that is not an array yields domain.ErrNoData.
func DecodeArray(response string) ([]json.RawMessage, error) {
	s := CleanFences(response)
	if !strings.HasPrefix(s, "[") {
		return nil, domain.ErrNoData
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, domain.ErrNoData
	}
	return items, nil
}
