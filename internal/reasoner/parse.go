package reasoner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

var errNoArray = errors.New("response contains no JSON array")

// stripFences removes a surrounding markdown code fence, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseSuggestions extracts the suggestion list from a raw model response.
func parseSuggestions(raw string) ([]Suggestion, error) {
	s := stripFences(raw)

	start := strings.IndexByte(s, '[')
	end := strings.LastIndexByte(s, ']')
	if start < 0 || end < start {
		return nil, errNoArray
	}

	var items []Suggestion
	if err := json.Unmarshal([]byte(s[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("decoding suggestions: %w", err)
	}
	return items, nil
}
