package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/springymate/book-scanner/internal/book"
)

// candidateFile is the wrapped input form: {"books": [...]}.
type candidateFile struct {
	Books []book.Candidate `yaml:"books"`
}

// loadCandidates reads detected books from a YAML or JSON file. The file may
// hold a bare list or an object with a "books" list. Entries without a title
// are dropped.
func loadCandidates(path string) ([]book.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	return parseCandidates(data)
}

func parseCandidates(data []byte) ([]book.Candidate, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var raw []book.Candidate
	// JSON is valid YAML, so one decoder serves both formats.
	if data[0] == '[' || data[0] == '-' {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse candidates: %w", err)
		}
	} else {
		var wrapped candidateFile
		if err := yaml.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse candidates: %w", err)
		}
		raw = wrapped.Books
	}

	out := make([]book.Candidate, 0, len(raw))
	for _, c := range raw {
		c.Title = strings.TrimSpace(c.Title)
		c.Author = strings.TrimSpace(c.Author)
		if c.Title == "" {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
