package genre

import (
	"sort"

	"github.com/springymate/book-scanner/internal/book"
)

// Count is a label with its number of occurrences.
type Count struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Stats summarizes a detected collection.
type Stats struct {
	Total     int      `json:"total" yaml:"total"`
	Resolved  int      `json:"resolved" yaml:"resolved"`
	Genres    []Count  `json:"genres" yaml:"genres"`
	Authors   []Count  `json:"authors" yaml:"authors"`
	Suggested []string `json:"suggested" yaml:"suggested"`
	Related   []string `json:"related" yaml:"related"`
}

// Summarize counts genres and authors across the collection and attaches
// genre suggestions.
func Summarize(detected []book.EnrichedBook) Stats {
	genres := make(map[string]int)
	authors := make(map[string]int)
	s := Stats{Total: len(detected)}

	for _, b := range detected {
		if b.Status() == book.StatusResolved {
			s.Resolved++
		}
		g := Of(b)
		if g == "" {
			g = "Unknown"
		}
		genres[g]++
		a := b.Author()
		if a == "" {
			a = "Unknown"
		}
		authors[a]++
	}

	s.Genres = sortCounts(genres)
	s.Authors = sortCounts(authors)
	s.Suggested = Suggest(detected)
	s.Related = Related(s.Suggested)
	return s
}

func sortCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
