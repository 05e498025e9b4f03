// Package genre holds the canonical genre vocabulary: suggestions for a
// collection, related genres and mapping of free-form metadata categories.
package genre

import (
	"sort"
	"strings"
	"unicode"

	"github.com/springymate/book-scanner/internal/book"
)

// MaxSuggestions is the number of genres Suggest returns.
const MaxSuggestions = 5

// Common is the canonical genre list, in display order.
var Common = []string{
	"Fiction", "Non-Fiction", "Mystery", "Science Fiction",
	"Fantasy", "Romance", "Thriller", "Biography", "History",
	"Self-Help", "Business", "Technology", "Art", "Poetry", "Drama",
}

var related = map[string][]string{
	"Fiction":         {"Romance", "Mystery", "Thriller", "Drama"},
	"Science Fiction": {"Fantasy", "Technology"},
	"Fantasy":         {"Science Fiction", "Fiction"},
	"Mystery":         {"Thriller", "Fiction"},
	"Thriller":        {"Mystery", "Fiction"},
	"Romance":         {"Fiction", "Drama"},
	"Non-Fiction":     {"Biography", "History", "Self-Help", "Business"},
	"Biography":       {"Non-Fiction", "History"},
	"History":         {"Biography", "Non-Fiction"},
	"Self-Help":       {"Non-Fiction", "Business"},
	"Business":        {"Self-Help", "Non-Fiction", "Technology"},
	"Technology":      {"Business", "Science Fiction"},
	"Art":             {"Poetry", "Drama"},
	"Poetry":          {"Art", "Drama"},
	"Drama":           {"Poetry", "Art", "Fiction"},
}

// keywords maps lowercase category fragments to a canonical genre. Longer
// fragments are checked first so "science fiction" wins over "fiction".
var keywords = map[string]string{
	"science fiction":      "Science Fiction",
	"sci-fi":               "Science Fiction",
	"speculative":          "Science Fiction",
	"literary fiction":     "Fiction",
	"contemporary fiction": "Fiction",
	"general fiction":      "Fiction",
	"classic":              "Fiction",
	"fiction":              "Fiction",
	"nonfiction":           "Non-Fiction",
	"non-fiction":          "Non-Fiction",
	"detective":            "Mystery",
	"crime":                "Mystery",
	"mystery":              "Mystery",
	"suspense":             "Thriller",
	"thriller":             "Thriller",
	"fantasy":              "Fantasy",
	"romance":              "Romance",
	"memoir":               "Biography",
	"autobiography":        "Biography",
	"biography":            "Biography",
	"historical":           "History",
	"history":              "History",
	"self help":            "Self-Help",
	"self-help":            "Self-Help",
	"personal development": "Self-Help",
	"entrepreneurship":     "Business",
	"management":           "Business",
	"business":             "Business",
	"economics":            "Business",
	"programming":          "Technology",
	"computer science":     "Technology",
	"computers":            "Technology",
	"technology":           "Technology",
	"art history":          "Art",
	"design":               "Art",
	"art":                  "Art",
	"poems":                "Poetry",
	"verse":                "Poetry",
	"poetry":               "Poetry",
	"plays":                "Drama",
	"theater":              "Drama",
	"theatre":              "Drama",
	"drama":                "Drama",
}

var keywordOrder = func() []string {
	keys := make([]string, 0, len(keywords))
	for k := range keywords {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Canonical returns the canonical spelling of g, or "" if g is not a known genre.
func Canonical(g string) string {
	g = strings.TrimSpace(g)
	for _, c := range Common {
		if strings.EqualFold(c, g) {
			return c
		}
	}
	return ""
}

// Classify maps a free-form metadata category such as "Juvenile Fiction /
// Fantasy & Magic" to a canonical genre. Returns "" when nothing matches.
func Classify(category string) string {
	if c := Canonical(category); c != "" {
		return c
	}
	lower := strings.ToLower(category)
	// Google Books uses "Fiction / Science Fiction / General"; the most
	// specific segment is the last meaningful one.
	segments := strings.Split(lower, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := strings.TrimSpace(segments[i])
		if seg == "" || seg == "general" {
			continue
		}
		for _, k := range keywordOrder {
			if hasWordPrefix(seg, k) {
				return keywords[k]
			}
		}
	}
	return ""
}

// hasWordPrefix reports whether k occurs in s starting at a word boundary.
func hasWordPrefix(s, k string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], k)
		if j < 0 {
			return false
		}
		at := i + j
		if at == 0 || !unicode.IsLetter(rune(s[at-1])) {
			return true
		}
		i = at + 1
	}
}

// Related returns genres related to the input genres, excluding the inputs,
// in canonical order.
func Related(genres []string) []string {
	in := make(map[string]bool, len(genres))
	for _, g := range genres {
		if c := Canonical(g); c != "" {
			in[c] = true
		}
	}

	out := make(map[string]bool)
	for g := range in {
		for _, r := range related[g] {
			if !in[r] {
				out[r] = true
			}
		}
	}

	var result []string
	for _, c := range Common {
		if out[c] {
			result = append(result, c)
		}
	}
	return result
}

// Of returns the canonical genre of one book: its detected genre hint when
// known, otherwise the first classifiable metadata category.
func Of(b book.EnrichedBook) string {
	if c := Canonical(b.Candidate.GenreHint); c != "" {
		return c
	}
	if c := Classify(b.Candidate.GenreHint); c != "" {
		return c
	}
	for _, cat := range b.Categories() {
		if c := Classify(cat); c != "" {
			return c
		}
	}
	return ""
}

// Suggest proposes up to MaxSuggestions genres for a collection, most common
// first. With nothing classifiable it returns the first common genres.
func Suggest(detected []book.EnrichedBook) []string {
	counts := make(map[string]int)
	for _, b := range detected {
		if g := Of(b); g != "" {
			counts[g]++
		}
	}

	if len(counts) == 0 {
		return append([]string(nil), Common[:MaxSuggestions]...)
	}

	ranked := make([]string, 0, len(counts))
	for g := range counts {
		ranked = append(ranked, g)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return index(ranked[i]) < index(ranked[j])
	})

	if len(ranked) > MaxSuggestions {
		ranked = ranked[:MaxSuggestions]
	}
	return ranked
}

func index(g string) int {
	for i, c := range Common {
		if c == g {
			return i
		}
	}
	return len(Common)
}
