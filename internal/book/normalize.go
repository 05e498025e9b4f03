package book

import (
	"strings"
)

var joinerReplacer = strings.NewReplacer("&", " ", ",", " ", ";", " ")

// Normalize case-folds s and collapses runs of whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeAuthor normalizes an author string and strips the joiners used
// between co-authors, so "Preston & Child" and "preston and child" compare equal.
func NormalizeAuthor(s string) string {
	fields := strings.Fields(joinerReplacer.Replace(strings.ToLower(s)))
	kept := fields[:0]
	for _, f := range fields {
		if f == "and" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// Key returns the normalized cache and deduplication key for a title/author pair.
func Key(title, author string) string {
	return Normalize(title) + "|" + NormalizeAuthor(author)
}

// SameBook reports whether two title/author pairs name the same book.
func SameBook(titleA, authorA, titleB, authorB string) bool {
	return Key(titleA, authorA) == Key(titleB, authorB)
}
