package book

import (
	"strings"
)

// Caps applied to merged list fields.
const (
	MaxAuthors    = 3
	MaxCategories = 5
	MaxSubjects   = 5
)

// Merge combines partial records in priority order into a single Record.
// For each scalar field the first non-nil value wins; Categories and Subjects
// are unioned case-insensitively; Authors come from the first record that has
// any. Nil records are skipped. Merge returns nil when no record is non-nil.
//
// Merge never modifies its inputs.
func Merge(records ...*Record) *Record {
	merged := &Record{}
	found := false

	for _, r := range records {
		if r == nil {
			continue
		}
		found = true

		merged.Sources = mergeStringSlices(merged.Sources, r.Sources, 0)

		if merged.Title == nil {
			merged.Title = r.Title
		}
		if merged.CoverURL == nil {
			merged.CoverURL = r.CoverURL
		}
		if merged.AverageRating == nil {
			merged.AverageRating = r.AverageRating
		}
		if merged.RatingsCount == nil {
			merged.RatingsCount = r.RatingsCount
		}
		if merged.Description == nil {
			merged.Description = r.Description
		}
		if merged.PublishedDate == nil {
			merged.PublishedDate = r.PublishedDate
		}
		if merged.PageCount == nil {
			merged.PageCount = r.PageCount
		}
		if merged.ISBN10 == nil {
			merged.ISBN10 = r.ISBN10
		}
		if merged.ISBN13 == nil {
			merged.ISBN13 = r.ISBN13
		}

		// Authors - prefer first non-empty list
		if len(merged.Authors) == 0 && len(r.Authors) > 0 {
			merged.Authors = mergeStringSlices(nil, r.Authors, MaxAuthors)
		}

		merged.Categories = mergeStringSlices(merged.Categories, r.Categories, MaxCategories)
		merged.Subjects = mergeStringSlices(merged.Subjects, r.Subjects, MaxSubjects)
	}

	if !found {
		return nil
	}
	return merged
}

// mergeStringSlices merges two string slices, removing case-insensitive
// duplicates and blanks. A positive limit caps the result length.
func mergeStringSlices(a, b []string, limit int) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(a)+len(b))
	result := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			key := strings.ToLower(s)
			if s == "" || seen[key] {
				continue
			}
			if limit > 0 && len(result) >= limit {
				return result
			}
			seen[key] = true
			result = append(result, s)
		}
	}

	return result
}
