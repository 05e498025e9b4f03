// Package book provides the bibliographic types shared by the metadata
// sources, the resolver, the enricher and the recommendation pipeline.
package book

import (
	"context"
)

// Source defines the interface for looking up book metadata from one external
// provider. Each implementation handles its own authentication and translates
// the provider payload into a partial Record.
type Source interface {
	// Name returns the human-readable name of the source (e.g., "Open Library").
	// It is recorded as provenance on every Record the source produces.
	Name() string

	// Lookup searches the source by title and optional author and returns the
	// best matching result.
	// Returns nil, nil if no book matched.
	// Returns nil, error for transport failures, non-2xx responses and
	// malformed payloads.
	Lookup(ctx context.Context, title, author string) (*Record, error)
}

// Record contains book metadata from one source, or merged from several.
// Pointer fields distinguish "not set" from a zero value.
// A Record is never mutated after construction.
type Record struct {
	// Sources lists the names of the sources that contributed fields,
	// in merge order.
	Sources []string `json:"sources" yaml:"sources"`

	// Title is the canonical title reported by the source.
	Title *string `json:"title" yaml:"title"`

	// Authors are the book's author names.
	Authors []string `json:"authors" yaml:"authors"`

	// CoverURL points to the largest cover image the source offered.
	CoverURL *string `json:"cover_url" yaml:"cover_url"`

	// AverageRating is on a 0-5 scale.
	AverageRating *float64 `json:"average_rating" yaml:"average_rating"`

	RatingsCount  *int    `json:"ratings_count" yaml:"ratings_count"`
	Description   *string `json:"description" yaml:"description"`
	PublishedDate *string `json:"published_date" yaml:"published_date"`
	PageCount     *int    `json:"page_count" yaml:"page_count"`
	ISBN10        *string `json:"isbn_10" yaml:"isbn_10"`
	ISBN13        *string `json:"isbn_13" yaml:"isbn_13"`

	// Categories and Subjects are sets; order carries no meaning.
	Categories []string `json:"categories" yaml:"categories"`
	Subjects   []string `json:"subjects" yaml:"subjects"`
}

// IsFull reports whether the record has a cover, a rating and a description.
// A full record from a higher-priority source makes further lookups pointless.
func (r *Record) IsFull() bool {
	if r == nil {
		return false
	}
	return r.CoverURL != nil && r.AverageRating != nil && r.Description != nil
}
