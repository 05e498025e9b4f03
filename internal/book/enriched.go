package book

import (
	"github.com/goccy/go-json"
)

// Candidate is a detected book guess: the possibly noisy title and author read
// off a spine, with optional detector confidence and genre hint.
type Candidate struct {
	Title      string   `json:"title" yaml:"title"`
	Author     string   `json:"author" yaml:"author"`
	Confidence *float64 `json:"confidence" yaml:"confidence"`
	GenreHint  string   `json:"genre" yaml:"genre"`
}

// Status tells whether an EnrichedBook carries resolved metadata.
type Status string

const (
	StatusResolved    Status = "resolved"
	StatusUnavailable Status = "unavailable"
)

// EnrichedBook pairs a candidate with its resolved metadata.
// Record is nil when no source knew the book; the accessors are nil-safe so
// callers treat both cases the same way.
type EnrichedBook struct {
	Candidate Candidate
	Record    *Record
	Links     *PurchaseLinks
}

// NewEnrichedBook builds an EnrichedBook, deriving purchase links from the record.
func NewEnrichedBook(c Candidate, r *Record, affiliateTag string) EnrichedBook {
	return EnrichedBook{
		Candidate: c,
		Record:    r,
		Links:     BuildPurchaseLinks(r, affiliateTag),
	}
}

// Status returns StatusResolved when metadata was found.
func (b EnrichedBook) Status() Status {
	if b.Record == nil {
		return StatusUnavailable
	}
	return StatusResolved
}

// Title prefers the canonical title from metadata over the detected one.
func (b EnrichedBook) Title() string {
	if b.Record != nil && b.Record.Title != nil {
		return *b.Record.Title
	}
	return b.Candidate.Title
}

// Author prefers the detected author, falling back to the first metadata author.
func (b EnrichedBook) Author() string {
	if b.Candidate.Author != "" {
		return b.Candidate.Author
	}
	if b.Record != nil && len(b.Record.Authors) > 0 {
		return b.Record.Authors[0]
	}
	return ""
}

func (b EnrichedBook) CoverURL() (string, bool) {
	if b.Record == nil {
		return "", false
	}
	return deref(b.Record.CoverURL)
}

func (b EnrichedBook) Description() (string, bool) {
	if b.Record == nil {
		return "", false
	}
	return deref(b.Record.Description)
}

func (b EnrichedBook) AverageRating() (float64, bool) {
	if b.Record == nil {
		return 0, false
	}
	return deref(b.Record.AverageRating)
}

func (b EnrichedBook) RatingsCount() (int, bool) {
	if b.Record == nil {
		return 0, false
	}
	return deref(b.Record.RatingsCount)
}

func (b EnrichedBook) ISBN13() (string, bool) {
	if b.Record == nil {
		return "", false
	}
	return deref(b.Record.ISBN13)
}

// Categories returns the metadata categories, or nil.
func (b EnrichedBook) Categories() []string {
	if b.Record == nil {
		return nil
	}
	return b.Record.Categories
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// enrichedView is the flat serialized form of an EnrichedBook. Every field is
// always present so consumers see one shape whether or not metadata resolved.
type enrichedView struct {
	Title         string         `json:"title" yaml:"title"`
	Author        string         `json:"author" yaml:"author"`
	DetectedTitle string         `json:"detected_title" yaml:"detected_title"`
	Confidence    *float64       `json:"confidence" yaml:"confidence"`
	Status        Status         `json:"status" yaml:"status"`
	Sources       []string       `json:"sources" yaml:"sources"`
	Authors       []string       `json:"authors" yaml:"authors"`
	CoverURL      *string        `json:"cover_url" yaml:"cover_url"`
	AverageRating *float64       `json:"average_rating" yaml:"average_rating"`
	RatingsCount  *int           `json:"ratings_count" yaml:"ratings_count"`
	Description   *string        `json:"description" yaml:"description"`
	PublishedDate *string        `json:"published_date" yaml:"published_date"`
	PageCount     *int           `json:"page_count" yaml:"page_count"`
	ISBN10        *string        `json:"isbn_10" yaml:"isbn_10"`
	ISBN13        *string        `json:"isbn_13" yaml:"isbn_13"`
	Categories    []string       `json:"categories" yaml:"categories"`
	Subjects      []string       `json:"subjects" yaml:"subjects"`
	PurchaseLinks *PurchaseLinks `json:"purchase_links" yaml:"purchase_links"`
}

func (b EnrichedBook) view() enrichedView {
	v := enrichedView{
		Title:         b.Title(),
		Author:        b.Author(),
		DetectedTitle: b.Candidate.Title,
		Confidence:    b.Candidate.Confidence,
		Status:        b.Status(),
		Sources:       []string{},
		Authors:       []string{},
		Categories:    []string{},
		Subjects:      []string{},
		PurchaseLinks: b.Links,
	}
	if r := b.Record; r != nil {
		v.CoverURL = r.CoverURL
		v.AverageRating = r.AverageRating
		v.RatingsCount = r.RatingsCount
		v.Description = r.Description
		v.PublishedDate = r.PublishedDate
		v.PageCount = r.PageCount
		v.ISBN10 = r.ISBN10
		v.ISBN13 = r.ISBN13
		if r.Sources != nil {
			v.Sources = r.Sources
		}
		if r.Authors != nil {
			v.Authors = r.Authors
		}
		if r.Categories != nil {
			v.Categories = r.Categories
		}
		if r.Subjects != nil {
			v.Subjects = r.Subjects
		}
	}
	return v
}

// MarshalJSON implements json.Marshaler.
func (b EnrichedBook) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.view())
}

// MarshalYAML implements yaml.Marshaler.
func (b EnrichedBook) MarshalYAML() (any, error) {
	return b.view(), nil
}
