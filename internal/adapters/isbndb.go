package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/springymate/book-scanner/internal/book"
)

const isbndbBaseURL = "https://api2.isbndb.com"

// ISBNdb is an optional third metadata source, used only with an API key.
type ISBNdb struct {
	client
}

// Compile-time check that ISBNdb implements book.Source.
var _ book.Source = (*ISBNdb)(nil)

// NewISBNdb creates an ISBNdb adapter. Without WithAPIKey every lookup
// reports "not found".
func NewISBNdb(opts ...Option) *ISBNdb {
	return &ISBNdb{client: newClient("ISBNdb", isbndbBaseURL, opts)}
}

// Name returns the human-readable name of this source.
func (i *ISBNdb) Name() string {
	return i.source
}

// Configured reports whether an API key is set.
func (i *ISBNdb) Configured() bool {
	return i.apiKey != ""
}

// isbndbSearchResponse matches the ISBNdb /books response structure.
type isbndbSearchResponse struct {
	Total int          `json:"total"`
	Books []isbndbBook `json:"books"`
}

type isbndbBook struct {
	Title         string   `json:"title"`
	ISBN          string   `json:"isbn"`
	ISBN10        string   `json:"isbn10"`
	ISBN13        string   `json:"isbn13"`
	DatePublished string   `json:"date_published"`
	Pages         int      `json:"pages"`
	Overview      string   `json:"overview"`
	Synopsis      string   `json:"synopsis"`
	Image         string   `json:"image"`
	ImageOriginal string   `json:"image_original"`
	Authors       []string `json:"authors"`
	Subjects      []string `json:"subjects"`
}

// Lookup searches ISBNdb by title, preferring results by the given author.
func (i *ISBNdb) Lookup(ctx context.Context, title, author string) (*book.Record, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, book.ErrEmptyQuery
	}
	if !i.Configured() {
		// No API key - skip this source silently
		return nil, nil
	}

	params := url.Values{}
	params.Set("column", "title")
	params.Set("pageSize", fmt.Sprint(maxResults))

	header := http.Header{}
	header.Set("Authorization", i.apiKey)

	var result isbndbSearchResponse
	rawURL := fmt.Sprintf("%s/books/%s?%s", i.baseURL, url.PathEscape(title), params.Encode())
	err := i.getJSON(ctx, rawURL, header, &result)
	if errors.Is(err, errStatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(result.Books) == 0 {
		return nil, nil
	}

	titles := make([]string, len(result.Books))
	for n, b := range result.Books {
		titles[n] = b.Title
	}
	idx := bestMatch(title, titles)
	if author = strings.TrimSpace(author); author != "" {
		idx = preferAuthor(idx, author, result.Books)
	}
	b := result.Books[idx]

	rec := &book.Record{
		Sources:       []string{i.Name()},
		Title:         book.String(b.Title),
		Authors:       b.Authors,
		PublishedDate: book.String(b.DatePublished),
		PageCount:     book.Int(b.Pages),
	}

	cover := b.ImageOriginal
	if cover == "" {
		cover = b.Image
	}
	rec.CoverURL = book.String(cover)

	// Use synopsis for description if available, otherwise use overview
	if b.Synopsis != "" {
		rec.Description = book.String(b.Synopsis)
	} else {
		rec.Description = book.String(b.Overview)
	}

	isbn10, isbn13 := splitISBNs([]string{b.ISBN13, b.ISBN10, b.ISBN})
	rec.ISBN10 = book.String(isbn10)
	rec.ISBN13 = book.String(isbn13)

	// Filter out generic "Subjects" entry
	for _, s := range b.Subjects {
		if s != "" && s != "Subjects" && len(rec.Subjects) < book.MaxSubjects {
			rec.Subjects = append(rec.Subjects, s)
		}
	}

	return rec, nil
}

// preferAuthor keeps idx when that book lists the author, otherwise returns the
// first book that does. Falls back to idx.
func preferAuthor(idx int, author string, books []isbndbBook) int {
	want := book.NormalizeAuthor(author)
	hasAuthor := func(b isbndbBook) bool {
		for _, a := range b.Authors {
			if book.NormalizeAuthor(a) == want {
				return true
			}
		}
		return false
	}

	if hasAuthor(books[idx]) {
		return idx
	}
	for n, b := range books {
		if hasAuthor(b) {
			return n
		}
	}
	return idx
}
