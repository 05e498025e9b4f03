package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/springymate/book-scanner/internal/book"
)

const (
	openLibraryBaseURL  = "https://openlibrary.org"
	openLibraryCoverURL = "https://covers.openlibrary.org/b/id/%d-L.jpg"
	openLibraryFields   = "key,title,author_name,first_publish_year,isbn,cover_i,ratings_average,ratings_count,subject,number_of_pages_median"
)

// OpenLibrary is the backup metadata source. It has no descriptions in search
// results but reliably fills covers, ratings and subjects.
type OpenLibrary struct {
	client
}

// Compile-time check that OpenLibrary implements book.Source.
var _ book.Source = (*OpenLibrary)(nil)

// NewOpenLibrary creates an Open Library adapter.
func NewOpenLibrary(opts ...Option) *OpenLibrary {
	return &OpenLibrary{client: newClient("Open Library", openLibraryBaseURL, opts)}
}

// Name returns the human-readable name of this source.
func (o *OpenLibrary) Name() string {
	return o.source
}

// openLibrarySearchResponse matches the search.json response structure.
type openLibrarySearchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Key                 string   `json:"key"`
		Title               string   `json:"title"`
		AuthorName          []string `json:"author_name"`
		FirstPublishYear    int      `json:"first_publish_year"`
		ISBN                []string `json:"isbn"`
		CoverID             int      `json:"cover_i"`
		RatingsAverage      float64  `json:"ratings_average"`
		RatingsCount        int      `json:"ratings_count"`
		Subject             []string `json:"subject"`
		NumberOfPagesMedian int      `json:"number_of_pages_median"`
	} `json:"docs"`
}

// Lookup searches Open Library by title and author.
func (o *OpenLibrary) Lookup(ctx context.Context, title, author string) (*book.Record, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, book.ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("title", title)
	if author = strings.TrimSpace(author); author != "" {
		params.Set("author", author)
	}
	params.Set("limit", fmt.Sprint(maxResults))
	params.Set("fields", openLibraryFields)

	var result openLibrarySearchResponse
	err := o.getJSON(ctx, o.baseURL+"/search.json?"+params.Encode(), nil, &result)
	if errors.Is(err, errStatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(result.Docs) == 0 {
		return nil, nil
	}

	titles := make([]string, len(result.Docs))
	for i, doc := range result.Docs {
		titles[i] = doc.Title
	}
	doc := result.Docs[bestMatch(title, titles)]

	rec := &book.Record{
		Sources:       []string{o.Name()},
		Title:         book.String(doc.Title),
		Authors:       doc.AuthorName,
		AverageRating: book.Rating(doc.RatingsAverage),
		RatingsCount:  book.Int(doc.RatingsCount),
		PageCount:     book.Int(doc.NumberOfPagesMedian),
	}
	if doc.CoverID > 0 {
		rec.CoverURL = book.String(fmt.Sprintf(openLibraryCoverURL, doc.CoverID))
	}
	if doc.FirstPublishYear > 0 {
		rec.PublishedDate = book.String(fmt.Sprint(doc.FirstPublishYear))
	}

	isbn10, isbn13 := splitISBNs(doc.ISBN)
	rec.ISBN10 = book.String(isbn10)
	rec.ISBN13 = book.String(isbn13)

	if len(doc.Subject) > book.MaxSubjects {
		rec.Subjects = doc.Subject[:book.MaxSubjects]
	} else {
		rec.Subjects = doc.Subject
	}

	return rec, nil
}
