package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/springymate/book-scanner/internal/book"
)

const googleBooksBaseURL = "https://www.googleapis.com/books/v1"

// GoogleBooks is the primary metadata source.
type GoogleBooks struct {
	client
}

// Compile-time check that GoogleBooks implements book.Source.
var _ book.Source = (*GoogleBooks)(nil)

// NewGoogleBooks creates a Google Books adapter. The API key is optional.
func NewGoogleBooks(opts ...Option) *GoogleBooks {
	return &GoogleBooks{client: newClient("Google Books", googleBooksBaseURL, opts)}
}

// Name returns the human-readable name of this source.
func (g *GoogleBooks) Name() string {
	return g.source
}

// googleBooksResponse matches the Google Books API response structure.
type googleBooksResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo googleVolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

type googleVolumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	PageCount           int      `json:"pageCount"`
	Categories          []string `json:"categories"`
	AverageRating       float64  `json:"averageRating"`
	RatingsCount        int      `json:"ratingsCount"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		ExtraLarge     string `json:"extraLarge"`
		Large          string `json:"large"`
		Medium         string `json:"medium"`
		Small          string `json:"small"`
		Thumbnail      string `json:"thumbnail"`
		SmallThumbnail string `json:"smallThumbnail"`
	} `json:"imageLinks"`
}

// Lookup searches Google Books by title and author.
func (g *GoogleBooks) Lookup(ctx context.Context, title, author string) (*book.Record, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, book.ErrEmptyQuery
	}

	q := title
	if author = strings.TrimSpace(author); author != "" {
		q += " inauthor:" + author
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", fmt.Sprint(maxResults))
	params.Set("printType", "books")
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}

	var result googleBooksResponse
	err := g.getJSON(ctx, g.baseURL+"/volumes?"+params.Encode(), nil, &result)
	if errors.Is(err, errStatusNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if result.TotalItems == 0 || len(result.Items) == 0 {
		// Book not found
		return nil, nil
	}

	titles := make([]string, len(result.Items))
	for i, item := range result.Items {
		titles[i] = item.VolumeInfo.Title
	}
	vol := result.Items[bestMatch(title, titles)].VolumeInfo

	rec := &book.Record{
		Sources:       []string{g.Name()},
		Title:         book.String(vol.Title),
		Authors:       vol.Authors,
		CoverURL:      book.String(googleCover(vol)),
		AverageRating: book.Rating(vol.AverageRating),
		RatingsCount:  book.Int(vol.RatingsCount),
		Description:   book.String(vol.Description),
		PublishedDate: book.String(vol.PublishedDate),
		PageCount:     book.Int(vol.PageCount),
		Categories:    vol.Categories,
	}

	for _, id := range vol.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			rec.ISBN13 = book.String(normalizeISBN(id.Identifier))
		case "ISBN_10":
			rec.ISBN10 = book.String(normalizeISBN(id.Identifier))
		}
	}

	return rec, nil
}

// googleCover picks the largest image link and forces HTTPS.
func googleCover(vol googleVolumeInfo) string {
	links := vol.ImageLinks
	for _, u := range []string{links.ExtraLarge, links.Large, links.Medium, links.Small, links.Thumbnail, links.SmallThumbnail} {
		if u != "" {
			return strings.Replace(u, "http://", "https://", 1)
		}
	}
	return ""
}
