package adapters

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springymate/book-scanner/internal/testutil"
)

func TestOpenLibraryLookup_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "The Hobbit", q.Get("title"))
		require.Equal(t, "J.R.R. Tolkien", q.Get("author"))
		require.Equal(t, "5", q.Get("limit"))
		require.Contains(t, q.Get("fields"), "cover_i")

		_, _ = w.Write([]byte(`{
			"numFound": 1,
			"docs": [{
				"key": "/works/OL262758W",
				"title": "The Hobbit",
				"author_name": ["J.R.R. Tolkien"],
				"first_publish_year": 1937,
				"isbn": ["9780547928227", "054792822X", "9780261103344"],
				"cover_i": 6979861,
				"ratings_average": 4.27,
				"ratings_count": 1234,
				"subject": ["Fantasy", "Dragons", "Dwarves", "Wizards", "Adventure", "Elves", "Middle Earth"]
			}]
		}`))
	})
	server := testutil.NewIPv4Server(t, mux)

	ol := NewOpenLibrary(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	rec, err := ol.Lookup(context.Background(), "The Hobbit", "J.R.R. Tolkien")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, []string{"Open Library"}, rec.Sources)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/6979861-L.jpg", *rec.CoverURL)
	assert.Equal(t, 4.3, *rec.AverageRating)
	assert.Equal(t, 1234, *rec.RatingsCount)
	assert.Equal(t, "1937", *rec.PublishedDate)
	assert.Equal(t, "9780547928227", *rec.ISBN13)
	assert.Equal(t, "054792822X", *rec.ISBN10)
	assert.Len(t, rec.Subjects, 5)
	assert.Nil(t, rec.Description)
	assert.False(t, rec.IsFull())
}

func TestOpenLibraryLookup_NoDocs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"numFound": 0, "docs": []}`))
	})
	server := testutil.NewIPv4Server(t, mux)

	ol := NewOpenLibrary(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	rec, err := ol.Lookup(context.Background(), "Unknown", "")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestOpenLibraryLookup_MissingOptionalFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"docs": [{"title": "Obscure Pamphlet"}]}`))
	})
	server := testutil.NewIPv4Server(t, mux)

	ol := NewOpenLibrary(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	rec, err := ol.Lookup(context.Background(), "Obscure Pamphlet", "")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Nil(t, rec.CoverURL)
	assert.Nil(t, rec.AverageRating)
	assert.Nil(t, rec.ISBN13)
	assert.Nil(t, rec.PublishedDate)
}
