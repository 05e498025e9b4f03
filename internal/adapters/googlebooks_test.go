package adapters

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springymate/book-scanner/internal/book"
	apperrors "github.com/springymate/book-scanner/internal/errors"
	"github.com/springymate/book-scanner/internal/testutil"
)

const duneVolumes = `{
	"totalItems": 2,
	"items": [
		{
			"volumeInfo": {
				"title": "Dune Messiah",
				"authors": ["Frank Herbert"]
			}
		},
		{
			"volumeInfo": {
				"title": "Dune",
				"authors": ["Frank Herbert"],
				"publishedDate": "1965",
				"description": "Set on the desert planet Arrakis...",
				"pageCount": 896,
				"categories": ["Fiction"],
				"averageRating": 4.26,
				"ratingsCount": 1520,
				"industryIdentifiers": [
					{"type": "ISBN_10", "identifier": "0441013597"},
					{"type": "ISBN_13", "identifier": "978-0441013593"}
				],
				"imageLinks": {
					"thumbnail": "http://books.google.com/books/content?id=B1hSG45JCX4C&zoom=1",
					"medium": "http://books.google.com/books/content?id=B1hSG45JCX4C&zoom=3"
				}
			}
		}
	]
}`

func TestGoogleBooksLookup_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/volumes", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Dune inauthor:Frank Herbert", r.URL.Query().Get("q"))
		require.Equal(t, "5", r.URL.Query().Get("maxResults"))
		require.Equal(t, "books", r.URL.Query().Get("printType"))
		require.Equal(t, "secret", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(duneVolumes))
	})
	server := testutil.NewIPv4Server(t, mux)

	gb := NewGoogleBooks(WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithAPIKey("secret"))

	rec, err := gb.Lookup(context.Background(), "Dune", "Frank Herbert")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, []string{"Google Books"}, rec.Sources)
	assert.Equal(t, "Dune", *rec.Title)
	assert.Equal(t, "https://books.google.com/books/content?id=B1hSG45JCX4C&zoom=3", *rec.CoverURL)
	assert.Equal(t, 4.3, *rec.AverageRating)
	assert.Equal(t, 1520, *rec.RatingsCount)
	assert.Equal(t, 896, *rec.PageCount)
	assert.Equal(t, "0441013597", *rec.ISBN10)
	assert.Equal(t, "9780441013593", *rec.ISBN13)
	assert.Equal(t, []string{"Fiction"}, rec.Categories)
	assert.True(t, rec.IsFull())
}

func TestGoogleBooksLookup_FirstResultWhenNoExactTitle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/volumes", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(duneVolumes))
	})
	server := testutil.NewIPv4Server(t, mux)

	gb := NewGoogleBooks(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	rec, err := gb.Lookup(context.Background(), "Dnue", "")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Dune Messiah", *rec.Title)
	assert.Nil(t, rec.CoverURL)
	assert.Nil(t, rec.AverageRating)
}

func TestGoogleBooksLookup_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/volumes", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	})
	server := testutil.NewIPv4Server(t, mux)

	gb := NewGoogleBooks(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

	rec, err := gb.Lookup(context.Background(), "Nonexistent Book XYZ123", "")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGoogleBooksLookup_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		checkFn func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "boom",
			checkFn: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsAPIStatusError(err))
			},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			checkFn: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsRateLimitError(err))
				assert.Contains(t, err.Error(), "retry after 30s")
			},
		},
		{
			name:   "malformed payload",
			status: http.StatusOK,
			body:   `{"items": [`,
			checkFn: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "decoding Google Books response")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/volumes", func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Retry-After", "30")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			server := testutil.NewIPv4Server(t, mux)

			gb := NewGoogleBooks(WithBaseURL(server.URL), WithHTTPClient(server.Client()))

			rec, err := gb.Lookup(context.Background(), "Dune", "")
			require.Error(t, err)
			assert.Nil(t, rec)
			tt.checkFn(t, err)
		})
	}
}

func TestGoogleBooksLookup_Timeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/volumes", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	server := testutil.NewIPv4Server(t, mux)

	gb := NewGoogleBooks(WithBaseURL(server.URL), WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	rec, err := gb.Lookup(context.Background(), "Dune", "")
	require.Error(t, err)
	assert.Nil(t, rec)
}

func TestGoogleBooksLookup_EmptyTitle(t *testing.T) {
	gb := NewGoogleBooks(WithBaseURL("http://127.0.0.1:1"))

	rec, err := gb.Lookup(context.Background(), "   ", "Frank Herbert")
	require.ErrorIs(t, err, book.ErrEmptyQuery)
	assert.Nil(t, rec)
}
