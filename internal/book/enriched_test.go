package book

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPurchaseLinks(t *testing.T) {
	t.Run("no record", func(t *testing.T) {
		assert.Nil(t, BuildPurchaseLinks(nil, "tag-20"))
	})

	t.Run("no isbn", func(t *testing.T) {
		assert.Nil(t, BuildPurchaseLinks(&Record{Title: String("Dune")}, "tag-20"))
	})

	t.Run("prefers isbn13", func(t *testing.T) {
		r := &Record{ISBN10: String("0441013597"), ISBN13: String("9780441013593")}
		links := BuildPurchaseLinks(r, "tag-20")
		require.NotNil(t, links)
		assert.Equal(t, "https://www.amazon.com/dp/9780441013593?tag=tag-20", links.Amazon)
		assert.Equal(t, "https://bookshop.org/a/tag-20/9780441013593", links.Bookshop)
	})

	t.Run("falls back to isbn10 without tag", func(t *testing.T) {
		links := BuildPurchaseLinks(&Record{ISBN10: String("0441013597")}, "")
		require.NotNil(t, links)
		assert.Equal(t, "https://www.amazon.com/dp/0441013597", links.Amazon)
		assert.Equal(t, "https://bookshop.org/book/0441013597", links.Bookshop)
	})
}

func TestEnrichedBook_Accessors(t *testing.T) {
	unavailable := NewEnrichedBook(Candidate{Title: "Dnue", Author: "Frank Herbert"}, nil, "")
	assert.Equal(t, StatusUnavailable, unavailable.Status())
	assert.Equal(t, "Dnue", unavailable.Title())
	_, ok := unavailable.CoverURL()
	assert.False(t, ok)
	_, ok = unavailable.AverageRating()
	assert.False(t, ok)
	assert.Nil(t, unavailable.Links)

	resolved := NewEnrichedBook(Candidate{Title: "Dnue"}, &Record{
		Title:         String("Dune"),
		Authors:       []string{"Frank Herbert"},
		AverageRating: Rating(4.3),
	}, "")
	assert.Equal(t, StatusResolved, resolved.Status())
	assert.Equal(t, "Dune", resolved.Title())
	assert.Equal(t, "Frank Herbert", resolved.Author())
	rating, ok := resolved.AverageRating()
	assert.True(t, ok)
	assert.Equal(t, 4.3, rating)
}

func TestEnrichedBook_JSONShapeIsStable(t *testing.T) {
	unavailable := NewEnrichedBook(Candidate{Title: "Unknown Book"}, nil, "")
	resolved := NewEnrichedBook(Candidate{Title: "Dune"}, &Record{
		Sources:  []string{"Google Books"},
		CoverURL: String("https://example.com/dune.jpg"),
		ISBN13:   String("9780441013593"),
	}, "")

	keysOf := func(b EnrichedBook) map[string]any {
		data, err := json.Marshal(b)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	u := keysOf(unavailable)
	r := keysOf(resolved)

	assert.Len(t, u, len(r))
	for k := range r {
		assert.Contains(t, u, k)
	}
	assert.Equal(t, "unavailable", u["status"])
	assert.Nil(t, u["cover_url"])
	assert.Equal(t, "https://example.com/dune.jpg", r["cover_url"])
}

func TestRecommendation_JSONIncludesGenreAndReason(t *testing.T) {
	rec := Recommendation{
		EnrichedBook:  NewEnrichedBook(Candidate{Title: "Dune", Author: "Frank Herbert"}, nil, ""),
		Genre:         "Science Fiction",
		Justification: "Epic worldbuilding",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "Dune", m["title"])
	assert.Equal(t, "Science Fiction", m["genre"])
	assert.Equal(t, "Epic worldbuilding", m["reason"])
	assert.Equal(t, "unavailable", m["status"])
}
