package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_FirstNonNilWins(t *testing.T) {
	a := &Record{
		Sources:  []string{"Google Books"},
		CoverURL: String("https://example.com/a.jpg"),
	}
	b := &Record{
		Sources:       []string{"Open Library"},
		CoverURL:      String("https://example.com/b.jpg"),
		AverageRating: Rating(4.3),
	}

	merged := Merge(a, b)
	require.NotNil(t, merged)

	assert.Equal(t, "https://example.com/a.jpg", *merged.CoverURL)
	require.NotNil(t, merged.AverageRating)
	assert.Equal(t, 4.3, *merged.AverageRating)
	assert.Equal(t, []string{"Google Books", "Open Library"}, merged.Sources)
}

func TestMerge_CoverAndRatingFromDifferentSources(t *testing.T) {
	a := &Record{CoverURL: String("A")}
	b := &Record{AverageRating: Rating(4.0)}

	merged := Merge(a, b)
	require.NotNil(t, merged)
	assert.Equal(t, "A", *merged.CoverURL)
	assert.Equal(t, 4.0, *merged.AverageRating)
}

func TestMerge_NilInputs(t *testing.T) {
	assert.Nil(t, Merge())
	assert.Nil(t, Merge(nil, nil))

	r := &Record{Title: String("Dune")}
	merged := Merge(nil, r)
	require.NotNil(t, merged)
	assert.Equal(t, "Dune", *merged.Title)
}

func TestMerge_SetsUnionCaseInsensitive(t *testing.T) {
	a := &Record{
		Categories: []string{"Fiction", "Science Fiction"},
		Subjects:   []string{"Space"},
	}
	b := &Record{
		Categories: []string{"fiction", "Classics"},
		Subjects:   []string{"space", "Deserts", "Politics"},
	}

	merged := Merge(a, b)
	assert.ElementsMatch(t, []string{"Fiction", "Science Fiction", "Classics"}, merged.Categories)
	assert.ElementsMatch(t, []string{"Space", "Deserts", "Politics"}, merged.Subjects)
}

func TestMerge_CapsLists(t *testing.T) {
	a := &Record{
		Authors:  []string{"A", "B", "C", "D"},
		Subjects: []string{"1", "2", "3", "4"},
	}
	b := &Record{
		Authors:  []string{"E"},
		Subjects: []string{"5", "6", "7"},
	}

	merged := Merge(a, b)
	assert.Equal(t, []string{"A", "B", "C"}, merged.Authors)
	assert.Len(t, merged.Subjects, MaxSubjects)
}

func TestMerge_DoesNotModifyInputs(t *testing.T) {
	a := &Record{Categories: []string{"Fiction"}}
	b := &Record{Categories: []string{"History"}}

	Merge(a, b)

	assert.Equal(t, []string{"Fiction"}, a.Categories)
	assert.Equal(t, []string{"History"}, b.Categories)
}

func TestRecord_IsFull(t *testing.T) {
	var nilRecord *Record
	assert.False(t, nilRecord.IsFull())

	r := &Record{CoverURL: String("c"), AverageRating: Rating(3.5)}
	assert.False(t, r.IsFull())

	r.Description = String("d")
	assert.True(t, r.IsFull())
}

func TestRating(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want *float64
	}{
		{"zero is missing", 0, nil},
		{"negative", -1, nil},
		{"too large", 7, nil},
		{"rounds", 4.26, Rating(4.3)},
		{"max", 5, Rating(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rating(tt.in))
		})
	}
}
