package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/springymate/book-scanner/internal/book"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"Fiction", "Fiction"},
		{"science fiction", "Science Fiction"},
		{"Fiction / Science Fiction / General", "Science Fiction"},
		{"Juvenile Fiction / Fantasy & Magic", "Fantasy"},
		{"Fiction / General", "Fiction"},
		{"Biography & Autobiography", "Biography"},
		{"Business & Economics / Entrepreneurship", "Business"},
		{"Computers / Programming", "Technology"},
		{"Detective and mystery stories", "Mystery"},
		{"Self-Help / Personal Growth", "Self-Help"},
		{"Literary Collections / Poems", "Poetry"},
		{"Nonfiction", "Non-Fiction"},
		{"Heartwarming", ""},
		{"Cooking", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.category))
		})
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "Self-Help", Canonical(" self-help "))
	assert.Equal(t, "", Canonical("Cooking"))
}

func TestRelated(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		want   []string
	}{
		{"single", []string{"Science Fiction"}, []string{"Fantasy", "Technology"}},
		{"excludes inputs", []string{"Fiction", "Romance"}, []string{"Mystery", "Thriller", "Drama"}},
		{"case-insensitive", []string{"poetry"}, []string{"Art", "Drama"}},
		{"unknown ignored", []string{"Cooking"}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Related(tt.genres))
		})
	}
}

func withHint(title, hint string) book.EnrichedBook {
	return book.NewEnrichedBook(book.Candidate{Title: title, GenreHint: hint}, nil, "")
}

func TestSuggest(t *testing.T) {
	t.Run("most common first", func(t *testing.T) {
		detected := []book.EnrichedBook{
			withHint("A", "fantasy"),
			withHint("B", "Mystery"),
			withHint("C", "Fantasy"),
			book.NewEnrichedBook(book.Candidate{Title: "D"},
				&book.Record{Categories: []string{"Fiction / Science Fiction / General"}}, ""),
		}
		assert.Equal(t, []string{"Fantasy", "Mystery", "Science Fiction"}, Suggest(detected))
	})

	t.Run("capped", func(t *testing.T) {
		var detected []book.EnrichedBook
		for _, g := range Common {
			detected = append(detected, withHint(g, g))
		}
		assert.Len(t, Suggest(detected), MaxSuggestions)
	})

	t.Run("nothing classifiable", func(t *testing.T) {
		got := Suggest([]book.EnrichedBook{withHint("A", "")})
		assert.Equal(t, Common[:MaxSuggestions], got)
	})

	t.Run("empty collection", func(t *testing.T) {
		got := Suggest(nil)
		assert.Equal(t, []string{"Fiction", "Non-Fiction", "Mystery", "Science Fiction", "Fantasy"}, got)
		got[0] = "changed"
		assert.Equal(t, "Fiction", Common[0])
	})
}

func TestSummarize(t *testing.T) {
	detected := []book.EnrichedBook{
		book.NewEnrichedBook(book.Candidate{Title: "Dune", Author: "Frank Herbert", GenreHint: "Science Fiction"},
			&book.Record{Title: book.String("Dune")}, ""),
		withHint("Children of Dune", "Science Fiction"),
		withHint("Unknown Spine", ""),
	}

	s := Summarize(detected)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Resolved)
	assert.Equal(t, []Count{{"Science Fiction", 2}, {"Unknown", 1}}, s.Genres)
	assert.Equal(t, []Count{{"Unknown", 2}, {"Frank Herbert", 1}}, s.Authors)
	assert.Equal(t, []string{"Science Fiction"}, s.Suggested)
	assert.Equal(t, []string{"Fantasy", "Technology"}, s.Related)
}
