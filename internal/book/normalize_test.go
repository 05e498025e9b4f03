package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		titleA   string
		authorA  string
		titleB   string
		authorB  string
		wantSame bool
	}{
		{"case and whitespace", "  Dune ", "Frank  Herbert", "dune", "frank herbert", true},
		{"ampersand joiner", "Relic", "Douglas Preston & Lincoln Child", "relic", "Douglas Preston and Lincoln Child", true},
		{"comma joiner", "Good Omens", "Pratchett, Gaiman", "good omens", "pratchett and gaiman", true},
		{"different author", "Dune", "Frank Herbert", "Dune", "Brian Herbert", false},
		{"different title", "Dune", "Frank Herbert", "Dune Messiah", "Frank Herbert", false},
		{"empty author", "Dune", "", "dune", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantSame, SameBook(tt.titleA, tt.authorA, tt.titleB, tt.authorB))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "the hobbit", Normalize("  The\tHobbit  "))
	assert.Equal(t, "", Normalize("   "))
}
