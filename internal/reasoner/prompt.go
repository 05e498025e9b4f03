package reasoner

import (
	"fmt"
	"strings"

	"github.com/springymate/book-scanner/internal/book"
)

const systemPrompt = "You are a well-read librarian who recommends books. " +
	"You answer with a JSON array only, with no commentary and no markdown."

// buildPrompt describes the reader's collection and asks for exactly count books.
func buildPrompt(detected []book.EnrichedBook, genres []string, count int) string {
	var b strings.Builder

	if len(detected) > 0 {
		b.WriteString("The reader already owns these books. Do not recommend any of them:\n")
		for _, d := range detected {
			if author := d.Author(); author != "" {
				fmt.Fprintf(&b, "- %s by %s\n", d.Title(), author)
			} else {
				fmt.Fprintf(&b, "- %s\n", d.Title())
			}
		}
		b.WriteString("\n")
	}

	if g := collectionGenres(detected); len(g) > 0 {
		fmt.Fprintf(&b, "Genres in their collection: %s\n", strings.Join(g, ", "))
	}
	if a := collectionAuthors(detected); len(a) > 0 {
		fmt.Fprintf(&b, "Authors they read: %s\n", strings.Join(a, ", "))
	}

	fmt.Fprintf(&b, "\nRecommend exactly %d books from these genres: %s.\n", count, strings.Join(genres, ", "))
	fmt.Fprintf(&b, "Return a JSON array of exactly %d objects with the keys \"title\", \"author\", \"genre\" and \"reason\". ", count)
	b.WriteString("\"genre\" must be one of the genres listed above. ")
	b.WriteString("\"reason\" is one sentence on why this reader would enjoy the book given their collection.")

	return b.String()
}

func collectionGenres(detected []book.EnrichedBook) []string {
	var all []string
	for _, d := range detected {
		if d.Candidate.GenreHint != "" {
			all = append(all, d.Candidate.GenreHint)
		}
		all = append(all, d.Categories()...)
	}
	return uniqueFold(all, 10)
}

func collectionAuthors(detected []book.EnrichedBook) []string {
	var all []string
	for _, d := range detected {
		if a := d.Author(); a != "" {
			all = append(all, a)
		}
	}
	return uniqueFold(all, 10)
}

// uniqueFold drops case-insensitive duplicates, keeping at most limit values.
func uniqueFold(values []string, limit int) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		k := strings.ToLower(strings.TrimSpace(v))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, strings.TrimSpace(v))
		if len(out) == limit {
			break
		}
	}
	return out
}
