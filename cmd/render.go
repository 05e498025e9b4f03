package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/springymate/book-scanner/internal/book"
	"github.com/springymate/book-scanner/internal/genre"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("254"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	ratingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	reasonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("248")).Italic(true)
)

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, v any, format string) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func renderResult(w io.Writer, result book.RecommendationResult, format string) error {
	if format != formatText {
		return writeStructured(w, result, format)
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("Recommendations (%s)", result.Provenance)))
	b.WriteString("\n")
	if len(result.Items) == 0 {
		b.WriteString(mutedStyle.Render("No recommendations found."))
		b.WriteString("\n")
	}
	for i, item := range result.Items {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, bookLine(item.EnrichedBook))
		fmt.Fprintf(&b, "   %s\n", mutedStyle.Render(item.Genre))
		fmt.Fprintf(&b, "   %s\n", reasonStyle.Render(item.Justification))
		writeLinks(&b, item.EnrichedBook)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderBooks(w io.Writer, books []book.EnrichedBook, format string) error {
	if format != formatText {
		if books == nil {
			books = []book.EnrichedBook{}
		}
		return writeStructured(w, books, format)
	}

	var b strings.Builder
	resolved := 0
	for _, eb := range books {
		if eb.Status() == book.StatusResolved {
			resolved++
		}
	}
	b.WriteString(headingStyle.Render(fmt.Sprintf("Books (%d/%d resolved)", resolved, len(books))))
	b.WriteString("\n")

	for i, eb := range books {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, bookLine(eb))
		if eb.Status() == book.StatusUnavailable {
			fmt.Fprintf(&b, "   %s\n", mutedStyle.Render("metadata unavailable"))
			continue
		}
		if cats := eb.Categories(); len(cats) > 0 {
			fmt.Fprintf(&b, "   %s\n", mutedStyle.Render(strings.Join(cats, ", ")))
		}
		if desc, ok := eb.Description(); ok {
			fmt.Fprintf(&b, "   %s\n", truncate(desc, 160))
		}
		writeLinks(&b, eb)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderStats(w io.Writer, s genre.Stats, format string) error {
	if format != formatText {
		return writeStructured(w, s, format)
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render(fmt.Sprintf("Collection (%d books, %d resolved)", s.Total, s.Resolved)))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Genres"))
	b.WriteString("\n")
	for _, c := range s.Genres {
		fmt.Fprintf(&b, "  %-20s %d\n", c.Label, c.Count)
	}
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Authors"))
	b.WriteString("\n")
	for _, c := range s.Authors {
		fmt.Fprintf(&b, "  %-20s %d\n", c.Label, c.Count)
	}
	fmt.Fprintf(&b, "\nSuggested: %s\n", strings.Join(s.Suggested, ", "))
	if len(s.Related) > 0 {
		fmt.Fprintf(&b, "Related:   %s\n", strings.Join(s.Related, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func bookLine(eb book.EnrichedBook) string {
	line := titleStyle.Render(eb.Title())
	if author := eb.Author(); author != "" {
		line += " by " + author
	}
	if rating, ok := eb.AverageRating(); ok {
		r := fmt.Sprintf("%.1f", rating)
		if n, ok := eb.RatingsCount(); ok {
			r += fmt.Sprintf(" (%d ratings)", n)
		}
		line += "  " + ratingStyle.Render(r)
	}
	return line
}

func writeLinks(b *strings.Builder, eb book.EnrichedBook) {
	if eb.Links == nil {
		return
	}
	fmt.Fprintf(b, "   %s %s\n", mutedStyle.Render("Amazon:"), eb.Links.Amazon)
	fmt.Fprintf(b, "   %s %s\n", mutedStyle.Render("Bookshop:"), eb.Links.Bookshop)
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}
