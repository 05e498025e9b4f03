// Package recommend wires enrichment and reasoning into the end-to-end
// recommendation pipeline.
package recommend

import (
	"context"
	"log/slog"

	"github.com/springymate/book-scanner/internal/book"
	"github.com/springymate/book-scanner/internal/reasoner"
)

// Enricher resolves metadata for candidates, preserving order and length.
type Enricher interface {
	Enrich(ctx context.Context, candidates []book.Candidate) []book.EnrichedBook
}

// Reasoner produces suggestions for a collection.
type Reasoner interface {
	Reason(ctx context.Context, detected []book.EnrichedBook, genres []string, count int) reasoner.Batch
}

// Pipeline produces recommendations for a detected collection.
type Pipeline struct {
	enricher Enricher
	reasoner Reasoner
}

// New creates a Pipeline.
func New(enricher Enricher, reasoner Reasoner) *Pipeline {
	return &Pipeline{enricher: enricher, reasoner: reasoner}
}

// Recommend enriches the detected books, asks the reasoner for count new
// books in the given genres, removes anything already owned and enriches the
// survivors. The result never holds more than count items and never fails.
func (p *Pipeline) Recommend(ctx context.Context, candidates []book.Candidate, genres []string, count int) book.RecommendationResult {
	if count <= 0 {
		return book.RecommendationResult{Provenance: book.ProvenanceFallback}
	}

	detected := p.enricher.Enrich(ctx, candidates)
	return p.RecommendFor(ctx, detected, genres, count)
}

// RecommendFor runs the pipeline for an already enriched collection.
func (p *Pipeline) RecommendFor(ctx context.Context, detected []book.EnrichedBook, genres []string, count int) book.RecommendationResult {
	result := book.RecommendationResult{Provenance: book.ProvenanceFallback, Detected: detected}
	if count <= 0 {
		return result
	}

	batch := p.reasoner.Reason(ctx, detected, genres, count)
	survivors, removed := dedup(batch.Suggestions, detected)

	if shortfall := count - len(survivors); removed > 0 && shortfall > 0 && ctx.Err() == nil {
		slog.Debug("Suggestions overlapped the collection, asking for more", "removed", removed, "shortfall", shortfall)
		retry := p.reasoner.Reason(ctx, detected, genres, count+shortfall)
		if more, _ := dedup(retry.Suggestions, detected); len(more) > len(survivors) {
			batch, survivors = retry, more
		}
	}

	if len(survivors) > count {
		survivors = survivors[:count]
	}
	result.Provenance = batch.Provenance

	candidates := make([]book.Candidate, len(survivors))
	for i, s := range survivors {
		candidates[i] = book.Candidate{Title: s.Title, Author: s.Author, GenreHint: s.Genre}
	}
	enriched := p.enricher.Enrich(ctx, candidates)

	result.Items = make([]book.Recommendation, len(survivors))
	for i, s := range survivors {
		result.Items[i] = book.Recommendation{
			EnrichedBook:  enriched[i],
			Genre:         s.Genre,
			Justification: s.Justification,
		}
	}

	slog.Info("Recommendations ready", "count", len(result.Items), "requested", count, "provenance", result.Provenance)
	return result
}

// dedup drops suggestions that name a detected book or repeat an earlier
// suggestion, preserving order. It returns the survivors and how many were removed.
func dedup(suggestions []reasoner.Suggestion, detected []book.EnrichedBook) ([]reasoner.Suggestion, int) {
	owned := make(map[string]bool, len(detected)*2)
	for _, d := range detected {
		owned[book.Key(d.Candidate.Title, d.Candidate.Author)] = true
		owned[book.Key(d.Title(), d.Author())] = true
	}

	out := make([]reasoner.Suggestion, 0, len(suggestions))
	seen := make(map[string]bool, len(suggestions))
	for _, s := range suggestions {
		key := book.Key(s.Title, s.Author)
		if owned[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out, len(suggestions) - len(out)
}
