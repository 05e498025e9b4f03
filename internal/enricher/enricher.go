// Package enricher resolves metadata for a batch of detected books using a
// bounded worker pool.
package enricher

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/springymate/book-scanner/internal/book"
)

// DefaultWorkers is the default number of concurrent lookups.
const DefaultWorkers = 4

// Resolver looks up merged metadata for one book. Nil means not found.
type Resolver interface {
	Resolve(ctx context.Context, title, author string) *book.Record
}

// Enricher runs resolver lookups for many candidates at once.
type Enricher struct {
	resolver     Resolver
	workers      int
	affiliateTag string
}

// New creates an Enricher. Non-positive workers use DefaultWorkers.
func New(resolver Resolver, workers int, affiliateTag string) *Enricher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Enricher{
		resolver:     resolver,
		workers:      workers,
		affiliateTag: affiliateTag,
	}
}

// Enrich resolves every candidate and returns results in input order.
// The output always has the same length as the input; a failed or abandoned
// lookup yields an unavailable entry.
func (e *Enricher) Enrich(ctx context.Context, candidates []book.Candidate) []book.EnrichedBook {
	out := make([]book.EnrichedBook, len(candidates))
	for i, c := range candidates {
		out[i] = book.NewEnrichedBook(c, nil, e.affiliateTag)
	}

	g := new(errgroup.Group)
	g.SetLimit(e.workers)

	for i, c := range candidates {
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					slog.Error("Metadata lookup panicked", "title", c.Title, "panic", p)
				}
			}()

			if ctx.Err() != nil {
				return nil
			}
			rec := e.resolver.Resolve(ctx, c.Title, c.Author)
			out[i] = book.NewEnrichedBook(c, rec, e.affiliateTag)
			return nil
		})
	}
	_ = g.Wait()

	resolved := 0
	for _, b := range out {
		if b.Status() == book.StatusResolved {
			resolved++
		}
	}
	slog.Info("Enrichment complete", "total", len(out), "resolved", resolved)

	return out
}
