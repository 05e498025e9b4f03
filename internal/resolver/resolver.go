// Package resolver turns a noisy title/author pair into one merged metadata
// record by querying the configured sources in priority order.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/springymate/book-scanner/internal/book"
	"github.com/springymate/book-scanner/internal/cache"
	apperrors "github.com/springymate/book-scanner/internal/errors"
	"github.com/springymate/book-scanner/internal/ratelimit"
)

// Resolver resolves books against an ordered list of sources. It owns a cache
// and a limiter shared by every outbound source call.
// A Resolver is safe for concurrent use.
type Resolver struct {
	sources []book.Source
	limiter *ratelimit.Limiter
	cache   cache.Store
	group   singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLimiter sets the limiter gating every source call.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(r *Resolver) {
		if l != nil {
			r.limiter = l
		}
	}
}

// WithCache sets the metadata cache.
func WithCache(s cache.Store) Option {
	return func(r *Resolver) {
		if s != nil {
			r.cache = s
		}
	}
}

// New creates a Resolver over sources, queried in the given order.
// Defaults to an in-memory cache and a 100ms minimum delay between calls.
func New(sources []book.Source, opts ...Option) *Resolver {
	r := &Resolver{
		sources: sources,
		limiter: ratelimit.NewMinInterval("metadata", ratelimit.DefaultMinInterval),
		cache:   cache.NewMemory(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns merged metadata for the book, or nil when no source knows it.
// Source failures are logged and treated as "not found"; Resolve never fails.
func (r *Resolver) Resolve(ctx context.Context, title, author string) *book.Record {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil
	}

	key := book.Key(title, author)
	if e, ok := r.cache.Get(ctx, key); ok {
		slog.Debug("Metadata cache hit", "title", title, "author", author)
		return e.Record
	}

	v, _, _ := r.group.Do(key, func() (any, error) {
		// Another flight may have filled the cache between the check above
		// and this call.
		if e, ok := r.cache.Get(ctx, key); ok {
			return e.Record, nil
		}

		rec, complete := r.lookup(ctx, title, author)
		if complete {
			r.cache.Set(ctx, key, cache.Entry{Record: rec, NotFound: rec == nil})
		}
		return rec, nil
	})

	rec, _ := v.(*book.Record)
	return rec
}

// lookup queries sources in order until the merged record is full.
// complete is false when the context ended before every needed source answered,
// in which case the outcome must not be cached.
func (r *Resolver) lookup(ctx context.Context, title, author string) (*book.Record, bool) {
	var merged *book.Record

	for _, src := range r.sources {
		if merged.IsFull() {
			break
		}

		if err := r.limiter.Wait(ctx); err != nil {
			slog.Debug("Metadata lookup abandoned", "title", title, "source", src.Name(), "error", err)
			return merged, false
		}

		rec, err := src.Lookup(ctx, title, author)
		if err != nil {
			if ctx.Err() != nil {
				return merged, false
			}
			logSourceError(src.Name(), title, err)
			continue
		}
		if rec == nil {
			slog.Debug("Source had no match", "title", title, "source", src.Name())
			continue
		}

		merged = book.Merge(merged, rec)
	}

	return merged, true
}

func logSourceError(source, title string, err error) {
	switch {
	case apperrors.IsRateLimitError(err):
		slog.Warn("Source rate limited, skipping", "title", title, "source", source, "error", err)
	case errors.Is(err, book.ErrEmptyQuery):
		slog.Debug("Source rejected query", "title", title, "source", source, "error", err)
	default:
		slog.Warn("Source lookup failed, treating as not found", "title", title, "source", source, "error", err)
	}
}
