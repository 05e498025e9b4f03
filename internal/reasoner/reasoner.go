// Package reasoner produces book suggestions for a reader's collection, first
// by asking a language model and, when that fails, by filtering a curated pool.
package reasoner

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker/v2"

	"github.com/springymate/book-scanner/internal/book"
	"github.com/springymate/book-scanner/internal/llm"
)

const (
	// DefaultTemperature is the sampling temperature for the AI path.
	DefaultTemperature = 0.7
	// DefaultTimeout bounds one provider call.
	DefaultTimeout = 30 * time.Second
	// maxTokens caps the provider response length.
	maxTokens = 1500
	// tripAfter is the number of consecutive provider failures that opens the breaker.
	tripAfter = 3
)

// Suggestion is one recommended book before enrichment.
type Suggestion struct {
	Title         string   `json:"title" validate:"required"`
	Author        string   `json:"author" validate:"required"`
	Genre         string   `json:"genre" validate:"required"`
	Justification string   `json:"reason" validate:"required"`
	Rating        *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// Batch is the output of one reasoning pass.
type Batch struct {
	Provenance  book.Provenance
	Suggestions []Suggestion
}

// Reasoner turns a collection and genre preferences into suggestions.
// A Reasoner is safe for concurrent use.
type Reasoner struct {
	provider    llm.Provider
	model       string
	temperature float64
	timeout     time.Duration
	pool        []poolEntry
	breaker     *gobreaker.CircuitBreaker[string]
	validate    *validator.Validate
}

// Option configures a Reasoner.
type Option func(*Reasoner)

// WithModel sets the provider model name.
func WithModel(model string) Option {
	return func(r *Reasoner) { r.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(r *Reasoner) { r.temperature = t }
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) Option {
	return func(r *Reasoner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithPool replaces the curated fallback pool.
func WithPool(entries []Suggestion) Option {
	return func(r *Reasoner) {
		pool := make([]poolEntry, 0, len(entries))
		for _, e := range entries {
			var rating float64
			if e.Rating != nil {
				rating = *e.Rating
			}
			pool = append(pool, poolEntry{e.Title, e.Author, e.Genre, rating, e.Justification})
		}
		r.pool = pool
	}
}

// New creates a Reasoner. A nil provider disables the AI path.
func New(provider llm.Provider, opts ...Option) *Reasoner {
	r := &Reasoner{
		provider:    provider,
		temperature: DefaultTemperature,
		timeout:     DefaultTimeout,
		pool:        curatedPool,
		validate:    validator.New(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "reasoner",
		MaxRequests: 1,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, llm.ErrNotConfigured) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return r
}

// Reason returns up to count suggestions. It tries the AI path first and
// falls back to the curated pool on any failure. It never fails.
func (r *Reasoner) Reason(ctx context.Context, detected []book.EnrichedBook, genres []string, count int) Batch {
	if count <= 0 || len(genres) == 0 {
		return Batch{Provenance: book.ProvenanceFallback}
	}

	batch, err := r.AttemptAI(ctx, detected, genres, count)
	if err == nil {
		return batch
	}

	var failure *Failure
	if errors.As(err, &failure) && failure.Kind == FailureUnconfigured {
		slog.Debug("No reasoning provider configured, using curated pool")
	} else {
		slog.Warn("AI reasoning failed, using curated pool", "error", err)
	}
	return r.Fallback(detected, genres, count)
}

// AttemptAI asks the provider for exactly count suggestions. Invalid items,
// items outside the requested genres and books already in the collection are
// dropped; extra items are truncated. Any problem is reported as a *Failure.
func (r *Reasoner) AttemptAI(ctx context.Context, detected []book.EnrichedBook, genres []string, count int) (Batch, error) {
	if r.provider == nil {
		return Batch{}, &Failure{Kind: FailureUnconfigured}
	}

	req := llm.Request{
		Model:       r.model,
		System:      systemPrompt,
		Prompt:      buildPrompt(detected, genres, count),
		Temperature: r.temperature,
		MaxTokens:   maxTokens,
	}

	raw, err := r.breaker.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		return r.provider.Generate(callCtx, req)
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return Batch{}, &Failure{Kind: FailureUnconfigured, Err: err}
		}
		return Batch{}, &Failure{Kind: FailureUnavailable, Err: err}
	}

	items, err := parseSuggestions(raw)
	if err != nil {
		return Batch{}, &Failure{Kind: FailureMalformed, Err: err}
	}

	kept := r.filter(items, detected, genres, count)
	if len(kept) == 0 {
		return Batch{}, &Failure{Kind: FailureEmpty}
	}

	slog.Info("AI reasoning complete", "provider", r.provider.Name(), "returned", len(items), "kept", len(kept))
	return Batch{Provenance: book.ProvenanceAI, Suggestions: kept}, nil
}

// filter applies validation, genre and collection rules, preserving order.
func (r *Reasoner) filter(items []Suggestion, detected []book.EnrichedBook, genres []string, count int) []Suggestion {
	kept := make([]Suggestion, 0, count)
	seen := make(map[string]bool, len(items))

	for _, s := range items {
		if len(kept) == count {
			break
		}

		s.Title = strings.TrimSpace(s.Title)
		s.Author = strings.TrimSpace(s.Author)
		s.Justification = strings.TrimSpace(s.Justification)

		if err := r.validate.Struct(s); err != nil {
			slog.Debug("Dropping invalid suggestion", "title", s.Title, "error", err)
			continue
		}

		genre, ok := matchGenre(s.Genre, genres)
		if !ok {
			slog.Debug("Dropping suggestion outside requested genres", "title", s.Title, "genre", s.Genre)
			continue
		}
		s.Genre = genre

		key := book.Key(s.Title, s.Author)
		if seen[key] || inCollection(s.Title, s.Author, detected) {
			slog.Debug("Dropping suggestion already owned or repeated", "title", s.Title)
			continue
		}
		seen[key] = true

		kept = append(kept, s)
	}

	return kept
}

// Fallback filters the curated pool to the requested genres, excluding
// titles already in the collection, ordered by rating then title. It never
// pads: fewer matches than count yields a shorter batch.
func (r *Reasoner) Fallback(detected []book.EnrichedBook, genres []string, count int) Batch {
	batch := Batch{Provenance: book.ProvenanceFallback}
	if count <= 0 {
		return batch
	}

	owned := make(map[string]bool, len(detected)*2)
	for _, d := range detected {
		owned[book.Normalize(d.Candidate.Title)] = true
		owned[book.Normalize(d.Title())] = true
	}

	var matches []poolEntry
	for _, e := range r.pool {
		if _, ok := matchGenre(e.Genre, genres); !ok {
			continue
		}
		if owned[book.Normalize(e.Title)] {
			continue
		}
		matches = append(matches, e)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Rating != matches[j].Rating {
			return matches[i].Rating > matches[j].Rating
		}
		return matches[i].Title < matches[j].Title
	})

	if len(matches) > count {
		matches = matches[:count]
	}

	for _, e := range matches {
		rating := e.Rating
		batch.Suggestions = append(batch.Suggestions, Suggestion{
			Title:         e.Title,
			Author:        e.Author,
			Genre:         e.Genre,
			Justification: e.Reason,
			Rating:        &rating,
		})
	}
	return batch
}

// matchGenre returns the requested genre equal to g, ignoring case.
func matchGenre(g string, genres []string) (string, bool) {
	g = strings.TrimSpace(g)
	for _, want := range genres {
		if strings.EqualFold(g, strings.TrimSpace(want)) {
			return strings.TrimSpace(want), true
		}
	}
	return "", false
}

// inCollection reports whether title/author names one of the detected books.
func inCollection(title, author string, detected []book.EnrichedBook) bool {
	for _, d := range detected {
		if book.SameBook(title, author, d.Candidate.Title, d.Candidate.Author) ||
			book.SameBook(title, author, d.Title(), d.Author()) {
			return true
		}
	}
	return false
}
