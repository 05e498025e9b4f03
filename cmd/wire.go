package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/springymate/book-scanner/internal/adapters"
	"github.com/springymate/book-scanner/internal/book"
	"github.com/springymate/book-scanner/internal/cache"
	"github.com/springymate/book-scanner/internal/config"
	"github.com/springymate/book-scanner/internal/enricher"
	"github.com/springymate/book-scanner/internal/llm"
	"github.com/springymate/book-scanner/internal/llm/gemini"
	"github.com/springymate/book-scanner/internal/llm/ollama"
	"github.com/springymate/book-scanner/internal/llm/openai"
	"github.com/springymate/book-scanner/internal/ratelimit"
	"github.com/springymate/book-scanner/internal/reasoner"
	"github.com/springymate/book-scanner/internal/recommend"
	"github.com/springymate/book-scanner/internal/resolver"
)

// recordResolver resolves a single title/author pair.
type recordResolver interface {
	Resolve(ctx context.Context, title, author string) *book.Record
}

// services bundles the pipeline components one command run needs.
type services struct {
	resolver recordResolver
	enricher recommend.Enricher
	pipeline *recommend.Pipeline
	close    func() error
}

// newServices is a seam for tests.
var newServices = buildServices

func buildServices(cfg *config.Config) (*services, error) {
	httpClient := &http.Client{Timeout: cfg.Metadata.HTTPTimeout}

	sources := []book.Source{
		adapters.NewGoogleBooks(
			adapters.WithHTTPClient(httpClient),
			adapters.WithAPIKey(cfg.GoogleBooksAPIKey),
		),
		adapters.NewOpenLibrary(adapters.WithHTTPClient(httpClient)),
	}
	if isbndb := adapters.NewISBNdb(
		adapters.WithHTTPClient(httpClient),
		adapters.WithAPIKey(cfg.ISBNdbAPIKey),
	); isbndb.Configured() {
		sources = append(sources, isbndb)
	}

	store, closeStore, err := buildStore(cfg.Cache)
	if err != nil {
		return nil, err
	}

	res := resolver.New(sources,
		resolver.WithLimiter(ratelimit.NewMinInterval("metadata", cfg.Metadata.MinDelay)),
		resolver.WithCache(store),
	)
	enr := enricher.New(res, cfg.Metadata.Workers, cfg.Affiliate.Tag)

	rsn := reasoner.New(buildProvider(cfg),
		reasoner.WithModel(cfg.Reasoner.Model),
		reasoner.WithTemperature(cfg.Reasoner.Temperature),
		reasoner.WithTimeout(cfg.Reasoner.Timeout),
	)

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	slog.Debug("Services ready", "sources", names, "provider", cfg.Reasoner.Provider, "cache", cfg.Cache.DBFile)

	return &services{
		resolver: res,
		enricher: enr,
		pipeline: recommend.New(enr, rsn),
		close:    closeStore,
	}, nil
}

// buildStore returns the in-memory cache, fronting SQLite when a database
// file is configured.
func buildStore(cfg config.CacheConfig) (cache.Store, func() error, error) {
	if cfg.DBFile == "" {
		return cache.NewMemory(), func() error { return nil }, nil
	}

	db, err := cache.Open(cfg.DBFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open metadata cache: %w", err)
	}

	persistent := cache.NewPersistent(db, cfg.TTL, cfg.NegativeTTL)
	if err := persistent.Prune(); err != nil {
		slog.Warn("Failed to prune metadata cache", "error", err)
	}
	return cache.NewTiered(persistent), db.Close, nil
}

// buildProvider returns the configured reasoning provider, or nil when
// reasoning is disabled.
func buildProvider(cfg *config.Config) llm.Provider {
	switch cfg.Reasoner.Provider {
	case config.ProviderOpenAI:
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, &http.Client{Timeout: cfg.Reasoner.Timeout})
	case config.ProviderGemini:
		return gemini.New(cfg.GeminiAPIKey)
	case config.ProviderOllama:
		return ollama.New(cfg.OllamaURL, &http.Client{Timeout: cfg.Reasoner.Timeout})
	default:
		return nil
	}
}
