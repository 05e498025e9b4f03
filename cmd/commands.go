package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/springymate/book-scanner/internal/book"
	"github.com/springymate/book-scanner/internal/cache"
	"github.com/springymate/book-scanner/internal/config"
	"github.com/springymate/book-scanner/internal/covers"
	scanerrors "github.com/springymate/book-scanner/internal/errors"
	"github.com/springymate/book-scanner/internal/genre"
	"github.com/springymate/book-scanner/internal/tui"
)

var stdout io.Writer = os.Stdout

var selectGenres = tui.SelectGenres

var isInteractive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// RecommendCmd represents the recommend command
type RecommendCmd struct {
	Input         string        `short:"f" help:"Path to detected books (YAML or JSON)" required:"" type:"existingfile"`
	Genre         []string      `short:"g" help:"Genres to recommend from (repeatable; default: picker or suggestions)"`
	Count         int           `short:"n" help:"Number of recommendations" default:"5"`
	Format        string        `help:"Output format" enum:"text,json,yaml" default:"text"`
	CoversDir     string        `help:"Download recommendation covers into this directory"`
	Timeout       time.Duration `help:"Overall time limit" default:"2m"`
	NoInteractive bool          `help:"Never show the genre picker" default:"false"`
}

// EnrichCmd represents the enrich command
type EnrichCmd struct {
	Input     string        `short:"f" help:"Path to detected books (YAML or JSON)" required:"" type:"existingfile"`
	Format    string        `help:"Output format" enum:"text,json,yaml" default:"text"`
	CoversDir string        `help:"Download covers into this directory"`
	Timeout   time.Duration `help:"Overall time limit" default:"2m"`
}

// ResolveCmd represents the resolve command
type ResolveCmd struct {
	Title   string        `short:"t" help:"Book title" required:""`
	Author  string        `short:"a" help:"Book author"`
	Format  string        `help:"Output format" enum:"text,json,yaml" default:"text"`
	Timeout time.Duration `help:"Overall time limit" default:"30s"`
}

// GenresCmd represents the genres command
type GenresCmd struct {
	Input   string        `short:"f" help:"Path to detected books (YAML or JSON)" required:"" type:"existingfile"`
	Format  string        `help:"Output format" enum:"text,json,yaml" default:"text"`
	Timeout time.Duration `help:"Overall time limit" default:"2m"`
}

// CacheCmd groups cache maintenance commands
type CacheCmd struct {
	Invalidate CacheInvalidateCmd `cmd:"" help:"Delete every cached metadata entry"`
	Prune      CachePruneCmd      `cmd:"" help:"Delete expired metadata entries"`
}

// CacheInvalidateCmd represents the cache invalidate command
type CacheInvalidateCmd struct{}

// CachePruneCmd represents the cache prune command
type CachePruneCmd struct{}

func runContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func (r *RecommendCmd) Run(cfg *config.Config) error {
	candidates, err := loadCandidates(r.Input)
	if err != nil {
		return err
	}

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer closeServices(svc)

	ctx, cancel := runContext(r.Timeout)
	defer cancel()

	detected := svc.enricher.Enrich(ctx, candidates)

	genres, err := r.chooseGenres(detected)
	if err != nil {
		if scanerrors.IsStopProcessingError(err) {
			slog.Info("Recommendation cancelled", "reason", err.Error())
			return nil
		}
		return err
	}
	slog.Info("Recommending", "genres", genres, "count", r.Count)

	result := svc.pipeline.RecommendFor(ctx, detected, genres, r.Count)

	if r.CoversDir != "" {
		books := make([]book.EnrichedBook, len(result.Items))
		for i, it := range result.Items {
			books[i] = it.EnrichedBook
		}
		covers.New(r.CoversDir).DownloadAll(ctx, books)
	}

	return renderResult(stdout, result, r.Format)
}

// chooseGenres returns the genres from flags, from the interactive picker, or
// the suggestions for the collection, in that order of preference.
func (r *RecommendCmd) chooseGenres(detected []book.EnrichedBook) ([]string, error) {
	if len(r.Genre) > 0 {
		return r.Genre, nil
	}

	suggested := genre.Suggest(detected)
	if r.NoInteractive || r.Format != formatText || !isInteractive() {
		return suggested, nil
	}
	return selectGenres(genreOptions(suggested), suggested)
}

// genreOptions lists suggested genres first, then related ones, then the rest.
func genreOptions(suggested []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(gs []string) {
		for _, g := range gs {
			key := strings.ToLower(g)
			if !seen[key] {
				seen[key] = true
				out = append(out, g)
			}
		}
	}
	add(suggested)
	add(genre.Related(suggested))
	add(genre.Common)
	return out
}

func (e *EnrichCmd) Run(cfg *config.Config) error {
	candidates, err := loadCandidates(e.Input)
	if err != nil {
		return err
	}

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer closeServices(svc)

	ctx, cancel := runContext(e.Timeout)
	defer cancel()

	books := svc.enricher.Enrich(ctx, candidates)
	if e.CoversDir != "" {
		covers.New(e.CoversDir).DownloadAll(ctx, books)
	}
	return renderBooks(stdout, books, e.Format)
}

func (r *ResolveCmd) Run(cfg *config.Config) error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return book.ErrEmptyQuery
	}

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer closeServices(svc)

	ctx, cancel := runContext(r.Timeout)
	defer cancel()

	rec := svc.resolver.Resolve(ctx, title, r.Author)
	eb := book.NewEnrichedBook(book.Candidate{Title: title, Author: r.Author}, rec, cfg.Affiliate.Tag)
	if err := renderBooks(stdout, []book.EnrichedBook{eb}, r.Format); err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%q: %w", title, book.ErrBookNotFound)
	}
	return nil
}

func (g *GenresCmd) Run(cfg *config.Config) error {
	candidates, err := loadCandidates(g.Input)
	if err != nil {
		return err
	}

	svc, err := newServices(cfg)
	if err != nil {
		return err
	}
	defer closeServices(svc)

	ctx, cancel := runContext(g.Timeout)
	defer cancel()

	detected := svc.enricher.Enrich(ctx, candidates)
	return renderStats(stdout, genre.Summarize(detected), g.Format)
}

func openCacheDB(cfg *config.Config) (*cache.CacheDB, error) {
	if cfg.Cache.DBFile == "" {
		return nil, fmt.Errorf("no cache database configured (provide via --cache-db flag or cache.dbfile in config)")
	}
	return cache.Open(cfg.Cache.DBFile)
}

func (c *CacheInvalidateCmd) Run(cfg *config.Config) error {
	db, err := openCacheDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	n, err := db.InvalidateSource(cache.MetadataTable)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "Removed %d cached entries from %s\n", n, db.Path())
	return err
}

func (c *CachePruneCmd) Run(cfg *config.Config) error {
	db, err := openCacheDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := cache.NewPersistent(db, cfg.Cache.TTL, cfg.Cache.NegativeTTL).Prune(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "Pruned expired entries from %s\n", db.Path())
	return err
}
