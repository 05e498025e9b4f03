// Package covers downloads book cover images to a local directory.
package covers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/springymate/book-scanner/internal/book"
)

// DefaultMaxWidth is the width covers are scaled down to.
const DefaultMaxWidth = 600

// Result describes one saved cover.
type Result struct {
	// Downloaded is false when an existing file was reused.
	Downloaded bool
	Path       string
	Filename   string
}

// Downloader fetches and resizes cover images.
type Downloader struct {
	http     *http.Client
	dir      string
	maxWidth int
	refresh  bool
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Downloader) { d.http = c }
}

// WithMaxWidth sets the width images wider than it are resized to.
func WithMaxWidth(w int) Option {
	return func(d *Downloader) {
		if w > 0 {
			d.maxWidth = w
		}
	}
}

// WithRefresh re-downloads covers that already exist.
func WithRefresh(refresh bool) Option {
	return func(d *Downloader) { d.refresh = refresh }
}

// New creates a Downloader saving into dir.
func New(dir string, opts ...Option) *Downloader {
	d := &Downloader{
		http:     &http.Client{Timeout: 30 * time.Second},
		dir:      dir,
		maxWidth: DefaultMaxWidth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download saves the cover for title from imageURL. An empty URL is a no-op
// and returns nil.
func (d *Downloader) Download(ctx context.Context, imageURL, title string) (*Result, error) {
	if imageURL == "" {
		return nil, nil
	}

	filename := Filename(title)
	path := filepath.Join(d.dir, filename)
	result := &Result{Path: path, Filename: filename}

	if fileExists(path) && !d.refresh {
		slog.Debug("Cover already exists, skipping download", "path", path)
		return result, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download cover: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d downloading cover from %s", resp.StatusCode, imageURL)
	}

	img, err := imaging.Decode(resp.Body, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover: %w", err)
	}

	if img.Bounds().Dx() > d.maxWidth {
		img = imaging.Resize(img, d.maxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create covers directory: %w", err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to write cover: %w", err)
	}

	slog.Info("Downloaded cover", "path", path)
	result.Downloaded = true
	return result, nil
}

// DownloadAll saves covers for every book that has one. Failures are logged
// and skipped; the returned map is keyed by the book's position.
func (d *Downloader) DownloadAll(ctx context.Context, books []book.EnrichedBook) map[int]*Result {
	saved := make(map[int]*Result)
	for i, b := range books {
		if ctx.Err() != nil {
			break
		}
		url, ok := b.CoverURL()
		if !ok {
			continue
		}
		res, err := d.Download(ctx, url, b.Title())
		if err != nil {
			slog.Warn("Cover download failed", "title", b.Title(), "error", err)
			continue
		}
		saved[i] = res
	}
	return saved
}

// Filename builds the cover filename for a title: "Title - cover.jpg".
func Filename(title string) string {
	return SanitizeFilename(title) + " - cover.jpg"
}

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, ":", " -")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}
	return name
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
