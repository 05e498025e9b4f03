// Package adapters implements the external book metadata sources. Each adapter
// translates one provider's search API into a partial book.Record.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	apperrors "github.com/springymate/book-scanner/internal/errors"
)

// DefaultTimeout bounds a single adapter request.
const DefaultTimeout = 10 * time.Second

// maxResults is how many candidates each adapter asks its provider for.
const maxResults = 5

// Option configures an adapter.
type Option func(*client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithBaseURL overrides the provider base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(cl *client) {
		cl.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) Option {
	return func(cl *client) {
		cl.apiKey = key
	}
}

// client holds what every adapter needs to issue a request.
type client struct {
	source  string
	http    *http.Client
	baseURL string
	apiKey  string
}

func newClient(source, baseURL string, opts []Option) client {
	c := client{
		source:  source,
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// errStatusNotFound marks an HTTP 404, which some providers use for "no match".
var errStatusNotFound = errors.New("status not found")

// getJSON issues a GET and decodes a 2xx JSON body into out.
// HTTP 429 yields a RateLimitError and other non-2xx statuses an APIStatusError.
func (c client) getJSON(ctx context.Context, rawURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.source, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errStatusNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.NewRateLimitErrorWithRetry(
			fmt.Sprintf("%s rate limit exceeded", c.source),
			parseRetryAfter(resp.Header.Get("Retry-After")),
		)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return apperrors.NewAPIStatusError(c.source, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", c.source, err)
	}
	return nil
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// bestMatch returns the index of the first candidate whose title equals the
// query case-insensitively, or 0 when none does.
func bestMatch(query string, titles []string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	for i, t := range titles {
		if strings.ToLower(strings.TrimSpace(t)) == q {
			return i
		}
	}
	return 0
}

// splitISBNs picks the first ISBN-10 and ISBN-13 out of a mixed list.
func splitISBNs(isbns []string) (isbn10, isbn13 string) {
	for _, raw := range isbns {
		isbn := normalizeISBN(raw)
		switch {
		case len(isbn) == 13 && isbn13 == "":
			isbn13 = isbn
		case len(isbn) == 10 && isbn10 == "":
			isbn10 = isbn
		}
	}
	return isbn10, isbn13
}

// normalizeISBN strips hyphens and spaces from ISBN.
func normalizeISBN(isbn string) string {
	normalized := strings.ReplaceAll(isbn, "-", "")
	normalized = strings.ReplaceAll(normalized, " ", "")
	return normalized
}
