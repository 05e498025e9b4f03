package enricher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springymate/book-scanner/internal/book"
)

// mockResolver resolves titles from a map and tracks concurrency.
type mockResolver struct {
	records  map[string]*book.Record
	delay    time.Duration
	panicOn  string
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	seen     []string
}

func (m *mockResolver) Resolve(ctx context.Context, title, _ string) *book.Record {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	m.mu.Lock()
	m.seen = append(m.seen, title)
	m.mu.Unlock()

	if title == m.panicOn {
		panic("boom")
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil
		}
	}
	return m.records[title]
}

func TestEnrich_PreservesLengthAndOrder(t *testing.T) {
	res := &mockResolver{
		records: map[string]*book.Record{
			"Dune":       {Title: book.String("Dune"), ISBN13: book.String("9780441013593")},
			"The Hobbit": {Title: book.String("The Hobbit")},
		},
		delay: 5 * time.Millisecond,
	}
	e := New(res, 2, "tag-20")

	candidates := []book.Candidate{
		{Title: "Dune", Author: "Frank Herbert"},
		{Title: "Unknown Book"},
		{Title: "The Hobbit"},
		{Title: ""},
	}

	out := e.Enrich(context.Background(), candidates)
	require.Len(t, out, len(candidates))

	for i, c := range candidates {
		assert.Equal(t, c, out[i].Candidate, "index %d", i)
	}
	assert.Equal(t, book.StatusResolved, out[0].Status())
	assert.Equal(t, book.StatusUnavailable, out[1].Status())
	assert.Equal(t, book.StatusResolved, out[2].Status())
	assert.Equal(t, book.StatusUnavailable, out[3].Status())

	require.NotNil(t, out[0].Links)
	assert.Contains(t, out[0].Links.Amazon, "tag=tag-20")
	assert.Nil(t, out[2].Links)
}

func TestEnrich_BoundedWorkers(t *testing.T) {
	res := &mockResolver{delay: 20 * time.Millisecond}
	e := New(res, 3, "")

	candidates := make([]book.Candidate, 12)
	for i := range candidates {
		candidates[i] = book.Candidate{Title: fmt.Sprintf("Book %d", i)}
	}

	e.Enrich(context.Background(), candidates)

	assert.LessOrEqual(t, res.peak.Load(), int32(3))
	assert.Len(t, res.seen, 12)
}

func TestEnrich_PanicIsIsolated(t *testing.T) {
	res := &mockResolver{
		records: map[string]*book.Record{"Dune": {Title: book.String("Dune")}},
		panicOn: "Cursed Book",
	}
	e := New(res, 2, "")

	out := e.Enrich(context.Background(), []book.Candidate{
		{Title: "Cursed Book"},
		{Title: "Dune"},
	})

	require.Len(t, out, 2)
	assert.Equal(t, book.StatusUnavailable, out[0].Status())
	assert.Equal(t, "Cursed Book", out[0].Candidate.Title)
	assert.Equal(t, book.StatusResolved, out[1].Status())
}

func TestEnrich_CancelledContextStillWellFormed(t *testing.T) {
	res := &mockResolver{delay: time.Second}
	e := New(res, 1, "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	candidates := []book.Candidate{{Title: "A"}, {Title: "B"}, {Title: "C"}}

	start := time.Now()
	out := e.Enrich(ctx, candidates)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	require.Len(t, out, 3)
	for i, b := range out {
		assert.Equal(t, book.StatusUnavailable, b.Status())
		assert.Equal(t, candidates[i].Title, b.Candidate.Title)
	}
}

func TestEnrich_Empty(t *testing.T) {
	e := New(&mockResolver{}, 0, "")
	assert.Empty(t, e.Enrich(context.Background(), nil))
	assert.Equal(t, DefaultWorkers, e.workers)
}

func TestEnrich_ConcurrentCallsShareResolver(t *testing.T) {
	res := &mockResolver{records: map[string]*book.Record{"Dune": {Title: book.String("Dune")}}}
	e := New(res, 4, "")

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := e.Enrich(context.Background(), []book.Candidate{{Title: "Dune"}})
			assert.True(t, strings.EqualFold("dune", out[0].Title()))
		}()
	}
	wg.Wait()
}
