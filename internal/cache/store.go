package cache

import (
	"context"
	"sync"

	"github.com/springymate/book-scanner/internal/book"
)

// Entry is a cached lookup outcome: a merged record or an explicit not-found.
type Entry struct {
	Record   *book.Record `json:"record,omitempty"`
	NotFound bool         `json:"not_found"`
}

// Store is a metadata cache keyed by the normalized title/author key.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the entry and true on a hit.
	Get(ctx context.Context, key string) (Entry, bool)
	// Set stores the entry. Failures are logged, never returned.
	Set(ctx context.Context, key string, e Entry)
}

// Memory is an in-process Store that lives for the duration of the run.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

func (m *Memory) Get(_ context.Context, key string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return e, ok
}

func (m *Memory) Set(_ context.Context, key string, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = e
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Tiered checks the in-memory front first and falls back to the persistent
// back store, promoting hits to the front.
type Tiered struct {
	front *Memory
	back  Store
}

// NewTiered layers an in-memory store over back.
func NewTiered(back Store) *Tiered {
	return &Tiered{front: NewMemory(), back: back}
}

func (t *Tiered) Get(ctx context.Context, key string) (Entry, bool) {
	if e, ok := t.front.Get(ctx, key); ok {
		return e, true
	}
	e, ok := t.back.Get(ctx, key)
	if ok {
		t.front.Set(ctx, key, e)
	}
	return e, ok
}

func (t *Tiered) Set(ctx context.Context, key string, e Entry) {
	t.front.Set(ctx, key, e)
	t.back.Set(ctx, key, e)
}
