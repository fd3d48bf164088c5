// Package dedupe tracks keys of in-flight work so duplicates can be coalesced.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxSize = 50_000

// Deduper records keys that already have pending work.
type Deduper interface {
	// SeenAndRecord atomically checks if key is tracked and records it if not.
	// Returns true if key was already tracked.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord releases key once its work has finished or failed to enqueue.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper keeps keys in insertion order so the oldest can be
// evicted in O(1) when the bound is reached.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List // front = newest
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*list.Element)
	d.order = list.New()
	return d
}

// SeenAndRecord reports whether key is already tracked, recording it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		if oldest := d.order.Back(); oldest != nil {
			d.order.Remove(oldest)
			delete(d.seen, oldest.Value.(string))
		}
	}
	d.seen[key] = d.order.PushFront(key)
	return false
}

// Unrecord removes key so later work for it is accepted again.
func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, exists := d.seen[key]; exists {
		d.order.Remove(el)
		delete(d.seen, key)
	}
}

// Size returns the number of tracked keys.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
