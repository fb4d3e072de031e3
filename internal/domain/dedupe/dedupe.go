// Package dedupe tracks player ids already present in a table.
package dedupe

import (
	"sync"
)

// Deduper records seen player ids so appends keep ids unique.
type Deduper interface {
	// SeenAndRecord reports whether id was already seen and records it if not.
	SeenAndRecord(id int) bool
	Size() int
}

type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[int]struct{}
	hint int
}

// NewInMemoryDeduper creates an empty deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[int]struct{}, d.hint)
	return d
}

// FromIDs returns a deduper seeded with ids.
func FromIDs(ids []int) Deduper {
	d := NewInMemoryDeduper(WithCapacity(len(ids)))
	for _, id := range ids {
		d.SeenAndRecord(id)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(id int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
