// Package bloom provides record de-duplication using Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/rundown"
)

// Filter wraps a Bloom filter over string keys.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a key to the filter.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test returns true if the key might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Ensure Deduper implements rundown.RecordDeduplicator at compile time.
var _ rundown.RecordDeduplicator = (*Deduper)(nil)

// Deduper detects records whose values equal a record seen earlier,
// regardless of the source they came from. The Bloom filter answers the
// common "never seen" case; a positive answer is confirmed against the
// exact set of record hashes.
type Deduper struct {
	mu      sync.Mutex
	columns []rundown.Column
	filter  *Filter
	seen    map[uint64]struct{}
}

// NewDeduper creates a Deduper sized for n expected records comparing the
// given columns.
func NewDeduper(n uint, columns []rundown.Column) *Deduper {
	return &Deduper{
		columns: columns,
		filter:  NewFilter(n, 0.01),
		seen:    make(map[uint64]struct{}, n),
	}
}

// Duplicate reports whether rec was seen before and remembers it otherwise.
// It is safe for concurrent use.
func (d *Deduper) Duplicate(rec *rundown.Record) bool {
	key := rec.Key(d.columns)
	sum := xxhash.Sum64String(key)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.filter.Test(key) {
		if _, ok := d.seen[sum]; ok {
			return true
		}
	}
	d.filter.Add(key)
	d.seen[sum] = struct{}{}
	return false
}

// Forget removes rec from the exact set. The Bloom filter keeps its bits,
// so a later equal record is confirmed against the set and admitted again.
func (d *Deduper) Forget(rec *rundown.Record) {
	sum := xxhash.Sum64String(rec.Key(d.columns))

	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, sum)
}

// Len returns the number of distinct records seen.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
