// Package bloom provides photo ID deduplication using Bloom filters.
package bloom

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter wraps a Bloom filter keyed by photo ID.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected IDs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

func key(id int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// AddID adds an ID to the filter.
func (f *Filter) AddID(id int64) {
	f.f.Add(key(id))
}

// TestID returns true if the ID might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) TestID(id int64) bool {
	return f.f.Test(key(id))
}

// TestAndAddID reports whether the ID might already be in the filter
// and adds it either way.
func (f *Filter) TestAndAddID(id int64) bool {
	return f.f.TestAndAdd(key(id))
}

// EstimatedCount returns the approximate number of IDs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
