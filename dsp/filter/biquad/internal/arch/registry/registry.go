// Package registry selects the biquad block kernel for the running CPU.
package registry

import (
	"cmp"
	"slices"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients are normalized biquad coefficients (a0 == 1).
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// ProcessBlockFn filters buf in place through one DF2T section starting from
// state (d0, d1) and returns the state after the last sample.
type ProcessBlockFn func(c Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64)

// OpEntry is one kernel and the SIMD level it needs.
type OpEntry struct {
	Name         string
	SIMDLevel    cpu.SIMDLevel
	Priority     int
	ProcessBlock ProcessBlockFn
}

// OpRegistry holds kernels ordered by descending priority.
type OpRegistry struct {
	mu      sync.RWMutex
	entries []OpEntry
}

// Global is filled by the arch packages' init functions.
var Global = &OpRegistry{}

// Register adds entry. Entries of equal priority keep registration order.
func (r *OpRegistry) Register(entry OpEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	slices.SortStableFunc(r.entries, func(a, b OpEntry) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
}

// Lookup returns the highest-priority kernel that features support, or nil.
func (r *OpRegistry) Lookup(features cpu.Features) *OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.entries {
		if cpu.Supports(features, r.entries[i].SIMDLevel) {
			entry := r.entries[i]
			return &entry
		}
	}

	return nil
}

// ListEntries returns a copy of the entries in lookup order.
func (r *OpRegistry) ListEntries() []OpEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.entries)
}

// Reset removes every entry.
func (r *OpRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
}
