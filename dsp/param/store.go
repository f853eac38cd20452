package param

import (
	"errors"
	"math"
	"sync/atomic"
)

// ErrUnknownParameter is returned for IDs or names outside the table.
var ErrUnknownParameter = errors.New("param: unknown parameter")

// Store holds the current plain value of every parameter. Writes come from
// the host or UI; the audio thread reads a Snapshot once per block.
type Store struct {
	values [Count]atomic.Uint64
}

// NewStore returns a store initialised to the declared defaults.
func NewStore() *Store {
	s := &Store{}
	s.ResetDefaults()

	return s
}

// ResetDefaults writes every default.
func (s *Store) ResetDefaults() {
	for i := range specs {
		s.values[i].Store(math.Float64bits(specs[i].Default))
	}
}

// Set writes v clamped to the declared range.
func (s *Store) Set(id ID, v float64) error {
	spec, err := Lookup(id)
	if err != nil {
		return err
	}

	s.values[id].Store(math.Float64bits(spec.Clamp(v)))

	return nil
}

// SetNormalized writes a 0..1 value mapped onto the declared range.
func (s *Store) SetNormalized(id ID, n float64) error {
	spec, err := Lookup(id)
	if err != nil {
		return err
	}

	if math.IsNaN(n) {
		n = spec.Normalize(spec.Default)
	}

	s.values[id].Store(math.Float64bits(spec.Denormalize(n)))

	return nil
}

// Get returns the plain value of id, or zero for an unknown id.
func (s *Store) Get(id ID) float64 {
	if id < 0 || id >= Count {
		return 0
	}

	return math.Float64frombits(s.values[id].Load())
}

// Normalized returns the value of id mapped into 0..1.
func (s *Store) Normalized(id ID) float64 {
	if id < 0 || id >= Count {
		return 0
	}

	return specs[id].Normalize(s.Get(id))
}

// Snapshot copies all values. Each value is read atomically; the set as a
// whole is not a transaction.
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	s.SnapshotInto(&snap)

	return snap
}

// SnapshotInto fills dst without allocating.
func (s *Store) SnapshotInto(dst *Snapshot) {
	for i := range dst.values {
		dst.values[i] = math.Float64frombits(s.values[i].Load())
	}
}

// Snapshot is a block-constant copy of the parameter values.
type Snapshot struct {
	values [Count]float64
}

// DefaultSnapshot returns a snapshot of the declared defaults.
func DefaultSnapshot() Snapshot {
	var snap Snapshot
	for i := range specs {
		snap.values[i] = specs[i].Default
	}

	return snap
}

// Value returns the plain value of id.
func (s *Snapshot) Value(id ID) float64 {
	if id < 0 || id >= Count {
		return 0
	}

	return s.values[id]
}

// Bool reports whether a switch parameter is on.
func (s *Snapshot) Bool(id ID) bool {
	return s.Value(id) > 0.5
}

// Index returns a choice parameter rounded to the nearest integer.
func (s *Snapshot) Index(id ID) int {
	return int(math.Round(s.Value(id)))
}

// Set overrides one value, clamped, in this snapshot only.
func (s *Snapshot) Set(id ID, v float64) {
	if id < 0 || id >= Count {
		return
	}

	s.values[id] = specs[id].Clamp(v)
}
