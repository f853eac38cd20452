package param

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// StateVersion is the blob format written by MarshalState.
const StateVersion = 1

// ErrInvalidState is returned for blobs that cannot be decoded.
var ErrInvalidState = errors.New("param: invalid state")

type stateDocument struct {
	Version int                `json:"version"`
	Params  map[string]float64 `json:"params"`
}

// MarshalState encodes every value by parameter name.
func (s *Store) MarshalState() ([]byte, error) {
	doc := stateDocument{
		Version: StateVersion,
		Params:  make(map[string]float64, len(specs)),
	}

	for _, spec := range specs {
		doc.Params[spec.Name] = s.Get(spec.ID)
	}

	return json.Marshal(doc)
}

// UnmarshalState applies a blob written by MarshalState. Unknown names are
// ignored and missing names keep their current value. Nothing is written
// when the blob is rejected.
func (s *Store) UnmarshalState(data []byte) error {
	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if doc.Version < 1 || doc.Version > StateVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidState, doc.Version)
	}

	for name, v := range doc.Params {
		id, ok := byName[name]
		if !ok {
			continue
		}

		s.values[id].Store(math.Float64bits(specs[id].Clamp(v)))
	}

	return nil
}
