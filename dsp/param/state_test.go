package param

import (
	"errors"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	src := NewStore()
	_ = src.Set(Drive, 72)
	_ = src.Set(CabinetModel, 6)
	_ = src.Set(Bypass, 1)

	blob, err := src.MarshalState()
	if err != nil {
		t.Fatalf("MarshalState() error = %v", err)
	}

	dst := NewStore()
	if err := dst.UnmarshalState(blob); err != nil {
		t.Fatalf("UnmarshalState() error = %v", err)
	}

	for _, spec := range Specs() {
		if dst.Get(spec.ID) != src.Get(spec.ID) {
			t.Fatalf("%s = %v, want %v", spec.Name, dst.Get(spec.ID), src.Get(spec.ID))
		}
	}
}

func TestUnmarshalStatePartialAndUnknown(t *testing.T) {
	s := NewStore()
	_ = s.Set(Tone, 10)

	blob := []byte(`{"version":1,"params":{"drive":500,"reverbSize":3}}`)
	if err := s.UnmarshalState(blob); err != nil {
		t.Fatalf("UnmarshalState() error = %v", err)
	}

	if s.Get(Drive) != 100 {
		t.Fatalf("drive = %v, want clamped 100", s.Get(Drive))
	}
	if s.Get(Tone) != 10 {
		t.Fatalf("tone = %v, want untouched 10", s.Get(Tone))
	}
}

func TestUnmarshalStateRejects(t *testing.T) {
	for _, blob := range []string{
		`not json`,
		`{"version":0,"params":{}}`,
		`{"version":2,"params":{"drive":1}}`,
	} {
		s := NewStore()
		if err := s.UnmarshalState([]byte(blob)); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("UnmarshalState(%s) error = %v, want ErrInvalidState", blob, err)
		}
		if s.Get(Drive) != 30 {
			t.Fatalf("rejected blob %s changed drive", blob)
		}
	}
}
