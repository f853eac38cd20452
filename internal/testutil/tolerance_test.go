package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d, err := MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffLengthMismatch(t *testing.T) {
	_, err := MaxAbsDiff([]float64{1}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestMaxAbsDiffIdentical(t *testing.T) {
	a := []float64{1, 2, 3}

	d, err := MaxAbsDiff(a, a)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}

	if d != 0 {
		t.Fatalf("MaxAbsDiff = %v, want 0 for identical slices", d)
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", got)
	}

	if got := RMS(DC(-0.5, 16)); math.Abs(got-0.5) > 1e-15 {
		t.Fatalf("RMS(DC) = %v, want 0.5", got)
	}

	sine := DeterministicSine(1000, 48000, 1, 4800)
	if got := RMS(sine); math.Abs(got-1/math.Sqrt2) > 1e-9 {
		t.Fatalf("RMS(sine) = %v, want %v", got, 1/math.Sqrt2)
	}
}

func TestRequireInRange(t *testing.T) {
	RequireInRange(t, []float64{-1, 0, 1}, -1, 1)
}
