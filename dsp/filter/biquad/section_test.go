package biquad

import (
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func testCoefficients() Coefficients {
	return Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
}

func TestNewSection(t *testing.T) {
	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	if st := s.State(); st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestIdentityPassthrough(t *testing.T) {
	s := NewSection(Identity())
	for i, x := range []float64{1, 0, -1, 0.5, 0.25} {
		if y := s.ProcessSample(x); !almostEqual(y, x, eps) {
			t.Fatalf("sample %d: got %v, want %v", i, y, x)
		}
	}
	if !(Coefficients{}).IsZero() || Identity().IsZero() {
		t.Fatal("IsZero misreports")
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	// n=0: y=0.25, d0=0.55, d1=0.24
	// n=1: y=0.55, d0=0.35, d1=-0.022
	// n=2: y=0.35, d0=0.048, d1=-0.014
	want := []float64{0.25, 0.55, 0.35, 0.048}
	s := NewSection(testCoefficients())

	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}

		if y := s.ProcessSample(x); !almostEqual(y, w, 1e-12) {
			t.Fatalf("y[%d] = %v, want %v", i, y, w)
		}
	}
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	in := make([]float64, 33)
	for i := range in {
		in[i] = math.Sin(0.3*float64(i)) + 0.1*float64(i%3)
	}

	ref := NewSection(testCoefficients())
	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = ref.ProcessSample(x)
	}

	s := NewSection(testCoefficients())
	got := append([]float64(nil), in...)
	s.ProcessBlock(got[:10])
	s.ProcessBlock(got[10:])

	for i := range want {
		if !almostEqual(got[i], want[i], 1e-12) {
			t.Fatalf("sample %d: block=%v sample=%v", i, got[i], want[i])
		}
	}

	to := NewSection(testCoefficients())
	dst := make([]float64, len(in))
	to.ProcessBlockTo(dst, in)

	for i := range want {
		if !almostEqual(dst[i], want[i], 1e-12) {
			t.Fatalf("ProcessBlockTo sample %d: got %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestProcessBlockEmpty(t *testing.T) {
	s := NewSection(testCoefficients())
	s.ProcessBlock(nil)
	s.ProcessBlockTo(nil, nil)
	if st := s.State(); st != [2]float64{0, 0} {
		t.Fatalf("empty block changed state: %v", st)
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := NewSection(testCoefficients())
	s.ProcessSample(1)
	saved := s.State()

	a := s.ProcessSample(0.5)
	s.SetState(saved)
	b := s.ProcessSample(0.5)

	if a != b {
		t.Fatalf("restored state diverged: %v vs %v", a, b)
	}

	s.Reset()
	if st := s.State(); st != [2]float64{0, 0} {
		t.Fatalf("Reset left state %v", st)
	}
}

func TestProcessBlockFlushesDenormals(t *testing.T) {
	s := NewSection(Coefficients{B0: 1, A1: -0.5})
	buf := []float64{1e-300, 0, 0, 0}
	s.ProcessBlock(buf)

	if st := s.State(); st != [2]float64{0, 0} {
		t.Fatalf("subnormal tail not flushed: %v", st)
	}
}
