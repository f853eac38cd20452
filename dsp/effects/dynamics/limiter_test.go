package dynamics

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-saturator/internal/testutil"
)

func TestLimiterProcessChannelMatchesSample(t *testing.T) {
	l1, err := NewLimiter(48000)
	if err != nil {
		t.Fatalf("NewLimiter() error = %v", err)
	}
	l2, _ := NewLimiter(48000)

	for _, l := range []*Limiter{l1, l2} {
		if err := l.SetThreshold(-3); err != nil {
			t.Fatalf("SetThreshold() error = %v", err)
		}
		if err := l.SetRelease(80); err != nil {
			t.Fatalf("SetRelease() error = %v", err)
		}
	}

	in := []float64{0.0, 0.1, 0.5, 0.95, 1.3, -1.1, 0.8, -0.6, 0.2, 0.0}

	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = l1.ProcessSample(0, x)
	}

	got := append([]float64(nil), in...)
	l2.ProcessChannel(0, got)

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestLimiterCeiling(t *testing.T) {
	l, _ := NewLimiter(48000)

	buf := testutil.DeterministicNoise(3, 4, 4096)
	l.ProcessChannel(1, buf)

	for i, v := range buf {
		if math.Abs(v) > 1 {
			t.Fatalf("sample %d = %v exceeds 0 dB", i, v)
		}
	}
}

func TestLimiterTransparentBelowThreshold(t *testing.T) {
	l, _ := NewLimiter(48000)

	in := testutil.DeterministicSine(440, 48000, 0.7, 1024)
	out := append([]float64(nil), in...)
	l.ProcessChannel(0, out)

	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestLimiterRecoversAfterRelease(t *testing.T) {
	l, _ := NewLimiter(48000)

	l.ProcessSample(0, 4)
	if got := l.ProcessSample(0, 0.5); got >= 0.5 {
		t.Fatalf("right after peak = %v, want reduced", got)
	}

	// 200 ms is twenty release time constants.
	l.ProcessChannel(0, make([]float64, 9600))
	if got := l.ProcessSample(0, 0.5); math.Abs(got-0.5) > 1e-6 {
		t.Fatalf("after release = %v, want 0.5", got)
	}
}

func TestLimiterValidation(t *testing.T) {
	if _, err := NewLimiter(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}

	l, _ := NewLimiter(48000)
	if err := l.SetRelease(0.1); err == nil {
		t.Fatal("expected error for 0.1 ms release")
	}
	if err := l.SetThreshold(math.NaN()); err == nil {
		t.Fatal("expected error for NaN threshold")
	}
	if got := l.CalculateOutputLevel(-3); got != 1 {
		t.Fatalf("CalculateOutputLevel(-3) = %v, want 1", got)
	}
}
