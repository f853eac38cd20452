package resample

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-saturator/internal/testutil"
)

func TestDesignHalfBandRejectsEvenLength(t *testing.T) {
	for _, n := range []int{0, 1, 2, 46} {
		if _, err := DesignHalfBand(n, 8); err == nil {
			t.Fatalf("DesignHalfBand(%d) expected error", n)
		}
	}
}

func TestDesignHalfBandStructure(t *testing.T) {
	h, err := DesignHalfBand(Stage1Taps, defaultKaiserBeta)
	if err != nil {
		t.Fatalf("DesignHalfBand() error = %v", err)
	}

	center := (len(h) - 1) / 2

	var sum float64
	for i, v := range h {
		sum += v
		if math.Abs(v-h[len(h)-1-i]) > 1e-15 {
			t.Fatalf("tap %d not symmetric: %v vs %v", i, v, h[len(h)-1-i])
		}
		if d := i - center; d != 0 && d%2 == 0 && v != 0 {
			t.Fatalf("tap %d = %v, want 0", i, v)
		}
	}

	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("DC gain = %v, want 1", sum)
	}
	if math.Abs(h[center]-0.5) > 1e-4 {
		t.Fatalf("centre tap = %v, want ~0.5", h[center])
	}
}

func TestHalfBandUpsampleTracksSine(t *testing.T) {
	hb, err := NewHalfBand(Stage1Taps, defaultKaiserBeta)
	if err != nil {
		t.Fatalf("NewHalfBand() error = %v", err)
	}

	const fs = 48000.0
	in := testutil.DeterministicSine(1000, fs, 0.5, 400)
	out := make([]float64, 2*len(in))
	hb.Upsample(out, in)

	delay := (Stage1Taps - 1) / 2
	for m := 200; m < len(out); m++ {
		want := 0.5 * math.Sin(2*math.Pi*1000*float64(m-delay)/(2*fs))
		if math.Abs(out[m]-want) > 1e-4 {
			t.Fatalf("out[%d] = %v, want %v", m, out[m], want)
		}
	}
}

func TestHalfBandBlockSplitIndependence(t *testing.T) {
	in := testutil.DeterministicNoise(3, 0.8, 96)

	whole, _ := NewHalfBand(Stage2Taps, defaultKaiserBeta)
	split, _ := NewHalfBand(Stage2Taps, defaultKaiserBeta)

	want := make([]float64, 2*len(in))
	whole.Upsample(want, in)

	got := make([]float64, 2*len(in))
	split.Upsample(got[:50], in[:25])
	split.Upsample(got[50:], in[25:])

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-15)

	dw := make([]float64, len(in))
	ds := make([]float64, len(in))
	whole.Downsample(dw, want)
	split.Downsample(ds[:10], got[:20])
	split.Downsample(ds[10:], got[20:])

	testutil.RequireSliceNearlyEqual(t, ds, dw, 1e-15)
}

func TestHalfBandReset(t *testing.T) {
	hb, _ := NewHalfBand(Stage1Taps, defaultKaiserBeta)
	in := testutil.DC(1, 32)
	out := make([]float64, 64)
	hb.Upsample(out, in)
	hb.Reset()

	zero := make([]float64, 32)
	hb.Upsample(out, zero)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v after reset, want 0", i, v)
		}
	}
}
