package resample

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/internal/testutil"
)

func newPrepared(t *testing.T, factor, channels, block int) *Oversampler {
	t.Helper()

	o, err := NewOversampler(WithFactor(factor))
	if err != nil {
		t.Fatalf("NewOversampler() error = %v", err)
	}

	spec := core.ProcessSpec{SampleRate: 48000, MaxBlockSize: block, Channels: channels}
	if err := o.Prepare(spec); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	return o
}

func roundTrip(t *testing.T, o *Oversampler, in []float64, block int) []float64 {
	t.Helper()

	out := make([]float64, len(in))
	for start := 0; start < len(in); start += block {
		end := min(start+block, len(in))
		buf := [][]float64{append([]float64(nil), in[start:end]...)}

		hi, err := o.ProcessUp(buf)
		if err != nil {
			t.Fatalf("ProcessUp() error = %v", err)
		}
		if err := o.ProcessDown(hi, buf); err != nil {
			t.Fatalf("ProcessDown() error = %v", err)
		}

		copy(out[start:end], buf[0])
	}

	return out
}

func TestOversamplerRejectsInvalidFactor(t *testing.T) {
	if _, err := NewOversampler(WithFactor(3)); err == nil {
		t.Fatal("expected error for factor 3")
	}

	o := newPrepared(t, 1, 1, 64)
	if err := o.SetFactor(8); err == nil {
		t.Fatal("expected error for factor 8")
	}
	if o.Factor() != 1 {
		t.Fatalf("Factor() = %d, want 1", o.Factor())
	}
}

func TestOversamplerNotPrepared(t *testing.T) {
	o, _ := NewOversampler()
	if _, err := o.ProcessUp([][]float64{{0}}); err != ErrNotPrepared {
		t.Fatalf("ProcessUp() error = %v, want ErrNotPrepared", err)
	}
}

func TestOversamplerLatency(t *testing.T) {
	for _, tc := range []struct{ factor, want int }{{1, 0}, {2, 23}, {4, 29}} {
		if got := LatencyFor(tc.factor); got != tc.want {
			t.Fatalf("LatencyFor(%d) = %d, want %d", tc.factor, got, tc.want)
		}
	}
}

func TestOversamplerImpulsePeakAtLatency(t *testing.T) {
	for _, factor := range []int{1, 2, 4} {
		o := newPrepared(t, factor, 1, 32)
		out := roundTrip(t, o, testutil.Impulse(128, 10), 32)

		peak := 0
		for i := range out {
			if math.Abs(out[i]) > math.Abs(out[peak]) {
				peak = i
			}
		}

		if want := 10 + o.Latency(); peak != want {
			t.Fatalf("factor %d: impulse peak at %d, want %d", factor, peak, want)
		}
	}
}

func TestOversamplerRoundTripDelaysSine(t *testing.T) {
	in := testutil.DeterministicSine(1000, 48000, 0.5, 1024)

	for _, factor := range []int{1, 2, 4} {
		o := newPrepared(t, factor, 1, 100)
		out := roundTrip(t, o, in, 100)
		lat := o.Latency()

		for n := 200; n < len(in); n++ {
			if d := math.Abs(out[n] - in[n-lat]); d > 1e-4 {
				t.Fatalf("factor %d: sample %d off by %v", factor, n, d)
			}
		}
	}
}

func TestOversamplerUnityAtDC(t *testing.T) {
	o := newPrepared(t, 4, 1, 64)
	out := roundTrip(t, o, testutil.DC(1, 512), 64)

	if math.Abs(out[len(out)-1]-1) > 1e-6 {
		t.Fatalf("DC settles at %v, want 1", out[len(out)-1])
	}
}

func TestOversamplerViewLengths(t *testing.T) {
	o := newPrepared(t, 4, 2, 64)
	block := [][]float64{make([]float64, 48), make([]float64, 48)}

	hi, err := o.ProcessUp(block)
	if err != nil {
		t.Fatalf("ProcessUp() error = %v", err)
	}

	for ch := range hi {
		if len(hi[ch]) != 4*48 {
			t.Fatalf("channel %d view length %d, want %d", ch, len(hi[ch]), 4*48)
		}
	}

	if err := o.ProcessDown(hi[:1], block); err == nil {
		t.Fatal("expected error for missing oversampled channel")
	}
}

func TestOversamplerRejectsOversizedBlock(t *testing.T) {
	o := newPrepared(t, 2, 1, 16)
	if _, err := o.ProcessUp([][]float64{make([]float64, 17)}); err == nil {
		t.Fatal("expected error for block longer than max")
	}
}

func TestOversamplerFactorChangeDeferredMidBlock(t *testing.T) {
	o := newPrepared(t, 2, 1, 16)
	block := [][]float64{make([]float64, 16)}

	hi, _ := o.ProcessUp(block)
	if err := o.SetFactor(4); err != nil {
		t.Fatalf("SetFactor() error = %v", err)
	}
	if o.Factor() != 2 {
		t.Fatalf("Factor() = %d mid-block, want 2", o.Factor())
	}
	if err := o.ProcessDown(hi, block); err != nil {
		t.Fatalf("ProcessDown() error = %v", err)
	}

	if _, err := o.ProcessUp(block); err != nil {
		t.Fatalf("ProcessUp() error = %v", err)
	}
	if o.Factor() != 4 {
		t.Fatalf("Factor() = %d after next block start, want 4", o.Factor())
	}
}

func TestOversamplerDoesNotAllocate(t *testing.T) {
	o := newPrepared(t, 4, 2, 64)
	block := [][]float64{
		testutil.DeterministicNoise(1, 0.5, 64),
		testutil.DeterministicNoise(2, 0.5, 64),
	}

	allocs := testing.AllocsPerRun(100, func() {
		hi, _ := o.ProcessUp(block)
		_ = o.ProcessDown(hi, block)
	})

	if allocs != 0 {
		t.Fatalf("allocs per block = %v, want 0", allocs)
	}
}
