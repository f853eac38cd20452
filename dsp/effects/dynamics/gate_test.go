package dynamics

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-saturator/internal/testutil"
)

// TestNewGate verifies constructor with valid and invalid sample rates.
func TestNewGate(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		wantErr    bool
	}{
		{"valid 44100", 44100, false},
		{"valid 48000", 48000, false},
		{"valid 96000", 96000, false},
		{"invalid zero", 0, true},
		{"invalid negative", -1, true},
		{"invalid NaN", math.NaN(), true},
		{"invalid +Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGate(tt.sampleRate)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewGate() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && g == nil {
				t.Fatal("NewGate() returned nil without error")
			}
		})
	}
}

func TestGateDefaults(t *testing.T) {
	g, _ := NewGate(48000)
	if g.Threshold() != defaultGateThresholdDB {
		t.Fatalf("Threshold() = %v, want %v", g.Threshold(), defaultGateThresholdDB)
	}
	if g.Gain(0) != 1 || g.Gain(1) != 1 {
		t.Fatal("gate should start open")
	}

	if err := g.SetThreshold(math.Inf(-1)); err == nil {
		t.Fatal("expected error for infinite threshold")
	}
}

func TestGateAttenuatesSignalBelowThreshold(t *testing.T) {
	g, _ := NewGate(48000)
	thr := math.Pow(10, -40.0/20)

	buf := testutil.DeterministicSine(1000, 48000, 0.5*thr, 4800)
	g.ProcessChannel(0, buf)

	// Last 10 ms of a 100 ms run.
	for i, v := range buf[len(buf)-480:] {
		if math.Abs(v) > 1e-9 {
			t.Fatalf("sample %d = %v, want near zero", i, v)
		}
	}
}

func TestGatePassesSignalAboveThreshold(t *testing.T) {
	g, _ := NewGate(48000)
	thr := math.Pow(10, -40.0/20)

	in := testutil.DeterministicSine(500, 48000, 2*thr, 9600)
	out := append([]float64(nil), in...)
	g.ProcessChannel(0, out)

	for i := 480; i < len(in); i++ {
		if math.Abs(out[i]-in[i]) > 1e-3*math.Abs(in[i])+1e-12 {
			t.Fatalf("sample %d = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestGateClosesAfterBurst(t *testing.T) {
	g, _ := NewGate(48000)
	thr := math.Pow(10, -40.0/20)

	loud := testutil.DeterministicSine(300, 48000, 4*thr, 4800)
	quiet := testutil.DeterministicSine(300, 48000, 0.5*thr, 14400)

	g.ProcessChannel(0, loud)
	g.ProcessChannel(0, quiet)

	if g.Gain(0) > 1e-6 {
		t.Fatalf("gain after 300 ms of quiet = %v, want ~0", g.Gain(0))
	}
}

func TestGateChannelsIndependent(t *testing.T) {
	g, _ := NewGate(48000)

	g.ProcessChannel(1, make([]float64, 4800))
	if g.Gain(1) > 1e-6 {
		t.Fatalf("silent channel 1 gain = %v", g.Gain(1))
	}
	if g.Gain(0) != 1 {
		t.Fatalf("untouched channel 0 gain = %v, want 1", g.Gain(0))
	}
}

func TestGateInputLevelTracksChannelZero(t *testing.T) {
	g, _ := NewGate(48000)

	g.ProcessSample(0, -0.25)
	g.ProcessSample(1, 0.9)

	if g.InputLevel() != 0.25 {
		t.Fatalf("InputLevel() = %v, want 0.25", g.InputLevel())
	}
}

func TestGateResetReopens(t *testing.T) {
	g, _ := NewGate(48000)
	g.ProcessChannel(0, make([]float64, 4800))
	g.Reset()

	if g.Gain(0) != 1 || g.InputLevel() != 0 {
		t.Fatalf("after Reset gain=%v level=%v", g.Gain(0), g.InputLevel())
	}
}
