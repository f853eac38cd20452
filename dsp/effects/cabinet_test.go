package effects

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-saturator/internal/testutil"
)

func TestCabinetPresetTable(t *testing.T) {
	if len(CabinetPresets) != 10 {
		t.Fatalf("len(CabinetPresets) = %d, want 10", len(CabinetPresets))
	}

	if p := CabinetPresets[7]; p.Name != "4x12 Modern" || p.AirLoss != 10500 {
		t.Fatalf("preset 7 = %+v", p)
	}
}

func TestCabinetCoefficientsDeterministic(t *testing.T) {
	for i, p := range CabinetPresets {
		a := CabinetCoefficients(p, 0.3, 0.5, 48000)
		b := CabinetCoefficients(p, 0.3, 0.5, 48000)

		if a != b {
			t.Fatalf("preset %d coefficients differ between calls", i)
		}

		for s, c := range a {
			if c.IsZero() {
				t.Fatalf("preset %d stage %d is zero", i, s)
			}
		}
	}

	c1, _ := NewCabinet(48000, WithCabinetPreset(3), WithCabinetPresence(0.8), WithCabinetResonance(0.2))
	c2, _ := NewCabinet(48000, WithCabinetPreset(3), WithCabinetPresence(0.8), WithCabinetResonance(0.2))
	if c1.Coefficients() != c2.Coefficients() {
		t.Fatal("equal settings produced different coefficients")
	}
}

func TestCabinetCoefficientsDependOnSampleRate(t *testing.T) {
	c, _ := NewCabinet(44100)
	before := c.Coefficients()

	if err := c.SetSampleRate(96000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}

	if c.Coefficients() == before {
		t.Fatal("coefficients unchanged after sample rate change")
	}
}

func TestCabinetPresetChangeKeepsState(t *testing.T) {
	c, _ := NewCabinet(48000, WithCabinetChannels(1))
	c.ProcessChannel(0, testutil.DeterministicNoise(5, 0.5, 64))

	cone := c.cone.Chain(0).State()
	mic := c.mic.Chain(0).State()

	if err := c.SetPreset(6); err != nil {
		t.Fatalf("SetPreset() error = %v", err)
	}
	c.SetPresence(0.9)
	c.SetResonance(0.1)

	if got := c.cone.Chain(0).State(); !equalStates(got, cone) {
		t.Fatalf("cone state changed: %v -> %v", cone, got)
	}
	if got := c.mic.Chain(0).State(); !equalStates(got, mic) {
		t.Fatalf("mic state changed: %v -> %v", mic, got)
	}
}

func equalStates(a, b [][2]float64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func TestCabinetPresenceMovesBassAndAir(t *testing.T) {
	close, _ := NewCabinet(48000, WithCabinetPresence(0))
	room, _ := NewCabinet(48000, WithCabinetPresence(1))

	if lo, hi := close.MagnitudeDB(60), room.MagnitudeDB(60); lo <= hi+6 {
		t.Fatalf("60 Hz: close %v dB, room %v dB, want close well above room", lo, hi)
	}
	if lo, hi := close.MagnitudeDB(12000), room.MagnitudeDB(12000); hi >= lo {
		t.Fatalf("12 kHz: close %v dB, room %v dB, want room below close", lo, hi)
	}
}

func TestCabinetRollsOffAboveSpeakerCutoff(t *testing.T) {
	c, _ := NewCabinet(48000, WithCabinetPreset(2))
	if c.MagnitudeDB(15000) > c.MagnitudeDB(1000)-20 {
		t.Fatalf("15 kHz %v dB not well below 1 kHz %v dB", c.MagnitudeDB(15000), c.MagnitudeDB(1000))
	}
}

func TestSpeakerShaper(t *testing.T) {
	if SpeakerShaper(0.2) != 0.2 {
		t.Fatal("shaper should be linear below 0.3")
	}

	want := 0.5 * (1 - 0.1*0.2)
	if got := SpeakerShaper(0.5); math.Abs(got-want) > 1e-12 {
		t.Fatalf("SpeakerShaper(0.5) = %v, want %v", got, want)
	}

	for _, x := range []float64{-10, -1, 1, 10} {
		if y := SpeakerShaper(x); math.Abs(y) > speakerShaperCeiling {
			t.Fatalf("SpeakerShaper(%v) = %v exceeds ceiling", x, y)
		}
	}
}

func TestCabinetProcessFinite(t *testing.T) {
	c, _ := NewCabinet(44100, WithCabinetPreset(7), WithCabinetResonance(1))
	buf := testutil.DeterministicNoise(9, 1, 4096)
	c.ProcessChannel(1, buf)
	testutil.RequireFinite(t, buf)

	c.Reset()
	if st := c.cone.Chain(1).State(); st[0] != [2]float64{} {
		t.Fatalf("state after Reset = %v", st)
	}
}

func TestCabinetValidation(t *testing.T) {
	if _, err := NewCabinet(48000, WithCabinetPreset(10)); err == nil {
		t.Fatal("expected error for preset 10")
	}
	if _, err := NewCabinet(48000, WithCabinetPresence(1.5)); err == nil {
		t.Fatal("expected error for presence 1.5")
	}
	if _, err := NewCabinet(-1); err == nil {
		t.Fatal("expected error for negative sample rate")
	}

	c, _ := NewCabinet(48000)
	if err := c.SetPreset(-1); err == nil {
		t.Fatal("expected error for preset -1")
	}
}
