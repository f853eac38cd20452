package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/filter/biquad"
	"github.com/cwbudde/algo-saturator/dsp/filter/design"
)

const (
	toneLowShelfFreq  = 200.0
	toneHighShelfFreq = 4000.0
	toneShelfQ        = 0.7
	tonePeakQ         = 0.5
	toneEpsilon       = 1e-4
)

// ToneStage is a one-knob tilt EQ: a low shelf and a high shelf moving in
// opposite directions plus a sweeping presence peak.
type ToneStage struct {
	sampleRate float64
	tone       float64
	bank       *biquad.Bank
}

// NewToneStage creates a tone stage at tone 0.5 (flat shelves).
func NewToneStage(sampleRate float64, channels int) (*ToneStage, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("tone sample rate must be > 0 and finite: %f", sampleRate)
	}

	if channels < 1 || channels > core.MaxChannels {
		return nil, fmt.Errorf("tone channels must be in [1, %d]: %d", core.MaxChannels, channels)
	}

	t := &ToneStage{
		sampleRate: sampleRate,
		tone:       0.5,
		bank:       biquad.NewBank(channels, 3),
	}
	t.updateCoefficients()

	return t, nil
}

// SetSampleRate recomputes coefficients for a new rate.
func (t *ToneStage) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("tone sample rate must be > 0 and finite: %f", sampleRate)
	}

	t.sampleRate = sampleRate
	t.updateCoefficients()

	return nil
}

// SetTone sets the knob in [0, 1]. Coefficients are only recomputed when the
// value moves by more than 1e-4.
func (t *ToneStage) SetTone(tone float64) {
	if !core.IsFinite(tone) {
		return
	}

	tone = core.Clamp(tone, 0, 1)
	if math.Abs(tone-t.tone) <= toneEpsilon {
		return
	}

	t.tone = tone
	t.updateCoefficients()
}

// Tone returns the knob value.
func (t *ToneStage) Tone() float64 { return t.tone }

// Coefficients returns low shelf, high shelf and presence peak.
func (t *ToneStage) Coefficients() [3]biquad.Coefficients {
	return ToneCoefficients(t.tone, t.sampleRate)
}

// ToneCoefficients derives the three sections for tone in [0, 1].
func ToneCoefficients(tone, sampleRate float64) [3]biquad.Coefficients {
	fc := func(f float64) float64 { return design.ClampFrequency(f, sampleRate) }

	return [3]biquad.Coefficients{
		design.LowShelf(fc(toneLowShelfFreq), core.Lerp(3, -3, tone), toneShelfQ, sampleRate),
		design.HighShelf(fc(toneHighShelfFreq), core.Lerp(-3, 3, tone), toneShelfQ, sampleRate),
		design.Peak(fc(core.Lerp(2000, 6000, tone)), core.Lerp(-1, 2, tone), tonePeakQ, sampleRate),
	}
}

func (t *ToneStage) updateCoefficients() {
	c := t.Coefficients()
	t.bank.SetCoefficients(c[:]...)
}

// ProcessChannel filters buf in place.
func (t *ToneStage) ProcessChannel(ch int, buf []float64) {
	t.bank.ProcessChannel(ch, buf)
}

// Reset clears filter state.
func (t *ToneStage) Reset() {
	t.bank.Reset()
}

// MagnitudeDB returns the response at freqHz.
func (t *ToneStage) MagnitudeDB(freqHz float64) float64 {
	return t.bank.MagnitudeDB(freqHz, t.sampleRate)
}
