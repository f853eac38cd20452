package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-saturator/dsp/core"
)

const (
	defaultGateThresholdDB = -40.0

	gateAttackSeconds    = 0.001
	gateReleaseSeconds   = 0.050
	gateSmoothingSeconds = 0.001
)

// Gate is a per-channel noise gate. An envelope follower with 1 ms attack
// and 50 ms release is compared against the threshold; the resulting open or
// closed decision is smoothed by a 1 ms one-pole before it is applied.
//
// Channel 0 also reports its instantaneous input level for a gate
// indicator.
type Gate struct {
	thresholdDB  float64
	thresholdLin float64
	sampleRate   float64

	attackCoeff  float64
	releaseCoeff float64
	smoothCoeff  float64

	envelope [core.MaxChannels]float64
	gain     [core.MaxChannels]float64

	inputLevel float64
}

// NewGate creates a gate with a -40 dB threshold.
//
// Sample rate must be positive and finite.
func NewGate(sampleRate float64) (*Gate, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("gate sample rate must be positive and finite: %f", sampleRate)
	}

	g := &Gate{sampleRate: sampleRate}
	g.setThreshold(defaultGateThresholdDB)
	g.updateTimeConstants()
	g.Reset()

	return g, nil
}

// SetThreshold sets the gate threshold in dB.
func (g *Gate) SetThreshold(dB float64) error {
	if math.IsNaN(dB) || math.IsInf(dB, 0) {
		return fmt.Errorf("gate threshold must be finite: %f", dB)
	}

	g.setThreshold(dB)

	return nil
}

func (g *Gate) setThreshold(dB float64) {
	if dB == g.thresholdDB && g.thresholdLin != 0 {
		return
	}

	g.thresholdDB = dB
	g.thresholdLin = core.DBToLinear(dB)
}

// SetSampleRate updates sample rate and recalculates time constants.
func (g *Gate) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("gate sample rate must be positive and finite: %f", sampleRate)
	}

	g.sampleRate = sampleRate
	g.updateTimeConstants()

	return nil
}

func (g *Gate) updateTimeConstants() {
	g.attackCoeff = math.Exp(-1 / (g.sampleRate * gateAttackSeconds))
	g.releaseCoeff = math.Exp(-1 / (g.sampleRate * gateReleaseSeconds))
	g.smoothCoeff = math.Exp(-1 / (g.sampleRate * gateSmoothingSeconds))
}

// Threshold returns the current threshold in dB.
func (g *Gate) Threshold() float64 { return g.thresholdDB }

// SampleRate returns the current sample rate in Hz.
func (g *Gate) SampleRate() float64 { return g.sampleRate }

// ProcessSample gates one sample of channel ch. Channels outside
// [0, core.MaxChannels) pass through.
func (g *Gate) ProcessSample(ch int, input float64) float64 {
	if ch < 0 || ch >= core.MaxChannels {
		return input
	}

	level := math.Abs(input)
	if ch == 0 {
		g.inputLevel = level
	}

	env := g.envelope[ch]
	if level > g.thresholdLin {
		env = level + g.attackCoeff*(env-level)
	} else {
		env *= g.releaseCoeff
	}

	g.envelope[ch] = core.FlushDenormals(env)

	target := 0.0
	if env > g.thresholdLin {
		target = 1
	}

	gain := target + g.smoothCoeff*(g.gain[ch]-target)
	g.gain[ch] = core.FlushDenormals(gain)

	return input * gain
}

// ProcessChannel gates buf in place.
func (g *Gate) ProcessChannel(ch int, buf []float64) {
	for i := range buf {
		buf[i] = g.ProcessSample(ch, buf[i])
	}
}

// InputLevel returns the last absolute input sample seen on channel 0.
func (g *Gate) InputLevel() float64 { return g.inputLevel }

// Gain returns the smoothed gate gain of channel ch.
func (g *Gate) Gain(ch int) float64 {
	if ch < 0 || ch >= core.MaxChannels {
		return 1
	}

	return g.gain[ch]
}

// Reset opens the gate and clears the envelopes.
func (g *Gate) Reset() {
	for ch := range g.envelope {
		g.envelope[ch] = 0
		g.gain[ch] = 1
	}

	g.inputLevel = 0
}
