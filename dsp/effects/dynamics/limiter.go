package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-saturator/dsp/core"
)

const (
	defaultLimiterThresholdDB = 0.0
	defaultLimiterReleaseMs   = 10.0

	minLimiterReleaseMs = 1.0
	maxLimiterReleaseMs = 1000.0
)

// Limiter is a per-channel brick-wall peak limiter with instant attack and
// exponential release. A final hard clip at the threshold catches anything
// the gain computer lets through.
type Limiter struct {
	thresholdDB  float64
	thresholdLin float64
	releaseMs    float64
	sampleRate   float64

	releaseCoeff float64
	envelope     [core.MaxChannels]float64
}

// NewLimiter creates a limiter with a 0 dB ceiling and 10 ms release.
func NewLimiter(sampleRate float64) (*Limiter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("limiter sample rate must be positive and finite: %f", sampleRate)
	}

	l := &Limiter{
		thresholdDB:  defaultLimiterThresholdDB,
		thresholdLin: core.DBToLinear(defaultLimiterThresholdDB),
		releaseMs:    defaultLimiterReleaseMs,
		sampleRate:   sampleRate,
	}
	l.updateTimeConstants()

	return l, nil
}

// SetThreshold sets the ceiling in dB.
func (l *Limiter) SetThreshold(dB float64) error {
	if dB > 24 || math.IsNaN(dB) || math.IsInf(dB, 0) {
		return fmt.Errorf("limiter threshold must be finite and <= 24: %f", dB)
	}

	l.thresholdDB = dB
	l.thresholdLin = core.DBToLinear(dB)

	return nil
}

// SetRelease sets the release time in milliseconds.
func (l *Limiter) SetRelease(ms float64) error {
	if ms < minLimiterReleaseMs || ms > maxLimiterReleaseMs || math.IsNaN(ms) {
		return fmt.Errorf("limiter release must be in [%g, %g]: %f", minLimiterReleaseMs, maxLimiterReleaseMs, ms)
	}

	l.releaseMs = ms
	l.updateTimeConstants()

	return nil
}

// SetSampleRate updates the sample rate.
func (l *Limiter) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("limiter sample rate must be positive and finite: %f", sampleRate)
	}

	l.sampleRate = sampleRate
	l.updateTimeConstants()

	return nil
}

func (l *Limiter) updateTimeConstants() {
	l.releaseCoeff = math.Exp(-1 / (l.releaseMs * 0.001 * l.sampleRate))
}

// Threshold returns the ceiling in dB.
func (l *Limiter) Threshold() float64 { return l.thresholdDB }

// Release returns the release time in milliseconds.
func (l *Limiter) Release() float64 { return l.releaseMs }

// ProcessSample limits one sample of channel ch.
func (l *Limiter) ProcessSample(ch int, input float64) float64 {
	if ch < 0 || ch >= core.MaxChannels {
		return input
	}

	level := math.Abs(input)

	env := l.envelope[ch] * l.releaseCoeff
	if level > env {
		env = level
	}

	l.envelope[ch] = core.FlushDenormals(env)

	gain := 1.0
	if env > l.thresholdLin {
		gain = l.thresholdLin / env
	}

	return core.Clamp(input*gain, -l.thresholdLin, l.thresholdLin)
}

// ProcessChannel limits buf in place.
func (l *Limiter) ProcessChannel(ch int, buf []float64) {
	for i := range buf {
		buf[i] = l.ProcessSample(ch, buf[i])
	}
}

// CalculateOutputLevel returns the steady-state output for a constant input
// magnitude.
func (l *Limiter) CalculateOutputLevel(inputMagnitude float64) float64 {
	return min(math.Abs(inputMagnitude), l.thresholdLin)
}

// Reset clears the envelopes.
func (l *Limiter) Reset() {
	clear(l.envelope[:])
}
