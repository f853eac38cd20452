package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns amplitude*sin(2*pi*freqHz*i/sampleRate).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	w := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}
	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// from a seeded source.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}
	return out
}

// Impulse returns a unit impulse at pos. An out-of-range pos gives silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns length samples of value.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Delayed returns sig shifted right by delay samples, zero-filled at the
// start and truncated to len(sig).
func Delayed(sig []float64, delay int) []float64 {
	out := make([]float64, len(sig))
	if delay < len(sig) {
		copy(out[max(delay, 0):], sig)
	}
	return out
}

// Stereo returns a two-channel block with an independent copy of sig in each
// channel.
func Stereo(sig []float64) [][]float64 {
	return [][]float64{append([]float64(nil), sig...), append([]float64(nil), sig...)}
}
