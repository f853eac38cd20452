package param

import "math"

// Smoothed ramps linearly from its current value to a target over a fixed
// number of samples.
type Smoothed struct {
	current float64
	target  float64
	step    float64

	rampSamples int
	countdown   int
}

// Reset sets the ramp length from sampleRate and seconds and jumps to the
// current target.
func (s *Smoothed) Reset(sampleRate, seconds float64) {
	s.rampSamples = 0
	if sampleRate > 0 && seconds > 0 {
		s.rampSamples = int(math.Round(sampleRate * seconds))
	}

	s.SetCurrentAndTarget(s.target)
}

// SetRampTime changes the ramp length used by later SetTarget calls. A ramp
// already in progress keeps its step.
func (s *Smoothed) SetRampTime(sampleRate, seconds float64) {
	s.rampSamples = 0
	if sampleRate > 0 && seconds > 0 {
		s.rampSamples = int(math.Round(sampleRate * seconds))
	}
}

// SetCurrentAndTarget jumps to v without ramping.
func (s *Smoothed) SetCurrentAndTarget(v float64) {
	s.current = v
	s.target = v
	s.step = 0
	s.countdown = 0
}

// SetTarget starts a ramp from the current value towards v.
func (s *Smoothed) SetTarget(v float64) {
	if v == s.target {
		return
	}

	if s.rampSamples <= 0 {
		s.SetCurrentAndTarget(v)
		return
	}

	s.target = v
	s.countdown = s.rampSamples
	s.step = (s.target - s.current) / float64(s.countdown)
}

// Retarget moves the destination of a ramp in progress without extending it.
// When idle it behaves like SetTarget.
func (s *Smoothed) Retarget(v float64) {
	if s.countdown <= 0 {
		s.SetTarget(v)
		return
	}

	s.target = v
	s.step = (s.target - s.current) / float64(s.countdown)
}

// Next advances one sample and returns the new value.
func (s *Smoothed) Next() float64 {
	if s.countdown <= 0 {
		return s.target
	}

	s.countdown--
	if s.countdown == 0 {
		s.current = s.target
	} else {
		s.current += s.step
	}

	return s.current
}

// Skip advances n samples at once and returns the new value.
func (s *Smoothed) Skip(n int) float64 {
	if n >= s.countdown {
		s.current = s.target
		s.countdown = 0

		return s.current
	}

	if n > 0 {
		s.current += s.step * float64(n)
		s.countdown -= n
	}

	return s.current
}

// Current returns the value without advancing.
func (s *Smoothed) Current() float64 { return s.current }

// Target returns the ramp destination.
func (s *Smoothed) Target() float64 { return s.target }

// IsSmoothing reports whether a ramp is in progress.
func (s *Smoothed) IsSmoothing() bool { return s.countdown > 0 }

// RampSamples returns the configured ramp length.
func (s *Smoothed) RampSamples() int { return s.rampSamples }
