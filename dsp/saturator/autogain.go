package saturator

import (
	"math"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/param"
	"github.com/cwbudde/algo-vecmath"
)

const (
	autoGainWindow    = 0.3
	autoGainSmoothing = 0.5
	autoGainFloor     = 1e-4
	autoGainMin       = 0.25
	autoGainMax       = 4.0
)

// autoGain matches the loudness after the wet chain to the loudness before
// it. Both taps keep a sliding window of per-sample channel-mean energy.
type autoGain struct {
	pre  []float64
	post []float64
	pos  int

	// start of the block being measured
	blockPos int

	gain param.Smoothed
}

func (a *autoGain) prepare(sampleRate float64) {
	size := max(int(sampleRate*autoGainWindow), 1)
	a.pre = core.EnsureLen(a.pre, size)
	a.post = core.EnsureLen(a.post, size)
	a.gain.Reset(sampleRate, autoGainSmoothing)
	a.reset()
}

func (a *autoGain) reset() {
	core.Zero(a.pre)
	core.Zero(a.post)
	a.pos = 0
	a.blockPos = 0
	a.gain.SetCurrentAndTarget(1)
}

// pushEnergy writes the channel-mean energy of each sample of block into ring
// starting at start and returns the position after the last write.
func pushEnergy(ring []float64, start int, block [][]float64) int {
	if len(block) == 0 || len(ring) == 0 {
		return start
	}

	scale := 1 / float64(len(block))
	pos := start
	for i := range block[0] {
		e := 0.0
		for _, buf := range block {
			e += buf[i] * buf[i]
		}
		ring[pos] = e * scale
		pos++
		if pos == len(ring) {
			pos = 0
		}
	}

	return pos
}

// measurePre records the tap before the wet chain.
func (a *autoGain) measurePre(block [][]float64) {
	a.blockPos = a.pos
	pushEnergy(a.pre, a.blockPos, block)
}

// measurePost records the tap after the wet chain, advances the window and
// the gain ramp by n samples and returns the compensation in dB.
func (a *autoGain) measurePost(block [][]float64, n int) float64 {
	a.pos = pushEnergy(a.post, a.blockPos, block)

	preRMS := windowRMS(a.pre)
	postRMS := windowRMS(a.post)
	if preRMS > autoGainFloor && postRMS > autoGainFloor {
		a.gain.Retarget(core.Clamp(preRMS/postRMS, autoGainMin, autoGainMax))
	}

	return core.LinearToDB(a.gain.Skip(n))
}

func windowRMS(ring []float64) float64 {
	if len(ring) == 0 {
		return 0
	}
	return math.Sqrt(max(vecmath.Sum(ring), 0) / float64(len(ring)))
}

// setRampTime changes the compensation ramp for later target changes.
func (a *autoGain) setRampTime(sampleRate, seconds float64) {
	a.gain.SetRampTime(sampleRate, seconds)
}

// current returns the linear compensation.
func (a *autoGain) current() float64 { return a.gain.Current() }
