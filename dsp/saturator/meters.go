package saturator

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
)

// clipThreshold is the output peak at which the clipping indicator lights.
const clipThreshold = 1.0

// BypassState describes where the bypass crossfade currently is.
type BypassState int32

const (
	// BypassActive means the processed signal is fully audible.
	BypassActive BypassState = iota
	// BypassRamping means the output is a blend of processed and dry signal.
	BypassRamping
	// BypassBypassed means processing is skipped and the delayed input is
	// passed through.
	BypassBypassed
)

// String returns a readable state name.
func (s BypassState) String() string {
	switch s {
	case BypassActive:
		return "active"
	case BypassRamping:
		return "ramping"
	case BypassBypassed:
		return "bypassed"
	default:
		return "unknown"
	}
}

// Meters is a snapshot of the per-block level readings. Peak and RMS are the
// maximum over channels.
type Meters struct {
	InputPeak  float64
	InputRMS   float64
	OutputPeak float64
	OutputRMS  float64
	Clipping   bool
}

// telemetry holds values the audio thread publishes for other goroutines.
type telemetry struct {
	inputPeak  atomic.Uint64
	inputRMS   atomic.Uint64
	outputPeak atomic.Uint64
	outputRMS  atomic.Uint64
	clipping   atomic.Bool

	gateLevel  atomic.Uint64
	autoGainDB atomic.Uint64
	latency    atomic.Int64
	bypass     atomic.Int32
}

func storeFloat(dst *atomic.Uint64, v float64) {
	dst.Store(math.Float64bits(v))
}

func loadFloat(src *atomic.Uint64) float64 {
	return math.Float64frombits(src.Load())
}

// levels returns the channel-maximum peak and RMS of block.
func levels(block [][]float64) (peak, rms float64) {
	for _, buf := range block {
		if len(buf) == 0 {
			continue
		}

		if p := vecmath.MaxAbs(buf); p > peak {
			peak = p
		}

		if r := math.Sqrt(vecmath.DotProduct(buf, buf) / float64(len(buf))); r > rms {
			rms = r
		}
	}

	return peak, rms
}

func (t *telemetry) measureInput(block [][]float64) {
	peak, rms := levels(block)
	storeFloat(&t.inputPeak, peak)
	storeFloat(&t.inputRMS, rms)
}

func (t *telemetry) measureOutput(block [][]float64) {
	peak, rms := levels(block)
	storeFloat(&t.outputPeak, peak)
	storeFloat(&t.outputRMS, rms)
	t.clipping.Store(peak >= clipThreshold)
}

func (t *telemetry) meters() Meters {
	return Meters{
		InputPeak:  loadFloat(&t.inputPeak),
		InputRMS:   loadFloat(&t.inputRMS),
		OutputPeak: loadFloat(&t.outputPeak),
		OutputRMS:  loadFloat(&t.outputRMS),
		Clipping:   t.clipping.Load(),
	}
}

func (t *telemetry) reset() {
	t.inputPeak.Store(0)
	t.inputRMS.Store(0)
	t.outputPeak.Store(0)
	t.outputRMS.Store(0)
	t.clipping.Store(false)
	t.gateLevel.Store(0)
	t.autoGainDB.Store(0)
	t.bypass.Store(int32(BypassActive))
}
