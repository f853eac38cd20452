package resample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-saturator/dsp/core"
)

const (
	// Stage1Taps is the prototype length of the 1x<->2x stage.
	Stage1Taps = 47
	// Stage2Taps is the prototype length of the 2x<->4x stage. A length of
	// 4k+1 keeps the 4x round trip an integer number of host samples.
	Stage2Taps = 25
)

// ErrNotPrepared is returned when processing before Prepare.
var ErrNotPrepared = errors.New("resample: oversampler not prepared")

// ValidFactor reports whether n is a supported oversampling factor.
func ValidFactor(n int) bool {
	return n == 1 || n == 2 || n == 4
}

// FactorForQuality maps the quality choice index (0, 1, 2) to 1x, 2x or 4x.
func FactorForQuality(q int) int {
	switch {
	case q <= 0:
		return 1
	case q == 1:
		return 2
	default:
		return 4
	}
}

// OversamplerOption configures an Oversampler.
type OversamplerOption func(*oversamplerConfig) error

type oversamplerConfig struct {
	factor int
	beta   float64
}

// WithFactor sets the initial factor (1, 2 or 4).
func WithFactor(n int) OversamplerOption {
	return func(c *oversamplerConfig) error {
		if !ValidFactor(n) {
			return fmt.Errorf("oversampling factor must be 1, 2 or 4: %d", n)
		}

		c.factor = n

		return nil
	}
}

// WithKaiserBeta sets the Kaiser beta used for both half-band stages.
func WithKaiserBeta(beta float64) OversamplerOption {
	return func(c *oversamplerConfig) error {
		if beta < 0 || !core.IsFinite(beta) {
			return fmt.Errorf("kaiser beta must be finite and >= 0: %f", beta)
		}

		c.beta = beta

		return nil
	}
}

// Oversampler runs multi-channel blocks at 1x, 2x or 4x the host rate.
//
// ProcessUp returns views into internal buffers; the caller processes them
// in place and hands them back to ProcessDown within the same block.
type Oversampler struct {
	beta   float64
	factor int

	// pending holds a factor requested while a block was in flight.
	pending int
	inBlock bool

	prepared bool
	channels int
	maxBlock int

	stage1 []*HalfBand
	stage2 []*HalfBand

	high  [][]float64
	mid   [][]float64
	views [][]float64
}

// NewOversampler returns an oversampler at 1x unless WithFactor says
// otherwise. Call Prepare before processing.
func NewOversampler(opts ...OversamplerOption) (*Oversampler, error) {
	cfg := oversamplerConfig{factor: 1, beta: defaultKaiserBeta}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Oversampler{beta: cfg.beta, factor: cfg.factor}, nil
}

// Prepare sizes buffers for spec. Buffers always cover the 4x case so that
// later factor changes do not allocate.
func (o *Oversampler) Prepare(spec core.ProcessSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	o.stage1 = make([]*HalfBand, spec.Channels)
	o.stage2 = make([]*HalfBand, spec.Channels)
	o.high = make([][]float64, spec.Channels)
	o.mid = make([][]float64, spec.Channels)
	o.views = make([][]float64, spec.Channels)

	for ch := range spec.Channels {
		var err error

		o.stage1[ch], err = NewHalfBand(Stage1Taps, o.beta)
		if err != nil {
			return err
		}

		o.stage2[ch], err = NewHalfBand(Stage2Taps, o.beta)
		if err != nil {
			return err
		}

		o.high[ch] = make([]float64, 4*spec.MaxBlockSize)
		o.mid[ch] = make([]float64, 2*spec.MaxBlockSize)
	}

	o.channels = spec.Channels
	o.maxBlock = spec.MaxBlockSize
	o.prepared = true
	o.inBlock = false
	o.pending = 0

	return nil
}

// SetFactor selects 1x, 2x or 4x and clears filter state. A call made
// between ProcessUp and ProcessDown is deferred to the next ProcessUp.
func (o *Oversampler) SetFactor(n int) error {
	if !ValidFactor(n) {
		return fmt.Errorf("oversampling factor must be 1, 2 or 4: %d", n)
	}

	if o.inBlock {
		o.pending = n
		return nil
	}

	o.applyFactor(n)

	return nil
}

func (o *Oversampler) applyFactor(n int) {
	o.pending = 0
	if n == o.factor {
		return
	}

	o.factor = n
	o.Reset()
}

// Factor returns the active factor.
func (o *Oversampler) Factor() int {
	return o.factor
}

// Latency returns the round-trip delay in host-rate samples for the active
// factor.
func (o *Oversampler) Latency() int {
	return LatencyFor(o.factor)
}

// LatencyFor returns the round-trip delay in host-rate samples for factor n.
func LatencyFor(n int) int {
	switch n {
	case 2:
		return (Stage1Taps - 1) / 2
	case 4:
		return (Stage1Taps-1)/2 + (Stage2Taps-1)/4
	default:
		return 0
	}
}

// Reset clears all filter state.
func (o *Oversampler) Reset() {
	for ch := range o.stage1 {
		o.stage1[ch].Reset()
		o.stage2[ch].Reset()
	}
}

// ProcessUp interpolates block (one slice per channel, equal lengths) and
// returns per-channel views of factor*len(block[ch]) samples. At 1x the
// views alias block.
func (o *Oversampler) ProcessUp(block [][]float64) ([][]float64, error) {
	if !o.prepared {
		return nil, ErrNotPrepared
	}

	if err := o.checkBlock(block); err != nil {
		return nil, err
	}

	if o.pending != 0 {
		o.applyFactor(o.pending)
	}

	o.inBlock = true

	for ch, in := range block {
		n := len(in)

		switch o.factor {
		case 2:
			hi := o.high[ch][:2*n]
			o.stage1[ch].Upsample(hi, in)
			o.views[ch] = hi
		case 4:
			mid := o.mid[ch][:2*n]
			hi := o.high[ch][:4*n]
			o.stage1[ch].Upsample(mid, in)
			o.stage2[ch].Upsample(hi, mid)
			o.views[ch] = hi
		default:
			o.views[ch] = in
		}
	}

	return o.views[:len(block)], nil
}

// ProcessDown decimates high (as returned by ProcessUp) into dst.
func (o *Oversampler) ProcessDown(high, dst [][]float64) error {
	if !o.prepared {
		return ErrNotPrepared
	}

	if err := o.checkBlock(dst); err != nil {
		return err
	}

	if len(high) < len(dst) {
		return fmt.Errorf("oversampled block has %d channels, want %d", len(high), len(dst))
	}

	for ch, out := range dst {
		n := len(out)
		if len(high[ch]) != o.factor*n {
			return fmt.Errorf("oversampled channel %d length %d, want %d", ch, len(high[ch]), o.factor*n)
		}

		switch o.factor {
		case 2:
			o.stage1[ch].Downsample(out, high[ch])
		case 4:
			mid := o.mid[ch][:2*n]
			o.stage2[ch].Downsample(mid, high[ch])
			o.stage1[ch].Downsample(out, mid)
		default:
			copy(out, high[ch])
		}
	}

	o.inBlock = false

	return nil
}

func (o *Oversampler) checkBlock(block [][]float64) error {
	if len(block) > o.channels {
		return fmt.Errorf("block has %d channels, prepared for %d", len(block), o.channels)
	}

	for ch, buf := range block {
		if len(buf) > o.maxBlock {
			return fmt.Errorf("channel %d block length %d exceeds max %d", ch, len(buf), o.maxBlock)
		}
	}

	return nil
}
