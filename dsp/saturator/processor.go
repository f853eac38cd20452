package saturator

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/param"
)

var (
	// ErrNotPrepared is returned by Process before a successful Prepare or
	// after Release.
	ErrNotPrepared = errors.New("saturator: processor not prepared")

	// ErrBlockShape is returned when channel buffers differ in length.
	ErrBlockShape = errors.New("saturator: channel buffers differ in length")
)

// Processor is the saturation effect. Lifecycle calls and Process must come
// from one goroutine at a time. Parameter writes to the Store, LoadState, the
// getters and the Mailbox are safe from any goroutine.
type Processor struct {
	store  *param.Store
	cfg    processorConfig
	logger logrus.FieldLogger

	chain *chain
	tel   telemetry
	box   *Mailbox

	presetPending atomic.Bool
}

// NewProcessor creates an unprepared processor reading its parameters from
// store. A nil store gets a fresh one with default values.
func NewProcessor(store *param.Store, opts ...ProcessorOption) (*Processor, error) {
	cfg := defaultProcessorConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if store == nil {
		store = param.NewStore()
	}

	return &Processor{
		store:  store,
		cfg:    cfg,
		logger: cfg.logger.WithField("component", "saturator"),
		box:    newMailbox(),
	}, nil
}

// Store returns the parameter store the processor reads from.
func (p *Processor) Store() *param.Store { return p.store }

// Prepare sizes every buffer and stage for spec. An invalid spec is logged
// and ignored: the processor keeps its previous configuration.
func (p *Processor) Prepare(spec core.ProcessSpec) error {
	log := p.logger.WithFields(logrus.Fields{
		"function":       "Prepare",
		"sample_rate":    spec.SampleRate,
		"max_block_size": spec.MaxBlockSize,
		"channels":       spec.Channels,
	})

	if err := spec.Validate(); err != nil {
		log.WithError(err).Warn("Ignoring invalid process spec")
		return err
	}

	c, err := newChain(spec, p.cfg, p.store.Snapshot(), &p.tel, p.box)
	if err != nil {
		log.WithError(err).Error("Failed to build processing chain")
		return err
	}

	p.tel.reset()
	p.tel.latency.Store(int64(c.oversampler.Latency()))
	p.box.resize(spec.Channels, spec.MaxBlockSize)
	p.chain = c
	p.presetPending.Store(false)

	log.WithFields(logrus.Fields{
		"oversampling": c.oversampler.Factor(),
		"latency":      c.oversampler.Latency(),
	}).Info("Processor prepared")

	return nil
}

// Reset clears all filter, delay and envelope state. It is a no-op before
// Prepare.
func (p *Processor) Reset() {
	if p.chain == nil {
		p.logger.WithField("function", "Reset").Warn("Reset before Prepare ignored")
		return
	}

	p.store.SnapshotInto(&p.chain.snap)
	p.chain.applyDiscrete()
	p.chain.reset()
	p.tel.reset()
	p.tel.latency.Store(int64(p.chain.oversampler.Latency()))

	p.logger.WithField("function", "Reset").Debug("Processor reset")
}

// Release drops the prepared buffers. Process returns ErrNotPrepared until the
// next Prepare.
func (p *Processor) Release() {
	if p.chain == nil {
		return
	}

	p.chain = nil
	p.tel.latency.Store(0)

	p.logger.WithField("function", "Release").Info("Processor released")
}

// Prepared reports whether Process can run.
func (p *Processor) Prepared() bool { return p.chain != nil }

// Spec returns the spec the processor was prepared with.
func (p *Processor) Spec() (core.ProcessSpec, bool) {
	if p.chain == nil {
		return core.ProcessSpec{}, false
	}
	return p.chain.spec, true
}

// Process transforms block in place. block holds one slice per channel, all
// of the same length. Channels beyond the prepared count are left untouched
// and blocks longer than the prepared maximum are processed in chunks.
func (p *Processor) Process(block [][]float64) error {
	c := p.chain
	if c == nil {
		return ErrNotPrepared
	}

	channels := min(len(block), c.spec.Channels)
	if channels == 0 {
		return nil
	}

	n := len(block[0])
	for ch := 1; ch < channels; ch++ {
		if len(block[ch]) != n {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrBlockShape, ch, len(block[ch]), n)
		}
	}

	if n == 0 {
		return nil
	}

	p.store.SnapshotInto(&c.snap)
	c.beginBlock(p.presetPending.Swap(false))
	defer c.endBlock()

	for start := 0; start < n; start += c.spec.MaxBlockSize {
		end := min(start+c.spec.MaxBlockSize, n)
		for ch := range channels {
			c.chunkViews[ch] = block[ch][start:end]
		}

		if err := c.process(c.chunkViews[:channels]); err != nil {
			return err
		}
	}

	return nil
}

// Latency returns the delay in samples the processor adds at the host rate.
func (p *Processor) Latency() int { return int(p.tel.latency.Load()) }

// BypassState returns the bypass crossfade state after the last block.
func (p *Processor) BypassState() BypassState { return BypassState(p.tel.bypass.Load()) }

// Meters returns the levels of the last processed block.
func (p *Processor) Meters() Meters { return p.tel.meters() }

// GateLevel returns the last absolute input sample seen by the gate on
// channel 0, or 0 while the gate is off.
func (p *Processor) GateLevel() float64 { return loadFloat(&p.tel.gateLevel) }

// AutoGainDB returns the current auto-gain compensation in dB, or 0 while
// auto-gain is off.
func (p *Processor) AutoGainDB() float64 { return loadFloat(&p.tel.autoGainDB) }

// Visualization returns the mailbox receiving a copy of every block before
// and after processing.
func (p *Processor) Visualization() *Mailbox { return p.box }
