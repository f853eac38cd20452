package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-saturator/dsp/core"
)

const (
	minSaturationDrive = 0.0
	maxSaturationDrive = 100.0
	minSaturationBias  = -50.0
	maxSaturationBias  = 50.0

	biasScale = 0.3
)

// Model selects the transfer curve used by Saturator.
type Model int

const (
	ModelTube Model = iota
	ModelTransistor
	ModelTransformer
	ModelTape
	ModelDiode
	ModelVintage
	ModelWarm
	ModelBright
	ModelFuzzBox
	ModelOverdrive
	ModelTube12AX7

	// ModelCount is the number of models.
	ModelCount
)

var modelNames = [ModelCount]string{
	"Tube", "Transistor", "Transformer", "Tape", "Diode", "Vintage",
	"Warm", "Bright", "FuzzBox", "Overdrive", "Tube12AX7",
}

func (m Model) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Model(%d)", int(m))
	}

	return modelNames[m]
}

// Valid reports whether m names a model.
func (m Model) Valid() bool {
	return m >= 0 && m < ModelCount
}

// Stateful reports whether the model keeps per-channel memory.
func (m Model) Stateful() bool {
	return m == ModelTransformer || m == ModelTube12AX7
}

// ModelFromIndex converts a host choice index, clamping out-of-range values.
func ModelFromIndex(i int) Model {
	return Model(min(max(i, 0), int(ModelCount)-1))
}

// ModelTransfer evaluates model m on a single value with fresh state, without
// drive, bias or compensation.
func ModelTransfer(m Model, x float64) float64 {
	var st modelState
	return applyModel(m, x, &st)
}

// SaturatorOption mutates construction-time parameters.
type SaturatorOption func(*saturatorConfig) error

type saturatorConfig struct {
	model    Model
	drive    float64
	bias     float64
	channels int
}

func defaultSaturatorConfig() saturatorConfig {
	return saturatorConfig{
		model:    ModelTube,
		drive:    30,
		channels: core.MaxChannels,
	}
}

// WithSaturationModel selects the initial model.
func WithSaturationModel(m Model) SaturatorOption {
	return func(cfg *saturatorConfig) error {
		if !m.Valid() {
			return fmt.Errorf("saturation model is invalid: %d", m)
		}

		cfg.model = m

		return nil
	}
}

// WithSaturationDrive sets drive in [0, 100].
func WithSaturationDrive(drive float64) SaturatorOption {
	return func(cfg *saturatorConfig) error {
		if drive < minSaturationDrive || drive > maxSaturationDrive || !core.IsFinite(drive) {
			return fmt.Errorf("saturation drive must be in [%g, %g]: %f", minSaturationDrive, maxSaturationDrive, drive)
		}

		cfg.drive = drive

		return nil
	}
}

// WithSaturationBias sets bias in [-50, 50].
func WithSaturationBias(bias float64) SaturatorOption {
	return func(cfg *saturatorConfig) error {
		if bias < minSaturationBias || bias > maxSaturationBias || !core.IsFinite(bias) {
			return fmt.Errorf("saturation bias must be in [%g, %g]: %f", minSaturationBias, maxSaturationBias, bias)
		}

		cfg.bias = bias

		return nil
	}
}

// WithSaturationChannels sets the number of channels with independent model
// state.
func WithSaturationChannels(n int) SaturatorOption {
	return func(cfg *saturatorConfig) error {
		if n < 1 || n > core.MaxChannels {
			return fmt.Errorf("saturation channels must be in [1, %d]: %d", core.MaxChannels, n)
		}

		cfg.channels = n

		return nil
	}
}

// Saturator applies drive, bias, one of the Model curves and a level
// compensation. Drive and bias are block-rate values; the curve runs per
// sample.
type Saturator struct {
	sampleRate float64

	model Model
	drive float64
	bias  float64

	driveGain  float64
	biasOffset float64
	makeup     float64

	channels int
	state    [core.MaxChannels]modelState
}

// NewSaturator creates a saturator with validated options.
func NewSaturator(sampleRate float64, opts ...SaturatorOption) (*Saturator, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("saturation sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultSaturatorConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s := &Saturator{
		sampleRate: sampleRate,
		model:      cfg.model,
		channels:   cfg.channels,
		bias:       cfg.bias,
	}
	s.SetDrive(cfg.drive)

	return s, nil
}

// SetSampleRate updates the rate the saturator runs at.
func (s *Saturator) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("saturation sample rate must be > 0 and finite: %f", sampleRate)
	}

	s.sampleRate = sampleRate

	return nil
}

// SetModel switches the curve. Model state is kept so switching back and
// forth does not click.
func (s *Saturator) SetModel(m Model) error {
	if !m.Valid() {
		return fmt.Errorf("saturation model is invalid: %d", m)
	}

	s.model = m

	return nil
}

// SetDrive sets drive, clamped to [0, 100].
func (s *Saturator) SetDrive(drive float64) {
	if !core.IsFinite(drive) {
		drive = 0
	}

	s.drive = core.Clamp(drive, minSaturationDrive, maxSaturationDrive)

	nd := s.drive / 100
	s.driveGain = math.Pow(10, nd)

	s.makeup = 1
	if s.driveGain > 1 {
		s.makeup = 1 / math.Sqrt(1+(s.driveGain-1)*nd*0.5)
	}

	s.updateBias()
}

// SetBias sets bias, clamped to [-50, 50].
func (s *Saturator) SetBias(bias float64) {
	if !core.IsFinite(bias) {
		bias = 0
	}

	s.bias = core.Clamp(bias, minSaturationBias, maxSaturationBias)
	s.updateBias()
}

func (s *Saturator) updateBias() {
	s.biasOffset = s.bias / maxSaturationBias * biasScale * (1 + s.drive/100)
}

// SetChannels sets how many channels carry independent state.
func (s *Saturator) SetChannels(n int) error {
	if n < 1 || n > core.MaxChannels {
		return fmt.Errorf("saturation channels must be in [1, %d]: %d", core.MaxChannels, n)
	}

	s.channels = n

	return nil
}

// ProcessSample saturates x on channel ch. Channels outside the configured
// range pass through.
func (s *Saturator) ProcessSample(ch int, x float64) float64 {
	if ch < 0 || ch >= s.channels {
		return x
	}

	if x != x {
		x = 0
	}

	y := applyModel(s.model, x*s.driveGain+s.biasOffset, &s.state[ch])

	return y * s.makeup
}

// ProcessChannel saturates buf in place.
func (s *Saturator) ProcessChannel(ch int, buf []float64) {
	if ch < 0 || ch >= s.channels {
		return
	}

	st := &s.state[ch]
	for i, x := range buf {
		if x != x {
			x = 0
		}

		buf[i] = applyModel(s.model, x*s.driveGain+s.biasOffset, st) * s.makeup
	}
}

// Reset clears model state on all channels.
func (s *Saturator) Reset() {
	for i := range s.state {
		s.state[i].reset()
	}
}

// Model returns the active model.
func (s *Saturator) Model() Model { return s.model }

// Drive returns the drive setting.
func (s *Saturator) Drive() float64 { return s.drive }

// Bias returns the bias setting.
func (s *Saturator) Bias() float64 { return s.bias }

// DriveGain returns the linear pre-gain derived from drive.
func (s *Saturator) DriveGain() float64 { return s.driveGain }

// Makeup returns the level compensation derived from drive.
func (s *Saturator) Makeup() float64 { return s.makeup }
