package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/filter/biquad"
	"github.com/cwbudde/algo-saturator/dsp/filter/design"
)

const (
	defaultCabinetPresence  = 0.3
	defaultCabinetResonance = 0.5

	speakerShaperCeiling = 0.85
)

// CabinetPreset holds the physical constants of one speaker cabinet.
// Frequencies are in Hz, sizes in inches and cubic feet.
type CabinetPreset struct {
	Name           string
	SpeakerSize    float64
	SpeakerCutoff  float64
	BreakupFreq    float64
	BreakupQ       float64
	CabinetSize    float64
	PortTuning     float64
	ResonanceQ     float64
	CloseProximity float64
	RoomReflection float64
	AirLoss        float64
}

// CabinetPresets is the fixed cabinet table, indexed by the cabinetModel
// parameter.
var CabinetPresets = [...]CabinetPreset{
	{"1x12 Vintage", 12, 5200, 3100, 0.8, 1.8, 85, 1.2, 120, 280, 8500},
	{"2x10 Tweed", 10, 4800, 2800, 0.6, 2.2, 75, 0.9, 110, 250, 7800},
	{"1x15 Bass", 15, 3200, 1800, 1.0, 4.5, 45, 1.5, 80, 160, 6000},
	{"2x12 Modern", 12, 6500, 3800, 1.2, 3.2, 95, 1.8, 130, 320, 9200},
	{"4x10 Clean", 10, 5800, 3500, 0.4, 4.8, 90, 0.8, 125, 300, 8800},
	{"1x12 British", 12, 4600, 2400, 0.7, 1.5, 70, 1.4, 105, 230, 7200},
	{"4x12 Vintage", 12, 5800, 2800, 0.9, 8.0, 85, 2.0, 140, 350, 9000},
	{"4x12 Modern", 12, 6800, 3600, 1.3, 8.5, 95, 2.2, 150, 380, 10500},
	{"1x12 Jazz", 12, 7500, 4200, 0.3, 2.0, 80, 0.7, 115, 270, 8200},
	{"2x12 Vintage", 12, 5400, 2900, 0.6, 3.8, 78, 1.1, 125, 290, 7600},
}

// Cabinet stage indices into the coefficient list returned by Coefficients.
const (
	CabinetStageResonance = iota
	CabinetStageBreakup
	CabinetStageLowpass
	CabinetStageProximity
	CabinetStageRoom
	CabinetStageAir

	cabinetFilterStages
)

// CabinetOption mutates construction-time parameters.
type CabinetOption func(*cabinetConfig) error

type cabinetConfig struct {
	preset    int
	presence  float64
	resonance float64
	channels  int
}

func defaultCabinetConfig() cabinetConfig {
	return cabinetConfig{
		presence:  defaultCabinetPresence,
		resonance: defaultCabinetResonance,
		channels:  core.MaxChannels,
	}
}

// WithCabinetPreset selects the initial preset index.
func WithCabinetPreset(i int) CabinetOption {
	return func(cfg *cabinetConfig) error {
		if i < 0 || i >= len(CabinetPresets) {
			return fmt.Errorf("cabinet preset must be in [0, %d]: %d", len(CabinetPresets)-1, i)
		}

		cfg.preset = i

		return nil
	}
}

// WithCabinetPresence sets mic distance in [0, 1]: 0 is close-miked, 1 is a
// room mic.
func WithCabinetPresence(p float64) CabinetOption {
	return func(cfg *cabinetConfig) error {
		if p < 0 || p > 1 || !core.IsFinite(p) {
			return fmt.Errorf("cabinet presence must be in [0, 1]: %f", p)
		}

		cfg.presence = p

		return nil
	}
}

// WithCabinetResonance sets the resonance macro in [0, 1].
func WithCabinetResonance(r float64) CabinetOption {
	return func(cfg *cabinetConfig) error {
		if r < 0 || r > 1 || !core.IsFinite(r) {
			return fmt.Errorf("cabinet resonance must be in [0, 1]: %f", r)
		}

		cfg.resonance = r

		return nil
	}
}

// WithCabinetChannels sets the channel count.
func WithCabinetChannels(n int) CabinetOption {
	return func(cfg *cabinetConfig) error {
		if n < 1 || n > core.MaxChannels {
			return fmt.Errorf("cabinet channels must be in [1, %d]: %d", core.MaxChannels, n)
		}

		cfg.channels = n

		return nil
	}
}

// Cabinet simulates a speaker cabinet and microphone: two resonance peaks,
// a cone shaper, the speaker roll-off, then proximity, room and air
// filters. Changing preset or knobs recomputes coefficients and keeps filter
// state.
type Cabinet struct {
	sampleRate float64
	preset     int
	presence   float64
	resonance  float64

	// cone holds resonance and breakup, mic holds lowpass through air.
	cone *biquad.Bank
	mic  *biquad.Bank
}

// NewCabinet creates a cabinet simulator with validated options.
func NewCabinet(sampleRate float64, opts ...CabinetOption) (*Cabinet, error) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("cabinet sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultCabinetConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Cabinet{
		sampleRate: sampleRate,
		preset:     cfg.preset,
		presence:   cfg.presence,
		resonance:  cfg.resonance,
		cone:       biquad.NewBank(cfg.channels, 2),
		mic:        biquad.NewBank(cfg.channels, 4),
	}
	c.updateCoefficients()

	return c, nil
}

// SetSampleRate recomputes coefficients for a new rate.
func (c *Cabinet) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("cabinet sample rate must be > 0 and finite: %f", sampleRate)
	}

	c.sampleRate = sampleRate
	c.updateCoefficients()

	return nil
}

// SetChannels resizes per-channel state. It allocates.
func (c *Cabinet) SetChannels(n int) error {
	if n < 1 || n > core.MaxChannels {
		return fmt.Errorf("cabinet channels must be in [1, %d]: %d", core.MaxChannels, n)
	}

	c.cone.SetChannels(n)
	c.mic.SetChannels(n)

	return nil
}

// SetPreset selects a cabinet by index.
func (c *Cabinet) SetPreset(i int) error {
	if i < 0 || i >= len(CabinetPresets) {
		return fmt.Errorf("cabinet preset must be in [0, %d]: %d", len(CabinetPresets)-1, i)
	}

	if i == c.preset {
		return nil
	}

	c.preset = i
	c.updateCoefficients()

	return nil
}

// SetPresence sets mic distance, clamped to [0, 1].
func (c *Cabinet) SetPresence(p float64) {
	if !core.IsFinite(p) {
		return
	}

	p = core.Clamp(p, 0, 1)
	if p == c.presence {
		return
	}

	c.presence = p
	c.updateCoefficients()
}

// SetResonance sets the resonance macro, clamped to [0, 1].
func (c *Cabinet) SetResonance(r float64) {
	if !core.IsFinite(r) {
		return
	}

	r = core.Clamp(r, 0, 1)
	if r == c.resonance {
		return
	}

	c.resonance = r
	c.updateCoefficients()
}

// Preset returns the active preset index.
func (c *Cabinet) Preset() int { return c.preset }

// Presence returns the mic distance.
func (c *Cabinet) Presence() float64 { return c.presence }

// Resonance returns the resonance macro.
func (c *Cabinet) Resonance() float64 { return c.resonance }

// Coefficients returns the six filter sections in processing order.
func (c *Cabinet) Coefficients() [cabinetFilterStages]biquad.Coefficients {
	return CabinetCoefficients(CabinetPresets[c.preset], c.presence, c.resonance, c.sampleRate)
}

// CabinetCoefficients derives the filter sections for preset p.
func CabinetCoefficients(p CabinetPreset, presence, resonance, sampleRate float64) [cabinetFilterStages]biquad.Coefficients {
	fc := func(f float64) float64 { return design.ClampFrequency(f, sampleRate) }

	var out [cabinetFilterStages]biquad.Coefficients

	out[CabinetStageResonance] = design.Peak(
		fc(p.PortTuning*(0.6+resonance*0.8)),
		1+8*resonance,
		p.ResonanceQ*(0.5+resonance),
		sampleRate)
	out[CabinetStageBreakup] = design.Peak(
		fc(p.BreakupFreq),
		0.5+4*resonance,
		p.BreakupQ*(0.3+resonance*0.7),
		sampleRate)
	out[CabinetStageLowpass] = design.Lowpass(
		fc(p.SpeakerCutoff*(0.7+resonance*0.6)),
		0.8+0.4*resonance,
		sampleRate)
	out[CabinetStageProximity] = design.LowShelf(
		fc(p.CloseProximity),
		(1-presence)*12,
		0.7,
		sampleRate)
	out[CabinetStageRoom] = design.Peak(
		fc(p.RoomReflection),
		6*presence,
		0.6+0.4*presence,
		sampleRate)
	out[CabinetStageAir] = design.HighShelf(
		fc(p.AirLoss*(0.8+presence*0.4)),
		-15*presence,
		0.7,
		sampleRate)

	return out
}

func (c *Cabinet) updateCoefficients() {
	coeffs := c.Coefficients()
	c.cone.SetCoefficients(coeffs[CabinetStageResonance], coeffs[CabinetStageBreakup])
	c.mic.SetCoefficients(coeffs[CabinetStageLowpass:]...)
}

// ProcessChannel runs all seven stages over buf in place.
func (c *Cabinet) ProcessChannel(ch int, buf []float64) {
	if ch < 0 || ch >= c.cone.Channels() {
		return
	}

	c.cone.ProcessChannel(ch, buf)

	for i, x := range buf {
		buf[i] = SpeakerShaper(x)
	}

	c.mic.ProcessChannel(ch, buf)
}

// Reset clears filter state.
func (c *Cabinet) Reset() {
	c.cone.Reset()
	c.mic.Reset()
}

// MagnitudeDB returns the linear-stage response at freqHz, ignoring the
// shaper.
func (c *Cabinet) MagnitudeDB(freqHz float64) float64 {
	return c.cone.MagnitudeDB(freqHz, c.sampleRate) + c.mic.MagnitudeDB(freqHz, c.sampleRate)
}

// SpeakerShaper is the fixed soft-saturation curve of the speaker cone.
func SpeakerShaper(x float64) float64 {
	ax := math.Abs(x)

	switch {
	case ax < 0.3:
		return x
	case ax < 0.7:
		return x * (1 - 0.1*(ax-0.3))
	default:
		return limitSym(0.9*x+0.1*math.Tanh(0.3*x), speakerShaperCeiling)
	}
}
