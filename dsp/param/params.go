package param

import (
	"fmt"
	"math"
)

// ID identifies a host parameter.
type ID int

const (
	InputGain ID = iota
	Drive
	Mix
	Output
	Model
	Tone
	Bias
	Quality
	LowCut
	HighCut
	GateEnabled
	GateThreshold
	CabinetEnabled
	CabinetModel
	CabinetPresence
	CabinetMix
	LimiterEnabled
	MidSideEnabled
	MidGain
	SideGain
	StereoWidth
	AutoGain
	Bypass

	// Count is the number of parameters.
	Count
)

// Kind describes how a parameter value is interpreted.
type Kind int

const (
	KindContinuous Kind = iota
	KindBool
	KindIndex
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindIndex:
		return "index"
	default:
		return "continuous"
	}
}

// Spec declares one parameter. Smoothing is the ramp time in seconds for
// parameters the processor smooths, zero otherwise.
type Spec struct {
	ID        ID
	Name      string
	Min       float64
	Max       float64
	Default   float64
	Unit      string
	Kind      Kind
	Smoothing float64
}

// Clamp limits v to the declared range. NaN maps to the default.
func (s Spec) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return s.Default
	}

	return min(max(v, s.Min), s.Max)
}

// Normalize maps v into 0..1.
func (s Spec) Normalize(v float64) float64 {
	if s.Max <= s.Min {
		return 0
	}

	return (s.Clamp(v) - s.Min) / (s.Max - s.Min)
}

// Denormalize maps n in 0..1 onto the declared range.
func (s Spec) Denormalize(n float64) float64 {
	n = min(max(n, 0), 1)
	return s.Min + n*(s.Max-s.Min)
}

var specs = [Count]Spec{
	{InputGain, "inputGain", -12, 12, 0, "dB", KindContinuous, 0.002},
	{Drive, "drive", 0, 100, 30, "%", KindContinuous, 0.001},
	{Mix, "mix", 0, 100, 100, "%", KindContinuous, 0.001},
	{Output, "output", -24, 12, 0, "dB", KindContinuous, 0.002},
	{Model, "model", 0, 10, 0, "", KindIndex, 0},
	{Tone, "tone", 0, 100, 50, "%", KindContinuous, 0.001},
	{Bias, "bias", -50, 50, 0, "", KindContinuous, 0.001},
	{Quality, "quality", 0, 2, 1, "", KindIndex, 0},
	{LowCut, "lowCut", 20, 1000, 20, "Hz", KindContinuous, 0},
	{HighCut, "highCut", 1000, 20000, 20000, "Hz", KindContinuous, 0},
	{GateEnabled, "gateEnabled", 0, 1, 0, "", KindBool, 0},
	{GateThreshold, "gateThreshold", -60, 0, -40, "dB", KindContinuous, 0},
	{CabinetEnabled, "cabinetEnabled", 0, 1, 0, "", KindBool, 0},
	{CabinetModel, "cabinetModel", 0, 9, 0, "", KindIndex, 0},
	{CabinetPresence, "cabinetPresence", 0, 100, 30, "%", KindContinuous, 0},
	{CabinetMix, "cabinetMix", 0, 100, 100, "%", KindContinuous, 0},
	{LimiterEnabled, "limiterEnabled", 0, 1, 0, "", KindBool, 0},
	{MidSideEnabled, "midSideEnabled", 0, 1, 0, "", KindBool, 0},
	{MidGain, "midGain", -24, 24, 0, "dB", KindContinuous, 0},
	{SideGain, "sideGain", -24, 24, 0, "dB", KindContinuous, 0},
	{StereoWidth, "stereoWidth", 0, 300, 100, "%", KindContinuous, 0},
	{AutoGain, "autoGain", 0, 1, 0, "", KindBool, 0},
	{Bypass, "bypass", 0, 1, 0, "", KindBool, 0.002},
}

var byName = func() map[string]ID {
	m := make(map[string]ID, len(specs))
	for _, s := range specs {
		m[s.Name] = s.ID
	}

	return m
}()

// Lookup returns the declaration of id.
func Lookup(id ID) (Spec, error) {
	if id < 0 || id >= Count {
		return Spec{}, fmt.Errorf("%w: id %d", ErrUnknownParameter, id)
	}

	return specs[id], nil
}

// LookupName returns the declaration of the parameter called name.
func LookupName(name string) (Spec, error) {
	id, ok := byName[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	return specs[id], nil
}

// Specs returns all declarations in ID order.
func Specs() []Spec {
	out := make([]Spec, len(specs))
	copy(out, specs[:])

	return out
}

func (id ID) String() string {
	if id < 0 || id >= Count {
		return fmt.Sprintf("ID(%d)", int(id))
	}

	return specs[id].Name
}
