package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

const (
	minMidSideGainDB = -24.0
	maxMidSideGainDB = 24.0

	minMidSideWidth = 0.0
	maxMidSideWidth = 3.0
)

// MidSideOption mutates mid/side construction parameters.
type MidSideOption func(*midSideConfig) error

type midSideConfig struct {
	midGainDB  float64
	sideGainDB float64
	width      float64
	balance    float64
}

func defaultMidSideConfig() midSideConfig {
	return midSideConfig{width: 1}
}

// WithMidGainDB sets the mid gain in [-24, 24] dB.
func WithMidGainDB(db float64) MidSideOption {
	return func(cfg *midSideConfig) error {
		if db < minMidSideGainDB || db > maxMidSideGainDB || !core.IsFinite(db) {
			return fmt.Errorf("mid/side mid gain must be in [%g, %g]: %f", minMidSideGainDB, maxMidSideGainDB, db)
		}

		cfg.midGainDB = db

		return nil
	}
}

// WithSideGainDB sets the side gain in [-24, 24] dB.
func WithSideGainDB(db float64) MidSideOption {
	return func(cfg *midSideConfig) error {
		if db < minMidSideGainDB || db > maxMidSideGainDB || !core.IsFinite(db) {
			return fmt.Errorf("mid/side side gain must be in [%g, %g]: %f", minMidSideGainDB, maxMidSideGainDB, db)
		}

		cfg.sideGainDB = db

		return nil
	}
}

// WithMidSideWidth sets the side multiplier in [0, 3].
func WithMidSideWidth(width float64) MidSideOption {
	return func(cfg *midSideConfig) error {
		if width < minMidSideWidth || width > maxMidSideWidth || !core.IsFinite(width) {
			return fmt.Errorf("mid/side width must be in [%g, %g]: %f", minMidSideWidth, maxMidSideWidth, width)
		}

		cfg.width = width

		return nil
	}
}

// WithBalance sets mid/side balance in [-1, 1]. Positive values attenuate
// mid, negative values attenuate side.
func WithBalance(balance float64) MidSideOption {
	return func(cfg *midSideConfig) error {
		if balance < -1 || balance > 1 || !core.IsFinite(balance) {
			return fmt.Errorf("mid/side balance must be in [-1, 1]: %f", balance)
		}

		cfg.balance = balance

		return nil
	}
}

// MidSide encodes left/right into mid and side, applies independent gains,
// a width multiplier on side and a balance, then decodes back.
//
// With 0 dB gains, width 1 and balance 0 the round trip is an identity.
type MidSide struct {
	midGainDB  float64
	sideGainDB float64
	width      float64
	balance    float64

	midScale  float64
	sideScale float64
}

// NewMidSide creates a mid/side stage with unity defaults.
func NewMidSide(opts ...MidSideOption) (*MidSide, error) {
	cfg := defaultMidSideConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	m := &MidSide{
		midGainDB:  cfg.midGainDB,
		sideGainDB: cfg.sideGainDB,
		width:      cfg.width,
		balance:    cfg.balance,
	}
	m.updateScales()

	return m, nil
}

// SetMidGainDB sets the mid gain, clamped to [-24, 24] dB.
func (m *MidSide) SetMidGainDB(db float64) {
	if !core.IsFinite(db) {
		return
	}

	m.midGainDB = core.Clamp(db, minMidSideGainDB, maxMidSideGainDB)
	m.updateScales()
}

// SetSideGainDB sets the side gain, clamped to [-24, 24] dB.
func (m *MidSide) SetSideGainDB(db float64) {
	if !core.IsFinite(db) {
		return
	}

	m.sideGainDB = core.Clamp(db, minMidSideGainDB, maxMidSideGainDB)
	m.updateScales()
}

// SetWidth sets the side multiplier, clamped to [0, 3].
func (m *MidSide) SetWidth(width float64) {
	if !core.IsFinite(width) {
		return
	}

	m.width = core.Clamp(width, minMidSideWidth, maxMidSideWidth)
	m.updateScales()
}

// SetBalance sets the balance, clamped to [-1, 1].
func (m *MidSide) SetBalance(balance float64) {
	if !core.IsFinite(balance) {
		return
	}

	m.balance = core.Clamp(balance, -1, 1)
	m.updateScales()
}

func (m *MidSide) updateScales() {
	m.midScale = dbToGain(m.midGainDB)
	m.sideScale = dbToGain(m.sideGainDB) * m.width

	switch {
	case m.balance > 0:
		m.midScale *= 1 - m.balance
	case m.balance < 0:
		m.sideScale *= 1 + m.balance
	}
}

// dbToGain is exact at 0 dB so that unity settings leave samples untouched.
func dbToGain(db float64) float64 {
	if db == 0 {
		return 1
	}

	return math.Pow(10, db/20)
}

// MidGainDB returns the mid gain.
func (m *MidSide) MidGainDB() float64 { return m.midGainDB }

// SideGainDB returns the side gain.
func (m *MidSide) SideGainDB() float64 { return m.sideGainDB }

// Width returns the side multiplier.
func (m *MidSide) Width() float64 { return m.width }

// Balance returns the balance.
func (m *MidSide) Balance() float64 { return m.balance }

// ProcessStereo transforms one stereo sample pair.
func (m *MidSide) ProcessStereo(left, right float64) (float64, float64) {
	mid := (left + right) * 0.5 * m.midScale
	side := (left - right) * 0.5 * m.sideScale

	return mid + side, mid - side
}

// ProcessStereoInPlace transforms paired buffers in place. Both buffers must
// have the same length.
func (m *MidSide) ProcessStereoInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("mid/side: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = m.ProcessStereo(left[i], right[i])
	}

	return nil
}

// EncodeInPlace rewrites left/right as mid and side in place with the stage's
// gains, width and balance applied. Decode turns the pair back into
// left/right.
func (m *MidSide) EncodeInPlace(left, right []float64) error {
	if err := Encode(left, right); err != nil {
		return err
	}

	if m.midScale != 1 {
		vecmath.ScaleBlockInPlace(left, m.midScale)
	}

	if m.sideScale != 1 {
		vecmath.ScaleBlockInPlace(right, m.sideScale)
	}

	return nil
}

// Encode rewrites left/right as mid/side in place, without gains.
func Encode(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("mid/side: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	for i := range left {
		l, r := left[i], right[i]
		left[i] = (l + r) * 0.5
		right[i] = (l - r) * 0.5
	}

	return nil
}

// Decode rewrites mid/side as left/right in place.
func Decode(mid, side []float64) error {
	if len(mid) != len(side) {
		return fmt.Errorf("mid/side: mid and side buffers must have equal length: %d != %d",
			len(mid), len(side))
	}

	for i := range mid {
		m, s := mid[i], side[i]
		mid[i] = m + s
		side[i] = m - s
	}

	return nil
}
