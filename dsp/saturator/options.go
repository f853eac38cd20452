package saturator

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

const (
	defaultPresetSmoothing  = 0.05
	defaultCabinetResonance = 0.5
	defaultLimiterRelease   = 10.0
	defaultDCBlockerCutoff  = 5.0
)

// ProcessorOption configures a Processor.
type ProcessorOption func(*processorConfig) error

type processorConfig struct {
	logger           logrus.FieldLogger
	presetSmoothing  float64
	cabinetResonance float64
	limiterRelease   float64
	dcBlockerCutoff  float64
	midSideBalance   float64
}

func defaultProcessorConfig() processorConfig {
	return processorConfig{
		logger:           discardLogger(),
		presetSmoothing:  defaultPresetSmoothing,
		cabinetResonance: defaultCabinetResonance,
		limiterRelease:   defaultLimiterRelease,
		dcBlockerCutoff:  defaultDCBlockerCutoff,
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithLogger routes lifecycle logging to l.
func WithLogger(l logrus.FieldLogger) ProcessorOption {
	return func(cfg *processorConfig) error {
		if l == nil {
			return errors.New("saturator logger must not be nil")
		}
		cfg.logger = l
		return nil
	}
}

// WithPresetSmoothing sets the ramp time used for one block after a preset
// load.
func WithPresetSmoothing(seconds float64) ProcessorOption {
	return func(cfg *processorConfig) error {
		if seconds <= 0 || seconds > 1 {
			return fmt.Errorf("saturator preset smoothing must be in (0, 1] s: %f", seconds)
		}
		cfg.presetSmoothing = seconds
		return nil
	}
}

// WithCabinetResonance sets the cabinet port resonance in [0, 1].
func WithCabinetResonance(r float64) ProcessorOption {
	return func(cfg *processorConfig) error {
		if r < 0 || r > 1 {
			return fmt.Errorf("saturator cabinet resonance must be in [0, 1]: %f", r)
		}
		cfg.cabinetResonance = r
		return nil
	}
}

// WithLimiterRelease sets the limiter release in milliseconds.
func WithLimiterRelease(ms float64) ProcessorOption {
	return func(cfg *processorConfig) error {
		if ms < 1 || ms > 1000 {
			return fmt.Errorf("saturator limiter release must be in [1, 1000] ms: %f", ms)
		}
		cfg.limiterRelease = ms
		return nil
	}
}

// WithDCBlockerCutoff sets the DC blocker corner frequency in Hz.
func WithDCBlockerCutoff(hz float64) ProcessorOption {
	return func(cfg *processorConfig) error {
		if hz <= 0 || hz > 200 {
			return fmt.Errorf("saturator DC blocker cutoff must be in (0, 200] Hz: %f", hz)
		}
		cfg.dcBlockerCutoff = hz
		return nil
	}
}

// WithMidSideBalance sets the mid/side balance in [-1, 1]. Positive values
// attenuate mid by 1-balance, negative values attenuate side by 1+balance.
// It only applies while mid/side processing is enabled.
func WithMidSideBalance(balance float64) ProcessorOption {
	return func(cfg *processorConfig) error {
		if !(balance >= -1 && balance <= 1) {
			return fmt.Errorf("saturator mid/side balance must be in [-1, 1]: %f", balance)
		}
		cfg.midSideBalance = balance
		return nil
	}
}
