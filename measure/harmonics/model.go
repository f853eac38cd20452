package harmonics

import (
	"math"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/effects"
	"github.com/cwbudde/algo-saturator/dsp/resample"
)

// ProfileModel drives a bin-centred sine through one saturation model at the
// given drive, oversampled as cfg asks, and analyses the result.
func ProfileModel(model effects.Model, drive float64, cfg Config) (Profile, error) {
	cfg = cfg.withDefaults()
	if cfg.Frequency <= 0 {
		cfg.Frequency = 1000
	}
	cfg.Frequency = cfg.SnapFrequency(cfg.Frequency)

	settle := cfg.FFTSize / 4
	signal := sine(cfg.Frequency, cfg.SampleRate, cfg.Amplitude, cfg.FFTSize+settle)

	spec := core.ApplySpecOptions(
		core.WithSampleRate(cfg.SampleRate),
		core.WithMaxBlockSize(len(signal)),
		core.WithChannels(1),
	)

	ovs, err := resample.NewOversampler(resample.WithFactor(cfg.Oversampling))
	if err != nil {
		return Profile{}, err
	}
	if err := ovs.Prepare(spec); err != nil {
		return Profile{}, err
	}

	sat, err := effects.NewSaturator(cfg.SampleRate*float64(cfg.Oversampling),
		effects.WithSaturationModel(model),
		effects.WithSaturationDrive(drive),
		effects.WithSaturationChannels(1))
	if err != nil {
		return Profile{}, err
	}

	block := [][]float64{signal}
	high, err := ovs.ProcessUp(block)
	if err != nil {
		return Profile{}, err
	}

	sat.ProcessChannel(0, high[0])

	if err := ovs.ProcessDown(high, block); err != nil {
		return Profile{}, err
	}

	return Analyze(signal, cfg)
}

func sine(freq, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freq / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(w*float64(i))
	}
	return out
}
