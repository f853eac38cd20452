package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cwbudde/algo-saturator/dsp/effects"
	"github.com/cwbudde/algo-saturator/measure/harmonics"
)

// ModelsCmd prints a harmonic profile per model.
type ModelsCmd struct {
	Drive        float64 `default:"60" help:"Drive in percent (0-100)"`
	Amplitude    float64 `default:"0.5" help:"Test sine peak amplitude"`
	Frequency    float64 `default:"1000" help:"Test sine frequency in Hz (snapped to an FFT bin)"`
	Oversampling int     `default:"4" help:"Oversampling factor (1, 2 or 4)"`
}

// Run executes the subcommand.
func (c *ModelsCmd) Run(g *Globals) error {
	cfg := harmonics.Config{
		SampleRate:   g.Rate,
		Frequency:    c.Frequency,
		Amplitude:    c.Amplitude,
		Oversampling: c.Oversampling,
	}

	tw := tabwriter.NewWriter(g.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Model\tStateful\tLevel\tTHD [dB]\tH2 [dB]\tH3 [dB]\tH5 [dB]\tEven/Odd\n")
	fmt.Fprintf(tw, "-----\t--------\t-----\t--------\t-------\t-------\t-------\t--------\n")

	for m := range effects.ModelCount {
		p, err := harmonics.ProfileModel(m, c.Drive, cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", m, err)
		}

		fmt.Fprintf(tw, "%s\t%v\t%.3f\t%.1f\t%.1f\t%.1f\t%.1f\t%.2f\n",
			m,
			m.Stateful(),
			p.Fundamental,
			p.THDdB,
			toDB(p.Harmonic(2)),
			toDB(p.Harmonic(3)),
			toDB(p.Harmonic(5)),
			p.EvenOddRatio(),
		)
	}

	return tw.Flush()
}
