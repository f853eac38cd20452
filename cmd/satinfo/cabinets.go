package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-saturator/dsp/effects"
)

var responseFrequencies = []float64{60, 120, 500, 1000, 3000, 6000, 12000}

// CabinetsCmd prints each preset's constants and linear response.
type CabinetsCmd struct {
	Presence  float64 `default:"30" help:"Mic presence in percent (0-100)"`
	Resonance float64 `default:"0.5" help:"Cabinet resonance (0-1)"`
}

// Run executes the subcommand.
func (c *CabinetsCmd) Run(g *Globals) error {
	tw := tabwriter.NewWriter(g.out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "#\tName\tSpeaker\tCutoff [Hz]\tBreakup [Hz]")
	for _, f := range responseFrequencies {
		fmt.Fprintf(tw, "\t%s", freqLabel(f))
	}
	fmt.Fprintln(tw)

	for i, preset := range effects.CabinetPresets {
		cab, err := effects.NewCabinet(g.Rate,
			effects.WithCabinetPreset(i),
			effects.WithCabinetPresence(c.Presence/100),
			effects.WithCabinetResonance(c.Resonance),
			effects.WithCabinetChannels(1))
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%d\t%s\t%.0f\"\t%.0f\t%.0f", i, preset.Name, preset.SpeakerSize, preset.SpeakerCutoff, preset.BreakupFreq)
		for _, f := range responseFrequencies {
			fmt.Fprintf(tw, "\t%+.1f", cab.MagnitudeDB(f))
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

func freqLabel(f float64) string {
	if f >= 1000 {
		return fmt.Sprintf("%gk", f/1000)
	}
	return fmt.Sprintf("%g", f)
}

func toDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
