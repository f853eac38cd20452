package main

import (
	"fmt"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/cwbudde/algo-saturator/dsp/core"
	"github.com/cwbudde/algo-saturator/dsp/param"
	"github.com/cwbudde/algo-saturator/dsp/saturator"
)

// ChainCmd renders a stereo sine through a prepared processor and reports
// the resulting telemetry.
type ChainCmd struct {
	Set       map[string]float64 `short:"s" help:"Parameter override as name=value (repeatable)"`
	Frequency float64            `default:"220" help:"Test sine frequency in Hz"`
	Amplitude float64            `default:"0.5" help:"Test sine peak amplitude"`
	Seconds   float64            `default:"1" help:"Rendered duration in seconds"`
	Block     int                `default:"512" help:"Host block size"`
}

// Run executes the subcommand.
func (c *ChainCmd) Run(g *Globals) error {
	store := param.NewStore()

	names := make([]string, 0, len(c.Set))
	for name := range c.Set {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s, err := param.LookupName(name)
		if err != nil {
			return err
		}
		if err := store.Set(s.ID, c.Set[name]); err != nil {
			return err
		}
	}

	proc, err := saturator.NewProcessor(store, saturator.WithLogger(g.logger))
	if err != nil {
		return err
	}

	spec := core.ApplySpecOptions(
		core.WithSampleRate(g.Rate),
		core.WithMaxBlockSize(c.Block),
		core.WithChannels(2),
	)
	if err := proc.Prepare(spec); err != nil {
		return err
	}
	defer proc.Release()

	total := int(c.Seconds * g.Rate)
	if total <= 0 {
		return fmt.Errorf("duration %.3f s renders no samples", c.Seconds)
	}

	block := [][]float64{make([]float64, c.Block), make([]float64, c.Block)}
	step := 2 * math.Pi * c.Frequency / g.Rate

	for pos := 0; pos < total; pos += c.Block {
		n := min(c.Block, total-pos)
		for i := range n {
			v := c.Amplitude * math.Sin(step*float64(pos+i))
			block[0][i] = v
			block[1][i] = v
		}

		if err := proc.Process([][]float64{block[0][:n], block[1][:n]}); err != nil {
			return err
		}
	}

	m := proc.Meters()

	tw := tabwriter.NewWriter(g.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Latency:\t%d samples (%.2f ms)\n", proc.Latency(), 1000*float64(proc.Latency())/g.Rate)
	fmt.Fprintf(tw, "Bypass:\t%s\n", proc.BypassState())
	fmt.Fprintf(tw, "Input:\tpeak %.1f dBFS, rms %.1f dBFS\n", toDB(m.InputPeak), toDB(m.InputRMS))
	fmt.Fprintf(tw, "Output:\tpeak %.1f dBFS, rms %.1f dBFS\n", toDB(m.OutputPeak), toDB(m.OutputRMS))
	fmt.Fprintf(tw, "Clipping:\t%v\n", m.Clipping)
	fmt.Fprintf(tw, "Gate level:\t%.3f\n", proc.GateLevel())
	fmt.Fprintf(tw, "Auto gain:\t%+.2f dB\n", proc.AutoGainDB())

	return tw.Flush()
}
