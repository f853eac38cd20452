package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cwbudde/algo-saturator/dsp/param"
)

// ParamsCmd prints the parameter table.
type ParamsCmd struct{}

// Run executes the subcommand.
func (c *ParamsCmd) Run(g *Globals) error {
	tw := tabwriter.NewWriter(g.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tName\tKind\tMin\tMax\tDefault\tUnit\tSmoothing [ms]\n")
	fmt.Fprintf(tw, "--\t----\t----\t---\t---\t-------\t----\t--------------\n")

	for _, s := range param.Specs() {
		smoothing := "-"
		if s.Smoothing > 0 {
			smoothing = fmt.Sprintf("%g", s.Smoothing*1000)
		}

		unit := s.Unit
		if unit == "" {
			unit = "-"
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%g\t%g\t%s\t%s\n",
			int(s.ID), s.Name, s.Kind, s.Min, s.Max, s.Default, unit, smoothing)
	}

	return tw.Flush()
}
