// Command satinfo prints the characteristics of the saturation chain.
//
// Usage:
//
//	satinfo models [--drive=60] [--amplitude=0.5] [--frequency=1000]
//	satinfo cabinets [--presence=30] [--resonance=0.5]
//	satinfo params
//	satinfo chain [--set drive=80 --set model=10] [--seconds=1]
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

// Globals are shared by every subcommand.
type Globals struct {
	Verbose bool    `short:"v" help:"Log processor lifecycle events to stderr"`
	Rate    float64 `default:"48000" help:"Sample rate in Hz"`

	out    io.Writer      `kong:"-"`
	logger *logrus.Logger `kong:"-"`
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Models   ModelsCmd   `cmd:"" help:"Harmonic profile of every saturation model"`
	Cabinets CabinetsCmd `cmd:"" help:"Cabinet presets and their frequency response"`
	Params   ParamsCmd   `cmd:"" help:"Host parameter table"`
	Chain    ChainCmd    `cmd:"" help:"Run a test tone through the full processor"`
}

func newLogger(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("satinfo"),
		kong.Description("Inspect saturation models, cabinets and the processing chain"),
		kong.UsageOnError(),
	)

	cli.out = os.Stdout
	cli.logger = newLogger(cli.Verbose)

	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
