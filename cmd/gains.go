package cmd

import (
	"context"
	"flag"

	"github.com/etnz/finrep/renderer"
	"github.com/google/subcommands"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct{}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized gains of the trades journal (FIFO)" }
func (*gainsCmd) Usage() string {
	return `finrep gains

  Matches every sale of the trades journal against the oldest lots bought
  before it, and displays the realized gains.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {}

func (c *gainsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		trades, err := a.trades()
		if err != nil {
			return err
		}
		report, err := a.system.Investments(ctx, trades)
		if err != nil {
			return err
		}
		printMarkdown(renderer.GainsMarkdown(report))
		return nil
	})
}
