package cmd

import (
	"context"
	"flag"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/renderer"
	"github.com/google/subcommands"
)

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "open positions valued at current prices" }
func (*positionsCmd) Usage() string {
	return `finrep positions

  Displays the lots left after matching the sales, valued with the current
  price of each instrument. Instruments without a price are shown as n/a.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		trades, err := a.trades()
		if err != nil {
			return err
		}
		buys, sells, err := finrep.SplitTrades(trades, a.currencies)
		if err != nil {
			return err
		}
		res := finrep.MatchFIFO(buys, sells)
		printMarkdown(renderer.PositionsMarkdown(a.system.Valuator.Valuate(ctx, res.Remaining)))
		return nil
	})
}
