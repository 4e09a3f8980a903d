package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/date"
	"github.com/etnz/finrep/renderer"
	"github.com/google/subcommands"
)

type assetsCmd struct {
	currency string
	on       string
}

func (*assetsCmd) Name() string     { return "assets" }
func (*assetsCmd) Synopsis() string { return "asset snapshots split by currency" }
func (*assetsCmd) Usage() string {
	return `finrep assets [-c <currency>] [-d <date>]

  Converts the latest snapshot of every account with the rates of the day,
  and displays the share of each currency.
`
}

func (c *assetsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Report currency, defaults to FINREP_TARGET_CURRENCY")
	f.StringVar(&c.on, "d", date.Today().String(), "Day of the conversion rates")
}

func (c *assetsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		target, err := a.target(c.currency)
		if err != nil {
			return err
		}
		snapshots, err := a.assets()
		if err != nil {
			return err
		}
		allocation, err := a.system.Normalizer.Allocate(ctx, finrep.LatestSnapshots(snapshots, on), target, on)
		if err != nil {
			return err
		}
		printMarkdown(renderer.AllocationMarkdown(allocation))
		return nil
	})
}
