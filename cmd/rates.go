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

type ratesCmd struct {
	pair   string
	start  string
	end    string
	period string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "prints the daily rates of a currency pair" }
func (*ratesCmd) Usage() string {
	return `finrep rates -pair <FROMTO> [-s <date>] [-d <date>] [-p <period>]

  Prints one rate per day for the pair, filling the days without a quote.
  Pairs without a direct quote are crossed through USD.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pair, "pair", "USDRUB", "Currency pair, e.g. USDRUB or EUR/USD")
	f.StringVar(&c.start, "s", "", "Start date, defaults to the start of the end date's period")
	f.StringVar(&c.end, "d", date.Today().String(), "End date")
	f.StringVar(&c.period, "p", "month", "Period of the default start date (day, week, month, quarter, year)")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	pair, err := finrep.ParsePair(c.pair)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing pair: %v\n", err)
		return subcommands.ExitUsageError
	}
	r, err := parseRange(c.start, c.end, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing dates: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withApp(ctx, func(ctx context.Context, a *app) error {
		for _, code := range []string{pair.From, pair.To} {
			if err := a.currencies.Validate(code, "-pair flag"); err != nil {
				return err
			}
		}
		series, err := a.system.Rates.GetRates(ctx, pair, r.From, r.To)
		if err != nil {
			return err
		}
		printMarkdown(renderer.RatesMarkdown(series))
		return nil
	})
}
