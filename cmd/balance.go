package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/finrep/date"
	"github.com/etnz/finrep/renderer"
	"github.com/google/subcommands"
)

type balanceCmd struct {
	currency string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "monthly income, costs and capital" }
func (*balanceCmd) Usage() string {
	return `finrep balance [-c <currency>]

  Displays, for every month of the records journal, the income, savings,
  costs, debts movements, balance and accumulated capital.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Report currency, defaults to FINREP_TARGET_CURRENCY")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		target, err := a.target(c.currency)
		if err != nil {
			return err
		}
		records, err := a.records()
		if err != nil {
			return err
		}
		months, err := a.system.Balance(ctx, records, target)
		if err != nil {
			return err
		}
		printMarkdown(renderer.BalanceMarkdown(months, target))
		return nil
	})
}

type costsCmd struct {
	currency string
	start    string
	end      string
	period   string
}

func (*costsCmd) Name() string     { return "costs" }
func (*costsCmd) Synopsis() string { return "spending per category" }
func (*costsCmd) Usage() string {
	return `finrep costs [-c <currency>] [-s <date>] [-d <date>] [-p <period>]

  Displays the spending per category between the two dates, largest first,
  with the average per day (up to a month) or per month.
`
}

func (c *costsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Report currency, defaults to FINREP_TARGET_CURRENCY")
	f.StringVar(&c.start, "s", "", "Start date, defaults to the start of the end date's period")
	f.StringVar(&c.end, "d", date.Today().String(), "End date")
	f.StringVar(&c.period, "p", "year", "Period of the default start date (day, week, month, quarter, year)")
}

func (c *costsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := parseRange(c.start, c.end, c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing dates: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		target, err := a.target(c.currency)
		if err != nil {
			return err
		}
		records, err := a.records()
		if err != nil {
			return err
		}
		costs, err := a.system.Costs(ctx, records, target, r)
		if err != nil {
			return err
		}
		printMarkdown(renderer.CostsMarkdown(costs, r))
		return nil
	})
}

type debtsCmd struct{}

func (*debtsCmd) Name() string     { return "debts" }
func (*debtsCmd) Synopsis() string { return "money lent and borrowed, not yet repaid" }
func (*debtsCmd) Usage() string {
	return `finrep debts

  Displays what each counterparty still owes, or is owed, in the currency
  of the debt.
`
}

func (c *debtsCmd) SetFlags(f *flag.FlagSet) {}

func (c *debtsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		records, err := a.records()
		if err != nil {
			return err
		}
		receivables, payables, err := a.system.Debts(records)
		if err != nil {
			return err
		}
		printMarkdown(renderer.DebtsMarkdown(receivables, payables))
		return nil
	})
}
