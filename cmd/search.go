package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "searches for instruments on EODHD" }
func (*searchCmd) Usage() string {
	return `finrep search <search term>

  Searches for instruments via the EOD Historical Data API and prints the
  symbol to use in the trades journal.

  Requires FINREP_RATE_BACKEND=eodhd and EODHD_API_KEY.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	term := strings.Join(f.Args(), " ")

	return withApp(ctx, func(ctx context.Context, a *app) error {
		if a.eodhd == nil {
			return errors.New("search requires the eodhd rate backend")
		}
		results, err := a.eodhd.Search(ctx, term)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Printf("No results found for '%s'.\n", term)
			return nil
		}

		fmt.Printf("Found %d results for '%s':\n\n", len(results), term)
		for _, item := range results {
			fmt.Printf("➡️   Name       : %s (%s)\n", item.Name, item.Ticker())
			fmt.Printf("    Type        : %s, Country: %s, Currency: %s\n", item.Type, item.Country, item.Currency)
			fmt.Printf("    ISIN        : %s\n", item.ISIN)
			fmt.Printf("    Prev. Close : %.2f on %s\n\n", item.PreviousClose, item.PreviousCloseDate)
		}
		return nil
	})
}
