package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/renderer"
	"github.com/google/subcommands"
)

type normalizeCmd struct {
	currency string
	policy   string
	output   string
}

func (*normalizeCmd) Name() string     { return "normalize" }
func (*normalizeCmd) Synopsis() string { return "converts the records journal into a single currency" }
func (*normalizeCmd) Usage() string {
	return `finrep normalize [-c <currency>] [-policy at-date|current|auto] [-o <file>]

  Converts every record of the journal into the currency.
  With -policy auto, income and savings use the current rate, other
  categories the rate of their date.
  With -o, the converted journal is written to file instead of printed.
`
}

func (c *normalizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Target currency, defaults to FINREP_TARGET_CURRENCY")
	f.StringVar(&c.policy, "policy", "auto", "Rate policy: at-date, current or auto")
	f.StringVar(&c.output, "o", "", "Write the converted records to this JSONL file")
}

func (c *normalizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var policy finrep.RatePolicy
	if c.policy != "auto" {
		var err error
		if policy, err = finrep.ParseRatePolicy(c.policy); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing policy: %v\n", err)
			return subcommands.ExitUsageError
		}
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

		var normalized []finrep.ValuedRecord
		if c.policy == "auto" {
			normalized, err = a.system.Records(ctx, records, target)
		} else {
			normalized, err = a.system.Normalizer.Normalize(ctx, records, target, policy)
		}
		if err != nil {
			return err
		}

		if c.output != "" {
			out, err := os.Create(c.output)
			if err != nil {
				return err
			}
			defer out.Close()
			if err := finrep.EncodeRecords(out, normalized); err != nil {
				return err
			}
			fmt.Printf("%d records written to %s\n", len(normalized), c.output)
			return out.Close()
		}
		printMarkdown(renderer.RecordsMarkdown(normalized, target, c.policy))
		return nil
	})
}
