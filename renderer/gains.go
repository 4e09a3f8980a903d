package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/finrep"
)

// GainsMarkdown renders the realized gains of the sales, then the sales that
// were not fully covered by lots.
func GainsMarkdown(report *finrep.InvestmentReport) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Realized Gains (FIFO)\n\n")
	fmt.Fprintln(&b, "| Date | Instrument | Quantity | Price | Cost Basis | Realized |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")

	totals := make(map[string]finrep.Money) // by currency
	var currencies []string
	for _, s := range report.Sales {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.SaleDate,
			s.Instrument,
			s.Quantity,
			s.UnitPrice,
			s.CostBasis,
			s.RealizedPnl.SignedString(),
		)
		cur := s.RealizedPnl.Currency()
		if _, ok := totals[cur]; !ok {
			currencies = append(currencies, cur)
		}
		totals[cur] = totals[cur].Add(s.RealizedPnl)
	}
	for _, cur := range currencies {
		fmt.Fprintf(&b, "| **%s** | | | | | **%s** |\n", "Total", totals[cur].SignedString())
	}

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Warnings\n\n")
		for _, u := range report.Warnings {
			fmt.Fprintf(w, "- %s: %s units sold without a lot\n", u, u.Missing())
		}
		return len(report.Warnings) > 0
	})
	return b.String()
}
