package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/finrep"
)

// AllocationMarkdown renders the accounts and their split by currency.
func AllocationMarkdown(a finrep.Allocation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Assets on %s\n\n", a.On)
	fmt.Fprintln(&b, "| Account | Amount | Converted |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, acc := range a.Accounts {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", acc.Account, acc.Native, acc.Converted)
	}

	fmt.Fprint(&b, "\n## By Currency\n\n")
	fmt.Fprintln(&b, "| Currency | Amount | Converted | Share |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, c := range a.Currencies {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.Currency, c.Native, c.Converted, percent(c.Percent))
	}
	fmt.Fprintf(&b, "| **Total** | | **%s** | 100.0%% |\n", a.Total)
	return b.String()
}
