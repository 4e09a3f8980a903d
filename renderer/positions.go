package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/finrep"
)

// PositionsMarkdown renders the open positions. Positions without a current
// price show "n/a".
func PositionsMarkdown(positions []finrep.PositionResult) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Positions\n\n")
	fmt.Fprintln(&b, "| Instrument | Class | Quantity | Average Cost | Cost Basis | Price | Unrealized | Return |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|")
	for _, p := range positions {
		ret := "n/a"
		if p.ReturnPct != nil {
			ret = percent(*p.ReturnPct)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			p.Instrument,
			p.Class,
			p.Quantity,
			p.AverageCost.Round(2),
			p.CostBasis,
			optional(p.CurrentPrice),
			signedOptional(p.UnrealizedPnl),
			ret,
		)
	}
	return b.String()
}
