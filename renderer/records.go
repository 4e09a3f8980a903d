package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/finrep"
	"github.com/shopspring/decimal"
)

// RecordsMarkdown renders normalized records and their total per category.
func RecordsMarkdown(records []finrep.ValuedRecord, target, policy string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Records in %s\n\n", target)
	fmt.Fprintf(&b, "Rates: %s\n\n", policy)

	fmt.Fprintln(&b, "| Date | Category | Amount | Comment |")
	fmt.Fprintln(&b, "|:---|:---|---:|:---|")
	totals := make(map[string]decimal.Decimal)
	var categories []string
	for _, r := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Date, r.Category, r.Money(), r.Comment)
		if _, ok := totals[r.Category]; !ok {
			categories = append(categories, r.Category)
		}
		totals[r.Category] = totals[r.Category].Add(r.Amount)
	}

	fmt.Fprint(&b, "\n## Totals\n\n")
	fmt.Fprintln(&b, "| Category | Total |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, c := range categories {
		fmt.Fprintf(&b, "| %s | %s |\n", c, finrep.M(totals[c], target))
	}
	return b.String()
}
