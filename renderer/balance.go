package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/date"
)

// BalanceMarkdown renders the monthly balance table.
func BalanceMarkdown(months []finrep.MonthBalance, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Monthly Balance in %s\n\n", currency)
	fmt.Fprintln(&b, "| Month | Income | Savings | Cost | Lent | Borrowed | Balance | Capital | Delta |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, m := range months {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			m.Month.Format("2006-01"),
			amount(m.Income),
			amount(m.Savings),
			amount(m.Cost),
			amount(m.Receivable.Sub(m.ReceivableRepaid)),
			amount(m.Payable.Sub(m.PayableRepaid)),
			amount(m.Balance),
			amount(m.Capital),
			amount(m.Delta),
		)
	}
	return b.String()
}

// DebtsMarkdown renders what is owed to and by counterparties.
func DebtsMarkdown(receivables, payables []finrep.Debt) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Debts\n\n")
	section := func(title string, debts []finrep.Debt) {
		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintf(w, "## %s\n\n", title)
			fmt.Fprintln(w, "| Counterparty | Amount |")
			fmt.Fprintln(w, "|:---|---:|")
			for _, d := range debts {
				fmt.Fprintf(w, "| %s | %s |\n", d.Counterparty, d.Amount)
			}
			fmt.Fprintln(w)
			return len(debts) > 0
		})
	}
	section("Owed to me", receivables)
	section("Owed by me", payables)
	if len(receivables) == 0 && len(payables) == 0 {
		fmt.Fprintln(&b, "All settled.")
	}
	return b.String()
}

// CostsMarkdown renders the spending per category over r.
func CostsMarkdown(costs []finrep.CategoryCost, r date.Range) string {
	var b strings.Builder
	per := "month"
	if r.Len() <= 31 {
		per = "day"
	}

	fmt.Fprintf(&b, "# Costs from %s to %s\n\n", r.From, r.To)
	fmt.Fprintf(&b, "| Category | Total | Average per %s | Share |\n", per)
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	var total finrep.Money
	for _, c := range costs {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.Category, c.Total, c.Average, percent(c.Percent))
		total = total.Add(c.Total)
	}
	if len(costs) > 0 {
		fmt.Fprintf(&b, "| **Total** | **%s** | | |\n", total)
	}
	return b.String()
}
