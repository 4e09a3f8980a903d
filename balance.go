package finrep

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/etnz/finrep/date"
	"github.com/shopspring/decimal"
)

// MonthBalance sums a month of normalized records.
type MonthBalance struct {
	Month            date.Date // first day of the month
	Currency         string
	Income           decimal.Decimal
	Savings          decimal.Decimal
	Investments      decimal.Decimal
	Receivable       decimal.Decimal
	ReceivableRepaid decimal.Decimal
	Payable          decimal.Decimal
	PayableRepaid    decimal.Decimal
	Cost             decimal.Decimal

	// Balance is the net cash of the month:
	// income + savings - receivable + receivable repaid + payable - payable repaid - cost.
	Balance decimal.Decimal
	// Capital is the running sum of Balance, from the first month.
	Capital decimal.Decimal
	// Delta is income - cost.
	Delta decimal.Decimal
}

// singleCurrency returns the currency shared by all records.
func singleCurrency(records []ValuedRecord) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	cur := records[0].Currency
	for _, r := range records {
		if r.Currency != cur {
			return "", fmt.Errorf("records must be normalized first: found %s and %s", cur, r.Currency)
		}
	}
	return cur, nil
}

// MonthlyBalance returns one MonthBalance per calendar month from the first to
// the last record, including months without records.
// Records must all be in the same currency.
func MonthlyBalance(records []ValuedRecord, tax Taxonomy) ([]MonthBalance, error) {
	cur, err := singleCurrency(records)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	first, last := records[0].Date, records[0].Date
	for _, r := range records {
		first, last = date.Min(first, r.Date), date.Max(last, r.Date)
	}

	var months []MonthBalance
	index := make(map[date.Date]int)
	for m := first.StartOf(date.Monthly); !m.After(last); m = m.AddMonth(1) {
		index[m] = len(months)
		months = append(months, MonthBalance{Month: m, Currency: cur})
	}

	for _, r := range records {
		mb := &months[index[r.Date.StartOf(date.Monthly)]]
		switch {
		case slices.Contains(tax.Income, r.Category):
			mb.Income = mb.Income.Add(r.Amount)
		case slices.Contains(tax.Savings, r.Category):
			mb.Savings = mb.Savings.Add(r.Amount)
		case slices.Contains(tax.Investments, r.Category):
			mb.Investments = mb.Investments.Add(r.Amount)
		case r.Category == tax.Receivable:
			mb.Receivable = mb.Receivable.Add(r.Amount)
		case r.Category == tax.ReceivableRepaid:
			mb.ReceivableRepaid = mb.ReceivableRepaid.Add(r.Amount)
		case r.Category == tax.Payable:
			mb.Payable = mb.Payable.Add(r.Amount)
		case r.Category == tax.PayableRepaid:
			mb.PayableRepaid = mb.PayableRepaid.Add(r.Amount)
		default:
			mb.Cost = mb.Cost.Add(r.Amount)
		}
	}

	capital := decimal.Zero
	for i := range months {
		mb := &months[i]
		mb.Balance = mb.Income.Add(mb.Savings).
			Sub(mb.Receivable).Add(mb.ReceivableRepaid).
			Add(mb.Payable).Sub(mb.PayableRepaid).
			Sub(mb.Cost)
		capital = capital.Add(mb.Balance)
		mb.Capital = capital
		mb.Delta = mb.Income.Sub(mb.Cost)
	}
	return months, nil
}

// Debt is what remains due by, or to, a counterparty.
type Debt struct {
	Counterparty string
	Amount       Money
}

// Outstanding returns, per counterparty (the record comment) and currency, the
// sum of records in category open minus those in category repaid.
// Settled counterparties are omitted, the result is sorted by counterparty.
func Outstanding(records []ValuedRecord, open, repaid string) []Debt {
	type key struct{ who, cur string }
	due := make(map[key]decimal.Decimal)
	for _, r := range records {
		if r.Amount.IsZero() {
			continue
		}
		k := key{r.Comment, r.Currency}
		switch r.Category {
		case open:
			due[k] = due[k].Add(r.Amount)
		case repaid:
			due[k] = due[k].Sub(r.Amount)
		}
	}

	var debts []Debt
	for k, v := range due {
		if v.IsZero() {
			continue
		}
		debts = append(debts, Debt{Counterparty: k.who, Amount: M(v, k.cur)})
	}
	slices.SortFunc(debts, func(a, b Debt) int {
		return cmp.Or(cmp.Compare(a.Counterparty, b.Counterparty), cmp.Compare(a.Amount.Currency(), b.Amount.Currency()))
	})
	return debts
}

// CategoryCost is the spending in a category.
type CategoryCost struct {
	Category string
	Total    Money
	Average  Money           // Total divided by the number of periods
	Percent  decimal.Decimal // share of all spending, in percent
}

// CostDistribution returns the spending per cost category, largest first.
// periods is the number of periods (months or days) the average is computed on.
// Records must all be in the same currency.
func CostDistribution(records []ValuedRecord, tax Taxonomy, periods int) ([]CategoryCost, error) {
	cur, err := singleCurrency(records)
	if err != nil {
		return nil, err
	}
	if periods <= 0 {
		return nil, fmt.Errorf("invalid number of periods %d", periods)
	}

	totals := make(map[string]decimal.Decimal)
	var order []string
	all := decimal.Zero
	for _, r := range records {
		if !tax.IsCost(r.Category) {
			continue
		}
		if _, ok := totals[r.Category]; !ok {
			order = append(order, r.Category)
		}
		totals[r.Category] = totals[r.Category].Add(r.Amount)
		all = all.Add(r.Amount)
	}

	n := decimal.NewFromInt(int64(periods))
	costs := make([]CategoryCost, 0, len(order))
	for _, c := range order {
		total := totals[c]
		pct := decimal.Zero
		if !all.IsZero() {
			pct = total.Div(all).Mul(decimal.NewFromInt(100)).RoundBank(2)
		}
		costs = append(costs, CategoryCost{
			Category: c,
			Total:    M(total, cur),
			Average:  M(total.Div(n).RoundBank(2), cur),
			Percent:  pct,
		})
	}
	slices.SortStableFunc(costs, func(a, b CategoryCost) int {
		return b.Total.Decimal().Cmp(a.Total.Decimal())
	})
	return costs, nil
}
