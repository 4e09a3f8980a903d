package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/date"
	"github.com/shopspring/decimal"
)

func usd(v float64) finrep.Money { return finrep.M(v, "USD") }

func ptr[T any](v T) *T { return &v }

func TestRatesMarkdown(t *testing.T) {
	s := finrep.NewRateSeries(finrep.Pair{From: "USD", To: "RUB"}).
		Set(date.MustParse("2025-01-01"), decimal.NewFromInt(90)).
		Set(date.MustParse("2025-01-02"), decimal.RequireFromString("90.5"))

	want := `# USD/RUB from 2025-01-01 to 2025-01-02

| Date | Rate |
|:---|---:|
| 2025-01-01 | 90 |
| 2025-01-02 | 90.5 |
`
	if got := RatesMarkdown(s); got != want {
		t.Errorf("RatesMarkdown() =\n%s\nwant\n%s", got, want)
	}
}

func TestRecordsMarkdown(t *testing.T) {
	records := []finrep.ValuedRecord{
		{Date: date.MustParse("2025-01-02"), Category: "Groceries", Currency: "USD", Amount: decimal.NewFromInt(10)},
		{Date: date.MustParse("2025-01-03"), Category: "Cafe", Currency: "USD", Amount: decimal.NewFromInt(5), Comment: "lunch"},
		{Date: date.MustParse("2025-01-04"), Category: "Groceries", Currency: "USD", Amount: decimal.RequireFromString("2.5")},
	}
	got := RecordsMarkdown(records, "USD", "at-date")

	for _, want := range []string{
		"# Records in USD",
		"Rates: at-date",
		"| 2025-01-03 | Cafe | $5.00 | lunch |",
		"| Groceries | $12.50 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("RecordsMarkdown() = \n%s\nmissing %q", got, want)
		}
	}
	if strings.Index(got, "| Groceries | $12.50 |") > strings.Index(got, "| Cafe | $5.00 |") {
		t.Errorf("RecordsMarkdown() totals not in first appearance order:\n%s", got)
	}
}

func TestGainsMarkdown(t *testing.T) {
	report := &finrep.InvestmentReport{
		Sales: []finrep.SaleEvent{
			{Instrument: "AAPL", SaleDate: date.MustParse("2025-02-01"), Quantity: finrep.Q(4), UnitPrice: usd(150), CostBasis: usd(400), Covered: finrep.Q(4), RealizedPnl: usd(200)},
			{Instrument: "MSFT", SaleDate: date.MustParse("2025-02-02"), Quantity: finrep.Q(1), UnitPrice: usd(90), CostBasis: usd(100), Covered: finrep.Q(1), RealizedPnl: usd(-10)},
		},
	}
	got := GainsMarkdown(report)
	for _, want := range []string{
		"| 2025-02-01 | AAPL | 4 | $150.00 | $400.00 | +$200.00 |",
		"| **Total** | | | | | **+$190.00** |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GainsMarkdown() = \n%s\nmissing %q", got, want)
		}
	}
	if strings.Contains(got, "Warnings") {
		t.Errorf("GainsMarkdown() without warnings has a warning section:\n%s", got)
	}

	report.Warnings = []finrep.UnderCoverage{{Instrument: "GAZP", SaleDate: date.MustParse("2025-03-01"), Requested: finrep.Q(10), Covered: finrep.Q(6)}}
	got = GainsMarkdown(report)
	if !strings.Contains(got, "## Warnings") || !strings.Contains(got, "4 units sold without a lot") {
		t.Errorf("GainsMarkdown() = \n%s\nmissing the undercoverage warning", got)
	}
}

func TestPositionsMarkdown(t *testing.T) {
	positions := []finrep.PositionResult{
		{
			Instrument: "AAPL", Class: finrep.Equity, Quantity: finrep.Q(6),
			CostBasis: usd(600), AverageCost: usd(100),
			CurrentPrice: ptr(usd(120)), UnrealizedPnl: ptr(usd(120)), ReturnPct: ptr(decimal.NewFromInt(20)),
		},
		{
			Instrument: "MSFT", Class: finrep.Equity, Quantity: finrep.Q(1),
			CostBasis: usd(300), AverageCost: usd(300),
		},
	}
	got := PositionsMarkdown(positions)
	for _, want := range []string{
		"| AAPL | equity | 6 | $100.00 | $600.00 | $120.00 | +$120.00 | 20.0% |",
		"| MSFT | equity | 1 | $300.00 | $300.00 | n/a | n/a | n/a |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PositionsMarkdown() = \n%s\nmissing %q", got, want)
		}
	}
}

func TestBalanceMarkdown(t *testing.T) {
	months := []finrep.MonthBalance{{
		Month:    date.MustParse("2025-01-01"),
		Currency: "USD",
		Income:   decimal.NewFromInt(1000),
		Cost:     decimal.NewFromInt(300),
		Payable:  decimal.NewFromInt(50),
		Balance:  decimal.NewFromInt(750),
		Capital:  decimal.NewFromInt(750),
		Delta:    decimal.NewFromInt(700),
	}}
	got := BalanceMarkdown(months, "USD")
	want := "| 2025-01 | 1000.00 | 0.00 | 300.00 | 0.00 | 50.00 | 750.00 | 750.00 | 700.00 |"
	if !strings.Contains(got, want) {
		t.Errorf("BalanceMarkdown() = \n%s\nmissing %q", got, want)
	}
}

func TestDebtsMarkdown(t *testing.T) {
	got := DebtsMarkdown([]finrep.Debt{{Counterparty: "Ivan", Amount: usd(20)}}, nil)
	if !strings.Contains(got, "## Owed to me") || !strings.Contains(got, "| Ivan | $20.00 |") {
		t.Errorf("DebtsMarkdown() = \n%s\nmissing the receivable", got)
	}
	if strings.Contains(got, "Owed by me") {
		t.Errorf("DebtsMarkdown() = \n%s\nhas an empty payable section", got)
	}

	if got := DebtsMarkdown(nil, nil); !strings.Contains(got, "All settled.") {
		t.Errorf("DebtsMarkdown(nil, nil) = %q", got)
	}
}

func TestCostsMarkdown(t *testing.T) {
	costs := []finrep.CategoryCost{
		{Category: "Rent", Total: usd(1200), Average: usd(600), Percent: decimal.NewFromInt(60)},
		{Category: "Groceries", Total: usd(800), Average: usd(400), Percent: decimal.NewFromInt(40)},
	}
	got := CostsMarkdown(costs, date.Range{From: date.MustParse("2025-01-01"), To: date.MustParse("2025-02-28")})
	for _, want := range []string{
		"Average per month",
		"| Rent | $1,200.00 | $600.00 | 60.0% |",
		"| **Total** | **$2,000.00** | | |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("CostsMarkdown() = \n%s\nmissing %q", got, want)
		}
	}
}

func TestAllocationMarkdown(t *testing.T) {
	a := finrep.Allocation{
		On:     date.MustParse("2025-01-31"),
		Target: "USD",
		Accounts: []finrep.AccountBalance{
			{Account: "Broker", Native: usd(300), Converted: usd(300)},
		},
		Currencies: []finrep.CurrencyShare{
			{Currency: "USD", Native: usd(300), Converted: usd(300), Percent: decimal.NewFromInt(100)},
		},
		Total: usd(300),
	}
	got := AllocationMarkdown(a)
	for _, want := range []string{
		"# Assets on 2025-01-31",
		"| Broker | $300.00 | $300.00 |",
		"| USD | $300.00 | $300.00 | 100.0% |",
		"| **Total** | | **$300.00** | 100.0% |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("AllocationMarkdown() = \n%s\nmissing %q", got, want)
		}
	}
}
