package finrep

import (
	"context"
	"fmt"

	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
)

// InvestmentReport is the realized and unrealized performance of a trade journal.
type InvestmentReport struct {
	Sales     []SaleEvent
	Positions []PositionResult
	Warnings  []UnderCoverage
}

// AccountingSystem ties the rate provider, the normalizer and the valuator
// together, for the callers that work on whole journals.
type AccountingSystem struct {
	Rates      *RateProvider
	Normalizer *Normalizer
	Valuator   *Valuator
	Currencies Currencies
	Taxonomy   Taxonomy

	log zerolog.Logger
}

// NewAccountingSystem creates a new accounting system.
func NewAccountingSystem(rates *RateProvider, valuator *Valuator, currencies Currencies, tax Taxonomy, log zerolog.Logger) *AccountingSystem {
	return &AccountingSystem{
		Rates:      rates,
		Normalizer: NewNormalizer(rates, currencies, log),
		Valuator:   valuator,
		Currencies: currencies,
		Taxonomy:   tax,
		log:        log.With().Str("component", "accounting").Logger(),
	}
}

// Investments matches the sells of trades against their buys and values what is left.
func (as *AccountingSystem) Investments(ctx context.Context, trades []Trade) (*InvestmentReport, error) {
	buys, sells, err := SplitTrades(trades, as.Currencies)
	if err != nil {
		return nil, err
	}
	res := MatchFIFO(buys, sells)
	for _, w := range res.Warnings {
		as.log.Warn().
			Str("instrument", w.Instrument).
			Str("date", w.SaleDate.String()).
			Str("requested", w.Requested.String()).
			Str("covered", w.Covered.String()).
			Msg("sale not fully covered by prior buys, missing units have no cost basis")
	}
	positions := as.Valuator.Valuate(ctx, res.Remaining)
	as.log.Info().Int("sales", len(res.Sales)).Int("positions", len(positions)).Msg("investments computed")
	return &InvestmentReport{Sales: res.Sales, Positions: positions, Warnings: res.Warnings}, nil
}

// Records validates records and normalizes them to target, each category with
// its own rate policy.
func (as *AccountingSystem) Records(ctx context.Context, records []ValuedRecord, target string) ([]ValuedRecord, error) {
	if err := ValidateRecords(records, as.Currencies); err != nil {
		return nil, err
	}
	return as.Normalizer.NormalizeByCategory(ctx, records, target, as.Taxonomy)
}

// Balance returns the monthly balance of records, in target.
func (as *AccountingSystem) Balance(ctx context.Context, records []ValuedRecord, target string) ([]MonthBalance, error) {
	normalized, err := as.Records(ctx, records, target)
	if err != nil {
		return nil, err
	}
	return MonthlyBalance(normalized, as.Taxonomy)
}

// Costs returns the spending per category of the records inside r, in target.
// The average is per month, or per day when r is at most a month long.
func (as *AccountingSystem) Costs(ctx context.Context, records []ValuedRecord, target string, r date.Range) ([]CategoryCost, error) {
	var in []ValuedRecord
	for _, rec := range records {
		if r.Contains(rec.Date) {
			in = append(in, rec)
		}
	}
	if err := ValidateRecords(in, as.Currencies); err != nil {
		return nil, err
	}
	normalized, err := as.Normalizer.Normalize(ctx, in, target, AtDate)
	if err != nil {
		return nil, err
	}
	periods := r.Len()
	if r.Len() > 31 {
		periods = 0
		for m := r.From.StartOf(date.Monthly); !m.After(r.To); m = m.AddMonth(1) {
			periods++
		}
	}
	return CostDistribution(normalized, as.Taxonomy, periods)
}

// Debts returns what is still due to, and by, each counterparty.
func (as *AccountingSystem) Debts(records []ValuedRecord) (receivables, payables []Debt, err error) {
	if err := ValidateRecords(records, as.Currencies); err != nil {
		return nil, nil, err
	}
	if as.Taxonomy.Receivable == "" || as.Taxonomy.Payable == "" {
		return nil, nil, fmt.Errorf("debt categories are not configured")
	}
	receivables = Outstanding(records, as.Taxonomy.Receivable, as.Taxonomy.ReceivableRepaid)
	payables = Outstanding(records, as.Taxonomy.Payable, as.Taxonomy.PayableRepaid)
	return receivables, payables, nil
}
