package finrep

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/etnz/finrep/date"
	"github.com/shopspring/decimal"
)

// AccountBalance is an account of an asset snapshot, in its own currency and
// converted.
type AccountBalance struct {
	Account   string
	Native    Money
	Converted Money
}

// CurrencyShare is the part of the assets held in one currency.
type CurrencyShare struct {
	Currency  string
	Native    Money
	Converted Money
	Percent   decimal.Decimal
}

// Allocation is the split of the assets by currency.
type Allocation struct {
	On         date.Date // day of the conversion rates
	Target     string
	Accounts   []AccountBalance
	Currencies []CurrencyShare // largest first
	Total      Money
}

// Allocate converts snapshots to target with the rates of the day on, and
// splits the total by currency.
func (n *Normalizer) Allocate(ctx context.Context, snapshots []AssetSnapshot, target string, on date.Date) (Allocation, error) {
	records, err := SnapshotRecords(snapshots, n.currencies)
	if err != nil {
		return Allocation{}, err
	}
	for i := range records {
		records[i].Date = on
	}
	converted, err := n.Normalize(ctx, records, target, AtDate)
	if err != nil {
		return Allocation{}, err
	}

	a := Allocation{On: on, Target: target, Total: M(0, target)}
	shares := make(map[string]*CurrencyShare)
	for i, s := range snapshots {
		native, conv := records[i].Money(), converted[i].Money()
		a.Accounts = append(a.Accounts, AccountBalance{Account: s.Account, Native: native, Converted: conv})
		a.Total = a.Total.Add(conv)

		sh, ok := shares[s.Currency]
		if !ok {
			sh = &CurrencyShare{Currency: s.Currency, Native: M(0, s.Currency), Converted: M(0, target)}
			shares[s.Currency] = sh
		}
		sh.Native = sh.Native.Add(native)
		sh.Converted = sh.Converted.Add(conv)
	}

	for _, sh := range shares {
		if !a.Total.IsZero() {
			sh.Percent = sh.Converted.Ratio(a.Total).Mul(decimal.NewFromInt(100)).RoundBank(2)
		}
		a.Currencies = append(a.Currencies, *sh)
	}
	slices.SortFunc(a.Currencies, func(x, y CurrencyShare) int {
		return cmp.Or(y.Converted.Decimal().Cmp(x.Converted.Decimal()), cmp.Compare(x.Currency, y.Currency))
	})
	return a, nil
}

// LatestSnapshots keeps the last snapshot of every account taken on or before
// on. The result is sorted by account.
func LatestSnapshots(snapshots []AssetSnapshot, on date.Date) []AssetSnapshot {
	latest := make(map[string]AssetSnapshot)
	for _, s := range snapshots {
		if s.Month.After(on) {
			continue
		}
		if l, ok := latest[s.Account]; !ok || !s.Month.Before(l.Month) {
			latest[s.Account] = s
		}
	}
	out := slices.Collect(maps.Values(latest))
	slices.SortFunc(out, func(a, b AssetSnapshot) int { return cmp.Compare(a.Account, b.Account) })
	return out
}
