package finrep

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
)

// RatePolicy selects which rate converts a record.
type RatePolicy int

const (
	// AtDate converts each record with the rate of its own date.
	AtDate RatePolicy = iota
	// CurrentRate converts every record with the latest rate of the fetched series.
	CurrentRate
)

func (p RatePolicy) String() string {
	switch p {
	case AtDate:
		return "at-date"
	case CurrentRate:
		return "current"
	default:
		return fmt.Sprintf("RatePolicy(%d)", int(p))
	}
}

// ParseRatePolicy parses "at-date" or "current".
func ParseRatePolicy(s string) (RatePolicy, error) {
	switch s {
	case "at-date", "date":
		return AtDate, nil
	case "current":
		return CurrentRate, nil
	default:
		return AtDate, fmt.Errorf("unknown rate policy %q, want at-date or current", s)
	}
}

// RateGetter returns dense rate series. *RateProvider implements it.
type RateGetter interface {
	GetRates(ctx context.Context, pair Pair, min, max date.Date) (RateSeries, error)
}

// Normalizer converts records into a single target currency.
type Normalizer struct {
	rates      RateGetter
	currencies Currencies
	log        zerolog.Logger
}

// NewNormalizer returns a Normalizer accepting only the given currencies.
func NewNormalizer(rates RateGetter, currencies Currencies, log zerolog.Logger) *Normalizer {
	return &Normalizer{
		rates:      rates,
		currencies: currencies,
		log:        log.With().Str("component", "normalizer").Logger(),
	}
}

// Normalize returns a copy of records with every amount converted to target
// and rounded to 2 decimals. Order and multiplicity are preserved, records
// already in target are returned as is.
//
// Records are grouped by currency and each group uses a single rate series
// covering its dates. If any group cannot be converted, no record is returned.
func (n *Normalizer) Normalize(ctx context.Context, records []ValuedRecord, target string, policy RatePolicy) ([]ValuedRecord, error) {
	if err := n.currencies.Validate(target, "target currency"); err != nil {
		return nil, err
	}
	out := slices.Clone(records)

	groups := groupByCurrency(records)
	for _, cur := range slices.Sorted(maps.Keys(groups)) {
		indexes := groups[cur]
		if cur == target {
			continue
		}
		if err := n.currencies.Validate(cur, "records"); err != nil {
			return nil, err
		}

		lo, hi := records[indexes[0]].Date, records[indexes[0]].Date
		for _, i := range indexes {
			lo, hi = date.Min(lo, records[i].Date), date.Max(hi, records[i].Date)
		}
		pair := Pair{From: cur, To: target}
		series, err := n.rates.GetRates(ctx, pair, lo, hi)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %d %s records to %s: %w", len(indexes), cur, target, err)
		}
		_, latest := series.Latest()

		for _, i := range indexes {
			rate := latest
			if policy == AtDate {
				var ok bool
				if rate, ok = series.Rate(records[i].Date); !ok {
					return nil, unavailable(pair.Ticker(), date.Range{From: lo, To: hi}, fmt.Errorf("no rate on %s", records[i].Date))
				}
			}
			out[i].Currency = target
			out[i].Amount = records[i].Amount.Mul(rate).RoundBank(2)
		}
		n.log.Debug().Str("from", cur).Str("to", target).Str("policy", policy.String()).Int("records", len(indexes)).Msg("converted")
	}
	return out, nil
}

// NormalizeByCategory converts records to target using CurrentRate for the
// taxonomy's current rate categories and AtDate for all the others.
func (n *Normalizer) NormalizeByCategory(ctx context.Context, records []ValuedRecord, target string, tax Taxonomy) ([]ValuedRecord, error) {
	var current, atDate []int
	for i, r := range records {
		if tax.UsesCurrentRate(r.Category) {
			current = append(current, i)
		} else {
			atDate = append(atDate, i)
		}
	}

	out := make([]ValuedRecord, len(records))
	for _, part := range []struct {
		indexes []int
		policy  RatePolicy
	}{{current, CurrentRate}, {atDate, AtDate}} {
		if len(part.indexes) == 0 {
			continue
		}
		subset := make([]ValuedRecord, len(part.indexes))
		for j, i := range part.indexes {
			subset[j] = records[i]
		}
		converted, err := n.Normalize(ctx, subset, target, part.policy)
		if err != nil {
			return nil, err
		}
		for j, i := range part.indexes {
			out[i] = converted[j]
		}
	}
	return out, nil
}

// groupByCurrency returns the record indexes of each currency.
func groupByCurrency(records []ValuedRecord) map[string][]int {
	groups := make(map[string][]int)
	for i, r := range records {
		groups[r.Currency] = append(groups[r.Currency], i)
	}
	return groups
}
