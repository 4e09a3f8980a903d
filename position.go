package finrep

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PositionResult is the mark to market of the remaining lots of an instrument.
//
// CurrentPrice, UnrealizedPnl and ReturnPct are nil when no price is known.
type PositionResult struct {
	Instrument    string
	Class         AssetClass
	Quantity      Quantity
	CostBasis     Money
	AverageCost   Money
	CurrentPrice  *Money
	UnrealizedPnl *Money
	ReturnPct     *decimal.Decimal // rounded to 0.1%
}

// Valuate aggregates lots per instrument and values them at prices, keyed by
// instrument. The result is sorted by instrument.
func Valuate(lots []Lot, prices map[string]Money) []PositionResult {
	index := make(map[string]int)
	var positions []PositionResult
	for _, l := range lots {
		i, ok := index[l.Instrument]
		if !ok {
			i = len(positions)
			index[l.Instrument] = i
			positions = append(positions, PositionResult{
				Instrument: l.Instrument,
				Class:      l.Class,
				CostBasis:  M(0, l.UnitPrice.Currency()),
			})
		}
		p := &positions[i]
		p.Quantity = p.Quantity.Add(l.Quantity)
		p.CostBasis = p.CostBasis.Add(l.Cost())
	}

	for i := range positions {
		p := &positions[i]
		if !p.Quantity.IsZero() {
			p.AverageCost = p.CostBasis.Div(p.Quantity)
		}
		price, ok := prices[p.Instrument]
		if !ok {
			continue
		}
		value := price.Mul(p.Quantity)
		pnl := value.Sub(p.CostBasis)
		p.CurrentPrice = &price
		p.UnrealizedPnl = &pnl
		if !p.CostBasis.IsZero() {
			pct := pnl.Ratio(p.CostBasis).RoundBank(3).Mul(decimal.NewFromInt(100))
			p.ReturnPct = &pct
		}
	}

	slices.SortFunc(positions, func(a, b PositionResult) int { return cmp.Compare(a.Instrument, b.Instrument) })
	return positions
}

// ErrNoPrice is returned by a PriceSource that does not know the instrument.
var ErrNoPrice = errors.New("no price")

// Instrument identifies what a PriceSource is asked to price.
type Instrument struct {
	Symbol   string
	Class    AssetClass
	Currency string // the price currency
}

// Ticker returns the quote symbol: "{SYMBOL}{CURRENCY}=X" for currencies, the
// symbol itself otherwise.
func (i Instrument) Ticker() string {
	if i.Class == Currency {
		return Pair{From: i.Symbol, To: i.Currency}.Ticker()
	}
	return i.Symbol
}

// PriceSource returns the current unit price of an instrument, in the
// instrument's currency.
type PriceSource interface {
	Name() string
	Price(ctx context.Context, inst Instrument) (decimal.Decimal, error)
}

// Valuator resolves current prices through an ordered list of sources, and
// values positions with them.
type Valuator struct {
	sources []PriceSource
	log     zerolog.Logger
}

// NewValuator returns a Valuator querying sources in order.
func NewValuator(log zerolog.Logger, sources ...PriceSource) *Valuator {
	return &Valuator{
		sources: sources,
		log:     log.With().Str("component", "valuator").Logger(),
	}
}

// Price returns the price of inst from the first source that knows it.
func (v *Valuator) Price(ctx context.Context, inst Instrument) (Money, error) {
	var errs []error
	for _, src := range v.sources {
		price, err := src.Price(ctx, inst)
		if err == nil && price.IsPositive() {
			v.log.Debug().Str("instrument", inst.Symbol).Str("source", src.Name()).Str("price", price.String()).Msg("price found")
			return M(price, inst.Currency), nil
		}
		if err == nil {
			err = fmt.Errorf("%s: invalid price %s", src.Name(), price)
		}
		if !errors.Is(err, ErrNoPrice) {
			v.log.Warn().Err(err).Str("instrument", inst.Symbol).Str("source", src.Name()).Msg("price source failed")
		}
		errs = append(errs, err)
	}
	return Money{}, fmt.Errorf("no price for %s: %w", inst.Ticker(), errors.Join(errs...))
}

// Prices returns the current price of every instrument held in lots. Instruments
// without a price are missing from the map.
func (v *Valuator) Prices(ctx context.Context, lots []Lot) map[string]Money {
	prices := make(map[string]Money)
	seen := make(map[string]bool)
	for _, l := range lots {
		if seen[l.Instrument] {
			continue
		}
		seen[l.Instrument] = true
		price, err := v.Price(ctx, Instrument{Symbol: l.Instrument, Class: l.Class, Currency: l.UnitPrice.Currency()})
		if err != nil {
			v.log.Warn().Err(err).Str("instrument", l.Instrument).Msg("position left unvalued")
			continue
		}
		prices[l.Instrument] = price
	}
	return prices
}

// Valuate prices lots and values them.
func (v *Valuator) Valuate(ctx context.Context, lots []Lot) []PositionResult {
	return Valuate(lots, v.Prices(ctx, lots))
}

// RatePrices prices currency lots with the provider's rate of the day.
type RatePrices struct {
	Provider *RateProvider
	Today    func() date.Date // defaults to date.Today
}

func (r RatePrices) Name() string { return "rates" }

func (r RatePrices) Price(ctx context.Context, inst Instrument) (decimal.Decimal, error) {
	if inst.Class != Currency {
		return decimal.Zero, ErrNoPrice
	}
	today := date.Today
	if r.Today != nil {
		today = r.Today
	}
	return r.Provider.Latest(ctx, Pair{From: inst.Symbol, To: inst.Currency}, today())
}
