package finrep

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/finrep/date"
)

// AssetClass is the kind of instrument a lot holds.
type AssetClass int

// The zero AssetClass is Equity.
const (
	Equity AssetClass = iota
	Fund
	Currency
)

func (c AssetClass) String() string {
	switch c {
	case Currency:
		return "currency"
	case Equity:
		return "equity"
	case Fund:
		return "fund"
	default:
		return fmt.Sprintf("AssetClass(%d)", int(c))
	}
}

// ParseAssetClass parses the name of an asset class.
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "currency", "fx":
		return Currency, nil
	case "equity", "stock", "share":
		return Equity, nil
	case "fund", "etf":
		return Fund, nil
	default:
		return Equity, fmt.Errorf("unknown asset class %q", s)
	}
}

func (c AssetClass) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *AssetClass) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseAssetClass(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Lot is a quantity of an instrument bought on a given day at a unit price.
type Lot struct {
	Instrument string
	Class      AssetClass
	TradeDate  date.Date
	Quantity   Quantity
	UnitPrice  Money
}

// Cost returns the total price paid for the lot.
func (l Lot) Cost() Money { return l.UnitPrice.Mul(l.Quantity) }

// SaleRequest asks to sell a quantity of an instrument on a given day.
type SaleRequest struct {
	Instrument string
	SaleDate   date.Date
	Quantity   Quantity
	UnitPrice  Money
}

// Proceeds returns the gross amount of the sale.
func (s SaleRequest) Proceeds() Money { return s.UnitPrice.Mul(s.Quantity) }

// SaleEvent is a sale matched against the lots it consumed.
type SaleEvent struct {
	Instrument  string
	SaleDate    date.Date
	Quantity    Quantity
	UnitPrice   Money
	CostBasis   Money    // cost of the consumed lot units
	Covered     Quantity // units matched against a lot, at most Quantity
	RealizedPnl Money    // proceeds minus CostBasis
}

// FIFOResult is the outcome of MatchFIFO.
type FIFOResult struct {
	Remaining []Lot
	Sales     []SaleEvent
	Warnings  []UnderCoverage
}

// consume takes up to want units from l. It returns what is left of the lot
// (with a zero quantity when fully consumed), the units taken and their cost.
func consume(l Lot, want Quantity) (residual Lot, taken Quantity, cost Money) {
	taken = MinQ(l.Quantity, want)
	residual = l
	residual.Quantity = l.Quantity.Sub(taken)
	return residual, taken, l.UnitPrice.Mul(taken)
}

// sell matches s against active, oldest lot first, and returns a new active set.
// active must be sorted by trade date.
func sell(active []Lot, s SaleRequest) ([]Lot, SaleEvent) {
	next := make([]Lot, 0, len(active))
	remaining := s.Quantity
	cost := M(0, s.UnitPrice.Currency())

	for _, l := range active {
		if remaining.IsZero() || l.Instrument != s.Instrument || l.TradeDate.After(s.SaleDate) {
			next = append(next, l)
			continue
		}
		residual, taken, c := consume(l, remaining)
		remaining = remaining.Sub(taken)
		cost = cost.Add(c)
		if residual.Quantity.IsPositive() {
			next = append(next, residual)
		}
	}

	return next, SaleEvent{
		Instrument:  s.Instrument,
		SaleDate:    s.SaleDate,
		Quantity:    s.Quantity,
		UnitPrice:   s.UnitPrice,
		CostBasis:   cost,
		Covered:     s.Quantity.Sub(remaining),
		RealizedPnl: s.Proceeds().Sub(cost),
	}
}

// MatchFIFO matches sells, in input order, against the buy lots of the same
// instrument traded on or before the sale date, oldest first.
//
// Units sold without a matching lot have a zero cost basis and are reported as
// an UnderCoverage warning. Lots of the same instrument must share the sale's
// price currency. The inputs are not modified.
func MatchFIFO(buys []Lot, sells []SaleRequest) FIFOResult {
	active := slices.Clone(buys)
	slices.SortStableFunc(active, func(a, b Lot) int { return a.TradeDate.Compare(b.TradeDate) })

	var res FIFOResult
	for _, s := range sells {
		var ev SaleEvent
		active, ev = sell(active, s)
		res.Sales = append(res.Sales, ev)
		if ev.Covered.LessThan(ev.Quantity) {
			res.Warnings = append(res.Warnings, UnderCoverage{
				Instrument: s.Instrument,
				SaleDate:   s.SaleDate,
				Requested:  s.Quantity,
				Covered:    ev.Covered,
			})
		}
	}
	res.Remaining = active
	return res
}

// Side is the direction of a trade.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Trade is an investment journal entry.
type Trade struct {
	Date       date.Date  `json:"date"`
	Instrument string     `json:"instrument"`
	Class      AssetClass `json:"class"`
	Side       Side       `json:"side"`
	Quantity   Quantity   `json:"quantity"`
	Price      Quantity   `json:"price"` // unit price, in Currency
	Currency   string     `json:"currency"`
}

// SplitTrades validates trades and splits them into buy lots and sale requests.
// Sales are sorted by date, ties keeping the journal order.
func SplitTrades(trades []Trade, currencies Currencies) ([]Lot, []SaleRequest, error) {
	var (
		buys  []Lot
		sells []SaleRequest
	)
	priceCurrency := make(map[string]string)
	for i, t := range trades {
		where := fmt.Sprintf("trade #%d (%s %s)", i+1, t.Date, t.Instrument)
		if err := currencies.Validate(t.Currency, where); err != nil {
			return nil, nil, err
		}
		if c, ok := priceCurrency[t.Instrument]; ok && c != t.Currency {
			return nil, nil, fmt.Errorf("%s: %s is traded in %s and %s", where, t.Instrument, c, t.Currency)
		}
		priceCurrency[t.Instrument] = t.Currency
		if t.Quantity.IsNegative() {
			return nil, nil, fmt.Errorf("%s: negative quantity %s", where, t.Quantity)
		}
		price := M(t.Price.Decimal(), t.Currency)
		switch t.Side {
		case Buy:
			buys = append(buys, Lot{Instrument: t.Instrument, Class: t.Class, TradeDate: t.Date, Quantity: t.Quantity, UnitPrice: price})
		case Sell:
			sells = append(sells, SaleRequest{Instrument: t.Instrument, SaleDate: t.Date, Quantity: t.Quantity, UnitPrice: price})
		default:
			return nil, nil, fmt.Errorf("%s: unknown side %q", where, t.Side)
		}
	}
	slices.SortStableFunc(sells, func(a, b SaleRequest) int { return a.SaleDate.Compare(b.SaleDate) })
	return buys, sells, nil
}
