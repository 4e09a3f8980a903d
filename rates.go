package finrep

import (
	"iter"

	"github.com/etnz/finrep/date"
	"github.com/shopspring/decimal"
)

// RateSeries is a daily series of exchange rates for a Pair.
//
// A series returned by the RateProvider is dense: it has one value for every
// calendar day of the requested range.
type RateSeries struct {
	Pair  Pair
	rates *date.History[decimal.Decimal]
}

// NewRateSeries returns an empty series for pair.
func NewRateSeries(pair Pair) RateSeries {
	return RateSeries{Pair: pair, rates: new(date.History[decimal.Decimal])}
}

// IdentitySeries returns a series of 1 on every day of r.
func IdentitySeries(pair Pair, r date.Range) RateSeries {
	s := NewRateSeries(pair)
	for day := range r.Days() {
		s.rates.Append(day, decimal.NewFromInt(1))
	}
	return s
}

func (s RateSeries) history() *date.History[decimal.Decimal] {
	if s.rates == nil {
		return new(date.History[decimal.Decimal])
	}
	return s.rates
}

// Set records the rate on a day, replacing any previous one.
func (s RateSeries) Set(on date.Date, rate decimal.Decimal) RateSeries {
	if s.rates == nil {
		s.rates = new(date.History[decimal.Decimal])
	}
	s.rates.Append(on, rate)
	return s
}

func (s RateSeries) Len() int         { return s.history().Len() }
func (s RateSeries) Span() date.Range { return s.history().Span() }

// Rate returns the rate on day.
func (s RateSeries) Rate(day date.Date) (decimal.Decimal, bool) { return s.history().Get(day) }

// Latest returns the last chronological day and rate of the series.
func (s RateSeries) Latest() (date.Date, decimal.Decimal) { return s.history().Latest() }

// Values iterates over the series in chronological order.
func (s RateSeries) Values() iter.Seq2[date.Date, decimal.Decimal] { return s.history().Values() }

// IsDense reports whether the series has a value for every day of r.
func (s RateSeries) IsDense(r date.Range) bool {
	if r.IsEmpty() {
		return true
	}
	if !s.Span().Covers(r) {
		return false
	}
	return s.history().Within(r).Len() == r.Len()
}

// Within returns a copy of the series restricted to r.
func (s RateSeries) Within(r date.Range) RateSeries {
	return RateSeries{Pair: s.Pair, rates: s.history().Within(r)}
}

// Merge returns a new series with the values of s, overwritten by those of
// fresh wherever fresh has a value. Neither s nor fresh are modified.
func (s RateSeries) Merge(fresh RateSeries) RateSeries {
	merged := RateSeries{Pair: s.Pair, rates: s.history().Clone()}
	for day, v := range fresh.Values() {
		merged.rates.Append(day, v)
	}
	return merged
}

// Mul returns the pointwise product of s and o on the days they share, as a
// series for pair.
func (s RateSeries) Mul(o RateSeries, pair Pair) RateSeries {
	product := NewRateSeries(pair)
	for day, a := range s.Values() {
		if b, ok := o.Rate(day); ok {
			product.rates.Append(day, a.Mul(b))
		}
	}
	return product
}

// Densify fills every day of window using the known rates inside window.
//
// Days between two known rates are linearly interpolated, days before the
// first (after the last) known rate take the first (last) rate.
// It fails with a DataUnavailableError if no rate is known in window.
func Densify(known RateSeries, window date.Range) (RateSeries, error) {
	points := known.Within(window)
	if points.Len() == 0 {
		return RateSeries{}, unavailable(known.Pair.Ticker(), window, nil)
	}

	type point struct {
		day  date.Date
		rate decimal.Decimal
	}
	var pts []point
	for day, v := range points.Values() {
		pts = append(pts, point{day, v})
	}

	dense := NewRateSeries(known.Pair)
	next := 0 // index of the first known point on or after the current day
	for day := range window.Days() {
		for next < len(pts) && pts[next].day.Before(day) {
			next++
		}
		switch {
		case next < len(pts) && pts[next].day == day:
			dense.rates.Append(day, pts[next].rate)
		case next == 0:
			dense.rates.Append(day, pts[0].rate)
		case next == len(pts):
			dense.rates.Append(day, pts[len(pts)-1].rate)
		default:
			prev, after := pts[next-1], pts[next]
			span := decimal.NewFromInt(int64(prev.day.DaysTo(after.day)))
			elapsed := decimal.NewFromInt(int64(prev.day.DaysTo(day)))
			v := prev.rate.Add(after.rate.Sub(prev.rate).Mul(elapsed).Div(span))
			dense.rates.Append(day, v)
		}
	}
	return dense, nil
}
