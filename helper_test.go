package finrep

import (
	"context"
	"errors"
	"time"

	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// RUB is a helper for test to create ruble money from const
func RUB(v float64) Money { return M(v, "RUB") }

// D parses a date, for tests.
func D(s string) date.Date { return date.MustParse(s) }

// dec is a helper for test to create decimals from const.
func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

var testCurrencies = MustCurrencies(DefaultCurrencies...)

var nop = zerolog.Nop()

var errUpstream = errors.New("upstream is down")

// fakeSource is an in memory RateSource that records its calls.
type fakeSource struct {
	quotes  map[string]*date.History[decimal.Decimal]
	fail    map[string]error
	calls   []string
	windows []date.Range
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		quotes: make(map[string]*date.History[decimal.Decimal]),
		fail:   make(map[string]error),
	}
}

// quote sets the same rate on every weekday of [from, to].
func (f *fakeSource) quote(ticker, from, to string, v float64) *fakeSource {
	h, ok := f.quotes[ticker]
	if !ok {
		h = new(date.History[decimal.Decimal])
		f.quotes[ticker] = h
	}
	for day := range (date.Range{From: D(from), To: D(to)}).Days() {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		h.Append(day, dec(v))
	}
	return f
}

// set sets a single quote.
func (f *fakeSource) set(ticker, on string, v float64) *fakeSource {
	h, ok := f.quotes[ticker]
	if !ok {
		h = new(date.History[decimal.Decimal])
		f.quotes[ticker] = h
	}
	h.Append(D(on), dec(v))
	return f
}

func (f *fakeSource) History(_ context.Context, ticker string, window date.Range) (*date.History[decimal.Decimal], error) {
	f.calls = append(f.calls, ticker)
	f.windows = append(f.windows, window)
	if err := f.fail[ticker]; err != nil {
		return nil, err
	}
	if h, ok := f.quotes[ticker]; ok {
		return h.Within(window), nil
	}
	return new(date.History[decimal.Decimal]), nil
}

func (f *fakeSource) count(ticker string) int {
	n := 0
	for _, c := range f.calls {
		if c == ticker {
			n++
		}
	}
	return n
}

// memCache is an in memory RateCache.
type memCache struct {
	stored map[string]*date.History[decimal.Decimal]
	saves  int
}

func newMemCache() *memCache {
	return &memCache{stored: make(map[string]*date.History[decimal.Decimal])}
}

func (c *memCache) Load(_ context.Context, ticker string) (*date.History[decimal.Decimal], error) {
	if h, ok := c.stored[ticker]; ok {
		return h.Clone(), nil
	}
	return new(date.History[decimal.Decimal]), nil
}

func (c *memCache) Save(_ context.Context, ticker string, h *date.History[decimal.Decimal]) error {
	c.saves++
	c.stored[ticker] = h.Clone()
	return nil
}

// fixedRates is a RateGetter returning the same rate every day, per pair.
type fixedRates map[Pair]float64

func (f fixedRates) GetRates(_ context.Context, pair Pair, min, max date.Date) (RateSeries, error) {
	v, ok := f[pair]
	if !ok {
		return RateSeries{}, unavailable(pair.Ticker(), date.Range{From: min, To: max}, nil)
	}
	s := NewRateSeries(pair)
	for day := range (date.Range{From: min, To: max}).Days() {
		s = s.Set(day, dec(v))
	}
	return s, nil
}
