// Package yahoo fetches daily rates and current quotes from Yahoo Finance.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
	"golang.org/x/time/rate"
)

// ErrNoData is returned when Yahoo has no quote for the ticker.
var ErrNoData = errors.New("yahoo: no data")

// bar is a daily quote.
type bar struct {
	Date  time.Time
	Close float64
}

// quote is the current price of a ticker, with its fallbacks.
type quote struct {
	Regular, PreMarket, PostMarket float64
	Current, PreviousClose         float64
}

// backend performs the actual Yahoo calls.
type backend interface {
	history(symbol, period string) ([]bar, error)
	quote(symbol string) (quote, error)
}

// Source implements finrep.RateSource and finrep.PriceSource.
type Source struct {
	backend backend
	limiter *rate.Limiter
	today   func() date.Date
	log     zerolog.Logger
}

// New returns a Source using go-yfinance, at most 2 requests per second.
func New(log zerolog.Logger) *Source {
	return &Source{
		backend: yfinance{},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 5),
		today:   date.Today,
		log:     log.With().Str("client", "yahoo").Logger(),
	}
}

func (s *Source) Name() string { return "yahoo" }

// period returns the shortest Yahoo period reaching back to from.
func period(from, today date.Date) string {
	days := from.DaysTo(today)
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 2*365:
		return "2y"
	case days <= 5*365:
		return "5y"
	case days <= 10*365:
		return "10y"
	default:
		return "max"
	}
}

// History returns the daily closes of ticker inside window.
func (s *Source) History(ctx context.Context, ticker string, window date.Range) (*date.History[decimal.Decimal], error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	p := period(window.From, s.today())
	bars, err := s.backend.history(ticker, p)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s history: %w", ticker, err)
	}

	h := new(date.History[decimal.Decimal])
	for _, b := range bars {
		day := date.FromTime(b.Date)
		if !window.Contains(day) || b.Close <= 0 {
			continue
		}
		h.Append(day, decimal.NewFromFloat(b.Close))
	}
	s.log.Debug().Str("ticker", ticker).Str("period", p).Int("bars", len(bars)).Int("kept", h.Len()).Msg("history")
	if h.Len() == 0 {
		return h, fmt.Errorf("%w for %s in %s", ErrNoData, ticker, window)
	}
	return h, nil
}

// Price returns the current price of inst: the regular market price, then
// the pre and post market prices, then the current and previous close prices.
func (s *Source) Price(ctx context.Context, inst finrep.Instrument) (decimal.Decimal, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return decimal.Zero, err
	}
	symbol := inst.Ticker()
	q, err := s.backend.quote(symbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get %s quote: %w", symbol, err)
	}
	for _, p := range []float64{q.Regular, q.PreMarket, q.PostMarket, q.Current, q.PreviousClose} {
		if p > 0 {
			return decimal.NewFromFloat(p), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %w for %s", finrep.ErrNoPrice, ErrNoData, symbol)
}

// yfinance is the backend on go-yfinance.
type yfinance struct{}

func (yfinance) history(symbol, period string) ([]bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, err
	}
	out := make([]bar, 0, len(bars))
	for _, b := range bars {
		out = append(out, bar{Date: b.Date, Close: b.Close})
	}
	return out, nil
}

func (yfinance) quote(symbol string) (quote, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return quote{}, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	var q quote
	// Quote is faster, Info is the fallback
	if rq, err := t.Quote(); err == nil && rq != nil {
		q.Regular, q.PreMarket, q.PostMarket = rq.RegularMarketPrice, rq.PreMarketPrice, rq.PostMarketPrice
	}
	if q.Regular > 0 {
		return q, nil
	}
	info, err := t.Info()
	if err != nil {
		if q.PreMarket > 0 || q.PostMarket > 0 {
			return q, nil
		}
		return quote{}, err
	}
	if info != nil {
		q.Current, q.PreviousClose = info.CurrentPrice, info.RegularMarketPreviousClose
	}
	return q, nil
}
