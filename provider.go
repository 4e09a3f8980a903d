package finrep

import (
	"context"
	"fmt"
	"sync"

	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBufferDays is how many days before the requested range are fetched,
// so that the first requested days can be interpolated from a real quote.
const DefaultBufferDays = 5

// RateSource fetches raw daily quotes for a ticker. The returned history may
// have gaps (weekends, holidays) and may be empty.
type RateSource interface {
	History(ctx context.Context, ticker string, window date.Range) (*date.History[decimal.Decimal], error)
}

// RateCache persists the series known so far, keyed by ticker.
type RateCache interface {
	// Load returns the stored history, or an empty one if there is none.
	Load(ctx context.Context, ticker string) (*date.History[decimal.Decimal], error)
	// Save replaces the stored history.
	Save(ctx context.Context, ticker string, h *date.History[decimal.Decimal]) error
}

// RateProvider serves dense daily rate series, backed by an upstream
// RateSource and an optional persistent RateCache.
//
// The cached series of a ticker only grows: fetched values overwrite the cached
// ones on the fetched window, values outside of it are kept. Days filled after
// the last real quote are served but not cached while they are less than
// BufferDays old, so that a quote published later is fetched.
type RateProvider struct {
	BufferDays int

	today  func() date.Date
	source RateSource
	cache  RateCache // nil for no persistence
	log    zerolog.Logger

	mu     sync.Mutex
	series map[string]RateSeries // in memory copy of the cache, by ticker
}

// NewRateProvider returns a provider fetching from source and persisting in cache.
// cache can be nil.
func NewRateProvider(source RateSource, cache RateCache, log zerolog.Logger) *RateProvider {
	return &RateProvider{
		BufferDays: DefaultBufferDays,
		today:      date.Today,
		source:     source,
		cache:      cache,
		log:        log.With().Str("component", "rates").Logger(),
		series:     make(map[string]RateSeries),
	}
}

// GetRates returns the rates of pair for every day in [min, max].
//
// When the upstream has no data for the pair, the series is synthesized through
// the bridge currency. Errors match ErrDataUnavailable when no series can be built.
func (p *RateProvider) GetRates(ctx context.Context, pair Pair, min, max date.Date) (RateSeries, error) {
	if max.Before(min) {
		return RateSeries{}, fmt.Errorf("invalid range: %s is after %s", min, max)
	}
	r := date.Range{From: min, To: max}
	if pair.IsIdentity() {
		return IdentitySeries(pair, r), nil
	}
	return p.get(ctx, pair.Ticker(), r, true)
}

// GetSeries is like GetRates for any upstream ticker. Only tickers following
// the "{FROM}{TO}=X" convention fall back to cross rates.
func (p *RateProvider) GetSeries(ctx context.Context, ticker string, min, max date.Date) (RateSeries, error) {
	if max.Before(min) {
		return RateSeries{}, fmt.Errorf("invalid range: %s is after %s", min, max)
	}
	return p.get(ctx, ticker, date.Range{From: min, To: max}, true)
}

// Latest returns the rate of pair on the given day.
func (p *RateProvider) Latest(ctx context.Context, pair Pair, on date.Date) (decimal.Decimal, error) {
	s, err := p.GetRates(ctx, pair, on, on)
	if err != nil {
		return decimal.Zero, err
	}
	_, v := s.Latest()
	return v, nil
}

// CrossRate synthesizes from→to as the product of from→USD and USD→to over [min, max].
// A missing leg is never itself synthesized.
func (p *RateProvider) CrossRate(ctx context.Context, from, to string, min, max date.Date) (RateSeries, error) {
	if max.Before(min) {
		return RateSeries{}, fmt.Errorf("invalid range: %s is after %s", min, max)
	}
	return p.crossRate(ctx, Pair{From: from, To: to}, date.Range{From: min, To: max})
}

func (p *RateProvider) crossRate(ctx context.Context, pair Pair, r date.Range) (RateSeries, error) {
	if pair.IsIdentity() {
		return IdentitySeries(pair, r), nil
	}
	toBridge, err := p.leg(ctx, Pair{From: pair.From, To: BridgeCurrency}, r)
	if err != nil {
		return RateSeries{}, unavailable(pair.Ticker(), r, err)
	}
	fromBridge, err := p.leg(ctx, Pair{From: BridgeCurrency, To: pair.To}, r)
	if err != nil {
		return RateSeries{}, unavailable(pair.Ticker(), r, err)
	}
	return toBridge.Mul(fromBridge, pair), nil
}

func (p *RateProvider) leg(ctx context.Context, pair Pair, r date.Range) (RateSeries, error) {
	if pair.IsIdentity() {
		return IdentitySeries(pair, r), nil
	}
	return p.get(ctx, pair.Ticker(), r, false)
}

// get serves r from the cached series of ticker, or fetches and caches a
// buffered window around it.
func (p *RateProvider) get(ctx context.Context, ticker string, r date.Range, crossFallback bool) (RateSeries, error) {
	log := p.log.With().Str("ticker", ticker).Str("range", r.String()).Logger()

	cached, err := p.cached(ctx, ticker)
	if err != nil {
		return RateSeries{}, err
	}
	if cached.IsDense(r) {
		log.Debug().Msg("rates served from cache")
		return cached.Within(r), nil
	}

	window := date.Range{From: r.From.Add(-p.BufferDays), To: r.To}
	log.Info().Str("window", window.String()).Msg("fetching rates")
	fresh, lastQuote, err := p.fetch(ctx, ticker, window)
	if err != nil {
		pair, isFX := ParseFXTicker(ticker)
		if !crossFallback || !isFX {
			return RateSeries{}, err
		}
		log.Warn().Err(err).Str("bridge", BridgeCurrency).Msg("no direct rates, using cross rates")
		fresh, err = p.crossRate(ctx, pair, window)
		if err != nil {
			return RateSeries{}, err
		}
		lastQuote = p.crossLastQuote(ctx, pair, window)
	}

	kept := cached.Merge(p.settled(fresh, lastQuote))
	p.mu.Lock()
	p.series[ticker] = kept
	p.mu.Unlock()
	if p.cache != nil {
		if err := p.cache.Save(ctx, ticker, kept.history()); err != nil {
			log.Error().Err(err).Msg("cannot persist rates (ignored)")
		}
	}
	return cached.Merge(fresh).Within(r), nil
}

// settled drops from fresh the days after lastQuote that may still get a quote.
func (p *RateProvider) settled(fresh RateSeries, lastQuote date.Date) RateSeries {
	provisional := date.Max(lastQuote.Add(1), p.today().Add(-p.BufferDays))
	span := fresh.Span()
	if provisional.After(span.To) {
		return fresh
	}
	return fresh.Within(date.Range{From: span.From, To: provisional.Add(-1)})
}

// crossLastQuote returns the last settled day shared by the legs of pair.
func (p *RateProvider) crossLastQuote(ctx context.Context, pair Pair, window date.Range) date.Date {
	last := window.To
	for _, leg := range []Pair{{From: pair.From, To: BridgeCurrency}, {From: BridgeCurrency, To: pair.To}} {
		if leg.IsIdentity() {
			continue
		}
		s, err := p.cached(ctx, leg.Ticker())
		if err != nil {
			return window.From.Add(-1)
		}
		day, _ := s.Latest()
		last = date.Min(last, day)
	}
	return last
}

// fetch retrieves ticker's quotes on window and densifies them. It also
// returns the day of the last real quote.
func (p *RateProvider) fetch(ctx context.Context, ticker string, window date.Range) (RateSeries, date.Date, error) {
	pair, _ := ParseFXTicker(ticker)
	h, err := p.source.History(ctx, ticker, window)
	if err != nil {
		return RateSeries{}, date.Date{}, unavailable(ticker, window, err)
	}
	dense, err := Densify(RateSeries{Pair: pair, rates: h}, window)
	if err != nil {
		return RateSeries{}, date.Date{}, unavailable(ticker, window, nil)
	}
	lastQuote, _ := h.Within(window).Latest()
	return dense, lastQuote, nil
}

// cached returns the in memory series of ticker, loading it from the cache the first time.
func (p *RateProvider) cached(ctx context.Context, ticker string) (RateSeries, error) {
	p.mu.Lock()
	s, ok := p.series[ticker]
	p.mu.Unlock()
	if ok {
		return s, nil
	}

	pair, _ := ParseFXTicker(ticker)
	s = NewRateSeries(pair)
	if p.cache != nil {
		h, err := p.cache.Load(ctx, ticker)
		if err != nil {
			return RateSeries{}, fmt.Errorf("cannot load cached rates for %s: %w", ticker, err)
		}
		if h != nil {
			s.rates = h
		}
	}
	p.mu.Lock()
	p.series[ticker] = s
	p.mu.Unlock()
	return s, nil
}
