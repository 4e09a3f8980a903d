// Package eodhd fetches end of day prices and forex rates from the EODHD REST
// API (https://eodhd.com).
//
// Responses are cached on disk for the day, so that repeated runs cost a
// single API call per request.
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com/api"

// ErrNoData is returned when EODHD has no quote for the ticker.
var ErrNoData = errors.New("eodhd: no data")

// Client implements finrep.RateSource and finrep.PriceSource.
type Client struct {
	BaseURL  string
	Exchange string // appended to symbols without one, "US" by default

	apiKey string
	http   *http.Client
	today  func() date.Date
	log    zerolog.Logger
}

// New returns a client caching responses in cacheDir (os.TempDir() if empty).
func New(apiKey, cacheDir string, log zerolog.Logger) *Client {
	log = log.With().Str("client", "eodhd").Logger()
	return &Client{
		BaseURL:  DefaultBaseURL,
		Exchange: "US",
		apiKey:   apiKey,
		http:     newCachingClient(cacheDir, date.Daily, log),
		today:    date.Today,
		log:      log,
	}
}

func (c *Client) Name() string { return "eodhd" }

// symbol returns the EODHD ticker for a finrep ticker: FX pairs become
// "{FROM}{TO}.FOREX", symbols get the default exchange.
func (c *Client) symbol(ticker string) (symbol string, forex bool) {
	if p, ok := finrep.ParseFXTicker(ticker); ok {
		return p.From + p.To + ".FOREX", true
	}
	if strings.Contains(ticker, ".") {
		return ticker, false
	}
	return ticker + "." + c.Exchange, false
}

type eod struct {
	Date  date.Date       `json:"date"`
	Open  decimal.Decimal `json:"open"`
	Close decimal.Decimal `json:"close"`
}

func (c *Client) eod(ctx context.Context, symbol string, from, to date.Date) ([]eod, error) {
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", c.BaseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey), from, to)
	content := make([]eod, 0)
	if err := jwget(ctx, c.http, addr, &content); err != nil {
		return nil, fmt.Errorf("failed to get %s prices: %w", symbol, err)
	}
	return content, nil
}

// History returns the daily rates of ticker in window.
//
// EODHD forex close values are mostly equal to the open. The open of the next
// day is closer to the truth, so forex days are shifted by one.
func (c *Client) History(ctx context.Context, ticker string, window date.Range) (*date.History[decimal.Decimal], error) {
	symbol, forex := c.symbol(ticker)
	h := new(date.History[decimal.Decimal])

	if forex {
		content, err := c.eod(ctx, symbol, window.From.Add(1), window.To.Add(1))
		if err != nil {
			return nil, err
		}
		for _, e := range content {
			if day := e.Date.Add(-1); window.Contains(day) && e.Open.IsPositive() {
				h.Append(day, e.Open)
			}
		}
	} else {
		content, err := c.eod(ctx, symbol, window.From, window.To)
		if err != nil {
			return nil, err
		}
		for _, e := range content {
			if window.Contains(e.Date) && e.Close.IsPositive() {
				h.Append(e.Date, e.Close)
			}
		}
	}
	c.log.Debug().Str("ticker", ticker).Str("symbol", symbol).Int("days", h.Len()).Msg("history")
	if h.Len() == 0 {
		return h, fmt.Errorf("%w for %s in %s", ErrNoData, symbol, window)
	}
	return h, nil
}

// Price returns the latest known price of inst within the last week.
func (c *Client) Price(ctx context.Context, inst finrep.Instrument) (decimal.Decimal, error) {
	today := c.today()
	h, err := c.History(ctx, inst.Ticker(), date.Range{From: today.Add(-7), To: today})
	if errors.Is(err, ErrNoData) {
		return decimal.Zero, fmt.Errorf("%w: %w", finrep.ErrNoPrice, err)
	}
	if err != nil {
		return decimal.Zero, err
	}
	_, price := h.Latest()
	return price, nil
}
