// Package moex prices instruments traded on the Moscow Exchange, from the ISS
// board snapshots (https://iss.moex.com).
package moex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/finrep"
	"github.com/etnz/finrep/date"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the ISS API root.
const DefaultBaseURL = "https://iss.moex.com/iss"

// Board is a trading board of the exchange.
type Board struct {
	Engine, Market, Name string
}

func (b Board) String() string { return b.Engine + "/" + b.Market + "/" + b.Name }

var (
	Shares = Board{"stock", "shares", "TQBR"}
	ETF    = Board{"stock", "shares", "TQTF"}
	// Bonds are quoted in percent of their face value.
	Bonds = Board{"stock", "bonds", "TQOB"}
)

// Quote is the last admitted price of a security.
type Quote struct {
	SecID string
	Date  date.Date
	Price decimal.Decimal
}

// Client implements finrep.PriceSource.
type Client struct {
	BaseURL string
	Boards  []Board // searched in order

	http    *http.Client
	cache   *cache.Cache
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New returns a client searching shares then ETFs. Board snapshots are kept
// for 15 minutes.
func New(log zerolog.Logger) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		Boards:  []Board{Shares, ETF},
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache.New(15*time.Minute, 30*time.Minute),
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 30),
		log:     log.With().Str("client", "moex").Logger(),
	}
}

func (c *Client) Name() string { return "moex" }

// Price returns the last admitted price of a RUB instrument.
func (c *Client) Price(ctx context.Context, inst finrep.Instrument) (decimal.Decimal, error) {
	if inst.Class == finrep.Currency || inst.Currency != "RUB" {
		return decimal.Zero, finrep.ErrNoPrice
	}
	var errs []error
	for _, b := range c.Boards {
		quotes, err := c.Snapshot(ctx, b)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if q, ok := quotes[inst.Symbol]; ok {
			return q.Price, nil
		}
	}
	if len(errs) > 0 {
		return decimal.Zero, errors.Join(errs...)
	}
	return decimal.Zero, fmt.Errorf("%w: %s is not traded on %v", finrep.ErrNoPrice, inst.Symbol, c.Boards)
}

// Snapshot returns the quotes of every security of the board, by SECID.
// Securities without an admitted quote are omitted.
func (c *Client) Snapshot(ctx context.Context, b Board) (map[string]Quote, error) {
	key := b.String()
	if v, ok := c.cache.Get(key); ok {
		return v.(map[string]Quote), nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	addr := fmt.Sprintf("%s/engines/%s/markets/%s/boards/%s/securities.json?iss.meta=off&iss.only=securities&securities.columns=PREVDATE,SECID,PREVADMITTEDQUOTE",
		c.BaseURL, b.Engine, b.Market, b.Name)
	var jobj any
	if err := c.get(ctx, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error retrieving board %s: %w", b, err)
	}
	quotes, err := parseSecurities(jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing board %s: %w", b, err)
	}
	c.log.Debug().Str("board", key).Int("quotes", len(quotes)).Msg("snapshot")
	c.cache.Set(key, quotes, cache.DefaultExpiration)
	return quotes, nil
}

// parseSecurities reads the ISS tabular format:
//
//	{"securities": {"columns": ["PREVDATE", "SECID", "PREVADMITTEDQUOTE"], "data": [["2025-01-09", "SBER", 270.5], ...]}}
func parseSecurities(jobj any) (map[string]Quote, error) {
	jcols, err := jsonpath.Get("$.securities.columns", jobj)
	if err != nil {
		return nil, err
	}
	jrows, err := jsonpath.Get("$.securities.data", jobj)
	if err != nil {
		return nil, err
	}
	cols, ok := jcols.([]any)
	if !ok {
		return nil, fmt.Errorf("columns is not a list: %v", jcols)
	}
	rows, ok := jrows.([]any)
	if !ok {
		return nil, fmt.Errorf("data is not a list: %v", jrows)
	}

	index := make(map[string]int)
	for i, c := range cols {
		if name, ok := c.(string); ok {
			index[name] = i
		}
	}
	iDate, okDate := index["PREVDATE"]
	iID, okID := index["SECID"]
	iPrice, okPrice := index["PREVADMITTEDQUOTE"]
	if !okDate || !okID || !okPrice {
		return nil, fmt.Errorf("missing columns in %v", cols)
	}

	quotes := make(map[string]Quote, len(rows))
	for _, r := range rows {
		row, ok := r.([]any)
		if !ok || len(row) != len(cols) {
			return nil, fmt.Errorf("invalid row %v", r)
		}
		id, _ := row[iID].(string)
		price, _ := row[iPrice].(float64) // null when not admitted
		if id == "" || price <= 0 {
			continue
		}
		q := Quote{SecID: id, Price: decimal.NewFromFloat(price)}
		if s, ok := row[iDate].(string); ok {
			if q.Date, err = date.Parse(s); err != nil {
				return nil, fmt.Errorf("invalid PREVDATE for %s: %w", id, err)
			}
		}
		quotes[id] = q
	}
	return quotes, nil
}

func (c *Client) get(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug().Str("path", req.URL.Path).Str("status", resp.Status).Msg("http")
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(data)
}
