package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/etnz/finrep"
	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	_ finrep.RateSource  = (*Client)(nil)
	_ finrep.PriceSource = (*Client)(nil)
)

// newTestClient serves bodies by path and counts the calls.
func newTestClient(t *testing.T, bodies map[string]string) (*Client, func(path string) int) {
	t.Helper()
	var mu sync.Mutex
	calls := make(map[string]int)
	count := func(path string) int {
		mu.Lock()
		defer mu.Unlock()
		return calls[path]
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls[r.URL.Path]++
		mu.Unlock()
		if r.URL.Query().Get("api_token") != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	c := New("secret", t.TempDir(), zerolog.Nop())
	c.BaseURL = srv.URL
	c.today = func() date.Date { return date.MustParse("2025-01-10") }
	return c, count
}

func TestClient_History_Forex(t *testing.T) {
	c, count := newTestClient(t, map[string]string{
		"/eod/USDRUB.FOREX": `[
			{"date":"2025-01-07","open":90.1,"close":90.1},
			{"date":"2025-01-08","open":90.2,"close":90.2},
			{"date":"2025-01-09","open":90.3,"close":90.3}
		]`,
	})

	h, err := c.History(context.Background(), "USDRUB=X", date.Range{From: date.MustParse("2025-01-06"), To: date.MustParse("2025-01-08")})
	if err != nil {
		t.Fatalf("History() unexpected error: %v", err)
	}
	if h.Len() != 3 {
		t.Fatalf("History().Len() = %v want 3", h.Len())
	}
	// next day's open
	if v, _ := h.Get(date.MustParse("2025-01-06")); !v.Equal(decimal.RequireFromString("90.1")) {
		t.Errorf("History().Get(2025-01-06) = %v want 90.1", v)
	}
	if got := count("/eod/USDRUB.FOREX"); got != 1 {
		t.Errorf("calls = %v want 1", got)
	}
}

func TestClient_History_DiskCache(t *testing.T) {
	c, count := newTestClient(t, map[string]string{
		"/eod/AAPL.US": `[{"date":"2025-01-06","open":240,"close":245.5}]`,
	})
	window := date.Range{From: date.MustParse("2025-01-06"), To: date.MustParse("2025-01-06")}

	for range 2 {
		h, err := c.History(context.Background(), "AAPL", window)
		if err != nil {
			t.Fatalf("History() unexpected error: %v", err)
		}
		if v, _ := h.Get(window.From); !v.Equal(decimal.RequireFromString("245.5")) {
			t.Errorf("History().Get() = %v want 245.5", v)
		}
	}
	if got := count("/eod/AAPL.US"); got != 1 {
		t.Errorf("calls = %v want a single call", got)
	}
}

func TestClient_History_NoData(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"/eod/KZTRUB.FOREX": `[]`})
	_, err := c.History(context.Background(), "KZTRUB=X", date.Range{From: date.MustParse("2025-01-06"), To: date.MustParse("2025-01-08")})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("History() error = %v want ErrNoData", err)
	}
}

func TestClient_History_HTTPError(t *testing.T) {
	c, _ := newTestClient(t, nil)
	c.apiKey = "wrong"
	_, err := c.History(context.Background(), "SBER.MCX", date.Range{From: date.MustParse("2025-01-06"), To: date.MustParse("2025-01-08")})
	if err == nil || errors.Is(err, ErrNoData) {
		t.Errorf("History() error = %v want an http error", err)
	}
}

func TestClient_Price(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/eod/VWCE.XETRA": `[
			{"date":"2025-01-08","open":120,"close":121},
			{"date":"2025-01-09","open":121,"close":122.4}
		]`,
	})
	got, err := c.Price(context.Background(), finrep.Instrument{Symbol: "VWCE.XETRA", Class: finrep.Fund, Currency: "EUR"})
	if err != nil {
		t.Fatalf("Price() unexpected error: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("122.4")) {
		t.Errorf("Price() = %v want 122.4", got)
	}
}

func TestClient_Price_Unknown(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"/eod/MSFT.US": `[]`})
	_, err := c.Price(context.Background(), finrep.Instrument{Symbol: "MSFT", Currency: "USD"})
	if !errors.Is(err, finrep.ErrNoPrice) {
		t.Errorf("Price() error = %v want ErrNoPrice", err)
	}
}

func TestClient_Search(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/search/apple": `[{"Code":"AAPL","Exchange":"US","Name":"Apple Inc","Currency":"USD","ISIN":"US0378331005","previousClose":245.5,"previousCloseDate":"2025-01-09"}]`,
	})
	results, err := c.Search(context.Background(), "apple")
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Ticker() != "AAPL.US" {
		t.Errorf("Search() = %+v want AAPL.US", results)
	}
}
