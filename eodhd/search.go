package eodhd

import (
	"context"
	"fmt"
	"net/url"

	"github.com/etnz/finrep/date"
)

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string    `json:"Code"`
	Exchange          string    `json:"Exchange"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	Country           string    `json:"Country"`
	Currency          string    `json:"Currency"`
	ISIN              string    `json:"ISIN"`
	PreviousClose     float64   `json:"previousClose"`
	PreviousCloseDate date.Date `json:"previousCloseDate"`
}

// Ticker returns the symbol to use for this result in trade journals.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches for instruments by name, symbol or ISIN.
func (c *Client) Search(ctx context.Context, term string) ([]SearchResult, error) {
	addr := fmt.Sprintf("%s/search/%s?api_token=%s&fmt=json", c.BaseURL, url.PathEscape(term), url.QueryEscape(c.apiKey))

	var results []SearchResult
	if err := jwget(ctx, c.http, addr, &results); err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", term, err)
	}
	return results, nil
}
