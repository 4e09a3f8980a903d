package finrep

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
)

// BridgeCurrency is the only currency used to synthesize cross rates.
const BridgeCurrency = "USD"

// fxSuffix marks tickers that quote a currency pair, e.g. "EURUSD=X".
const fxSuffix = "=X"

// DefaultCurrencies is the recognized currency set when none is configured.
var DefaultCurrencies = []string{"RUB", "USD", "EUR", "KZT", "GBP"}

// Currencies is the set of currency codes recognized at ingestion.
type Currencies struct {
	codes []string // sorted
}

// NewCurrencies returns the set of codes. Every code must be an ISO 4217 code.
func NewCurrencies(codes ...string) (Currencies, error) {
	var c Currencies
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if money.GetCurrency(code) == nil {
			return Currencies{}, &InvalidCurrencyError{Currency: code, Where: "configuration"}
		}
		if i, found := slices.BinarySearch(c.codes, code); !found {
			c.codes = slices.Insert(c.codes, i, code)
		}
	}
	return c, nil
}

// MustCurrencies is like NewCurrencies but panics on error.
func MustCurrencies(codes ...string) Currencies {
	c, err := NewCurrencies(codes...)
	if err != nil {
		panic(err)
	}
	return c
}

// Contains reports whether code is recognized.
func (c Currencies) Contains(code string) bool {
	_, found := slices.BinarySearch(c.codes, code)
	return found
}

// Codes returns the recognized codes in alphabetical order.
func (c Currencies) Codes() []string { return slices.Clone(c.codes) }

// Validate returns an *InvalidCurrencyError if code is not recognized.
// where describes the offending input for the error message.
func (c Currencies) Validate(code, where string) error {
	if !c.Contains(code) {
		return &InvalidCurrencyError{Currency: code, Where: where}
	}
	return nil
}

// Pair is a currency pair, one unit of From is worth rate units of To.
type Pair struct {
	From, To string
}

// Ticker returns the upstream symbol of the pair, e.g. "EURUSD=X".
func (p Pair) Ticker() string { return p.From + p.To + fxSuffix }

func (p Pair) String() string   { return p.From + "/" + p.To }
func (p Pair) IsIdentity() bool { return p.From == p.To }

// ParseFXTicker parses a ticker following the "{FROM}{TO}=X" convention.
// ok is false for any other ticker.
func ParseFXTicker(ticker string) (p Pair, ok bool) {
	base, found := strings.CutSuffix(ticker, fxSuffix)
	if !found || len(base) != 6 {
		return Pair{}, false
	}
	for _, r := range base {
		if r < 'A' || r > 'Z' {
			return Pair{}, false
		}
	}
	return Pair{From: base[:3], To: base[3:]}, true
}

// ParsePair parses "USDRUB", "USD/RUB" or "USDRUB=X".
func ParsePair(s string) (Pair, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if p, ok := ParseFXTicker(s); ok {
		return p, nil
	}
	if from, to, found := strings.Cut(s, "/"); found {
		s = from + to
	}
	if p, ok := ParseFXTicker(s + fxSuffix); ok {
		return p, nil
	}
	return Pair{}, fmt.Errorf("invalid currency pair %q", s)
}
