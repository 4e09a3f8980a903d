package finrep

import (
	"errors"
	"testing"
)

func TestParseFXTicker(t *testing.T) {
	testCases := []struct {
		ticker string
		want   Pair
		ok     bool
	}{
		{"EURUSD=X", Pair{"EUR", "USD"}, true},
		{"KZTRUB=X", Pair{"KZT", "RUB"}, true},
		{"EURUSD", Pair{}, false},
		{"eurusd=X", Pair{}, false},
		{"SBER.ME", Pair{}, false},
		{"EURUSDX=X", Pair{}, false},
	}
	for _, tc := range testCases {
		got, ok := ParseFXTicker(tc.ticker)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseFXTicker(%q) = %v, %v want %v, %v", tc.ticker, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParsePair(t *testing.T) {
	for _, s := range []string{"USDRUB", "usd/rub", "USDRUB=X", " USD/RUB "} {
		got, err := ParsePair(s)
		if err != nil || got != (Pair{"USD", "RUB"}) {
			t.Errorf("ParsePair(%q) = %v, %v want USD/RUB", s, got, err)
		}
	}
	if _, err := ParsePair("US/RUB"); err == nil {
		t.Error("ParsePair(US/RUB) should fail")
	}
}

func TestPair(t *testing.T) {
	p := Pair{"EUR", "USD"}
	if got := p.Ticker(); got != "EURUSD=X" {
		t.Errorf("Ticker() = %q want EURUSD=X", got)
	}
	if p.IsIdentity() || !(Pair{"EUR", "EUR"}).IsIdentity() {
		t.Error("IsIdentity() is wrong")
	}
}

func TestNewCurrencies(t *testing.T) {
	c, err := NewCurrencies("usd", "RUB", "USD")
	if err != nil {
		t.Fatalf("NewCurrencies() unexpected error: %v", err)
	}
	if got := c.Codes(); len(got) != 2 || got[0] != "RUB" || got[1] != "USD" {
		t.Errorf("Codes() = %v want [RUB USD]", got)
	}
	if c.Contains("EUR") {
		t.Error("Contains(EUR) = true want false")
	}

	_, err = NewCurrencies("USD", "ABC")
	var invalid *InvalidCurrencyError
	if !errors.As(err, &invalid) || invalid.Currency != "ABC" {
		t.Errorf("NewCurrencies() error = %v want an InvalidCurrencyError for ABC", err)
	}
}

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		m    Money
		want string
	}{
		{USD(1234.5), "$1,234.50"},
	}
	for _, tc := range testCases {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("%v.String() = %q want %q", tc.m.Decimal(), got, tc.want)
		}
	}
}
