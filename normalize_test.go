package finrep

import (
	"context"
	"errors"
	"testing"
)

func rec(day, category, cur string, amount float64) ValuedRecord {
	return ValuedRecord{Date: D(day), Category: category, Currency: cur, Amount: dec(amount)}
}

func TestNormalizer_Normalize_AtDate(t *testing.T) {
	source := newFakeSource().
		set("USDRUB=X", "2025-01-06", 90).
		set("USDRUB=X", "2025-01-08", 100)
	n := NewNormalizer(NewRateProvider(source, nil, nop), testCurrencies, nop)

	records := []ValuedRecord{
		rec("2025-01-06", "Groceries", "USD", 10),
		rec("2025-01-07", "Groceries", "RUB", 500),
		rec("2025-01-08", "Groceries", "USD", 10.005),
	}
	got, err := n.Normalize(context.Background(), records, "RUB", AtDate)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}

	want := []float64{900, 500, 1000.5}
	for i, r := range got {
		if r.Currency != "RUB" {
			t.Errorf("Normalize()[%d].Currency = %q want RUB", i, r.Currency)
		}
		if !r.Amount.Equal(dec(want[i])) {
			t.Errorf("Normalize()[%d].Amount = %v want %v", i, r.Amount, want[i])
		}
		if r.Date != records[i].Date || r.Category != records[i].Category {
			t.Errorf("Normalize()[%d] = %v should keep date and category of %v", i, r, records[i])
		}
	}
	if records[0].Currency != "USD" {
		t.Error("Normalize() modified its input")
	}
}

func TestNormalizer_Normalize_CurrentRate(t *testing.T) {
	source := newFakeSource().
		set("EURUSD=X", "2025-01-06", 1.0).
		set("EURUSD=X", "2025-01-10", 1.2)
	n := NewNormalizer(NewRateProvider(source, nil, nop), testCurrencies, nop)

	records := []ValuedRecord{
		rec("2025-01-06", "Savings", "EUR", 100),
		rec("2025-01-10", "Savings", "EUR", 200),
	}
	got, err := n.Normalize(context.Background(), records, "USD", CurrentRate)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	for i, want := range []float64{120, 240} {
		if !got[i].Amount.Equal(dec(want)) {
			t.Errorf("Normalize()[%d].Amount = %v want %v", i, got[i].Amount, want)
		}
	}
}

func TestNormalizer_Normalize_Idempotent(t *testing.T) {
	rates := fixedRates{{"USD", "RUB"}: 91.37}
	n := NewNormalizer(rates, testCurrencies, nop)
	records := []ValuedRecord{
		rec("2025-03-01", "Income", "USD", 1234.56),
		rec("2025-03-02", "Rent", "RUB", 40000),
	}

	once, err := n.Normalize(context.Background(), records, "RUB", AtDate)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	twice, err := n.Normalize(context.Background(), once, "RUB", AtDate)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	for i := range once {
		if !once[i].Amount.Equal(twice[i].Amount) || once[i].Currency != twice[i].Currency {
			t.Errorf("Normalize() is not idempotent: %v then %v", once[i], twice[i])
		}
	}
}

func TestNormalizer_Normalize_RoundTrip(t *testing.T) {
	rates := fixedRates{{"RUB", "USD"}: 0.0125, {"USD", "RUB"}: 80}
	n := NewNormalizer(rates, testCurrencies, nop)
	records := []ValuedRecord{rec("2025-03-01", "Rent", "RUB", 1000)}

	usd, err := n.Normalize(context.Background(), records, "USD", AtDate)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	back, err := n.Normalize(context.Background(), usd, "RUB", AtDate)
	if err != nil {
		t.Fatalf("Normalize() unexpected error: %v", err)
	}
	if !back[0].Amount.Equal(dec(1000)) {
		t.Errorf("round trip = %v want 1000", back[0].Amount)
	}
}

func TestNormalizer_Normalize_AllOrNothing(t *testing.T) {
	rates := fixedRates{{"USD", "RUB"}: 90}
	n := NewNormalizer(rates, testCurrencies, nop)
	records := []ValuedRecord{
		rec("2025-03-01", "Income", "USD", 1),
		rec("2025-03-01", "Travel", "GBP", 1),
	}

	got, err := n.Normalize(context.Background(), records, "RUB", AtDate)
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("Normalize() error = %v want ErrDataUnavailable", err)
	}
	if got != nil {
		t.Errorf("Normalize() = %v want no record on failure", got)
	}
}

func TestNormalizer_Normalize_InvalidCurrency(t *testing.T) {
	n := NewNormalizer(fixedRates{}, testCurrencies, nop)

	_, err := n.Normalize(context.Background(), []ValuedRecord{rec("2025-03-01", "Income", "JPY", 1)}, "RUB", AtDate)
	var invalid *InvalidCurrencyError
	if !errors.As(err, &invalid) || invalid.Currency != "JPY" {
		t.Errorf("Normalize() error = %v want an InvalidCurrencyError for JPY", err)
	}

	_, err = n.Normalize(context.Background(), nil, "XYZ", AtDate)
	if !errors.As(err, &invalid) || invalid.Currency != "XYZ" {
		t.Errorf("Normalize() error = %v want an InvalidCurrencyError for XYZ", err)
	}
}

func TestNormalizer_NormalizeByCategory(t *testing.T) {
	source := newFakeSource().
		set("USDRUB=X", "2025-01-06", 90).
		set("USDRUB=X", "2025-01-08", 100)
	n := NewNormalizer(NewRateProvider(source, nil, nop), testCurrencies, nop)

	records := []ValuedRecord{
		rec("2025-01-06", "Savings", "USD", 10),
		rec("2025-01-06", "Groceries", "USD", 10),
		rec("2025-01-08", "Savings", "USD", 10),
		rec("2025-01-08", "Groceries", "USD", 10),
	}
	got, err := n.NormalizeByCategory(context.Background(), records, "RUB", DefaultTaxonomy())
	if err != nil {
		t.Fatalf("NormalizeByCategory() unexpected error: %v", err)
	}
	// savings use the current rate, the others their own date's rate
	for i, want := range []float64{1000, 900, 1000, 1000} {
		if !got[i].Amount.Equal(dec(want)) {
			t.Errorf("NormalizeByCategory()[%d].Amount = %v want %v", i, got[i].Amount, want)
		}
	}
}

func TestParseRatePolicy(t *testing.T) {
	testCases := []struct {
		in      string
		want    RatePolicy
		wantErr bool
	}{
		{"at-date", AtDate, false},
		{"date", AtDate, false},
		{"current", CurrentRate, false},
		{"today", AtDate, true},
	}
	for _, tc := range testCases {
		got, err := ParseRatePolicy(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseRatePolicy(%q) = %v, %v want %v, error %v", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
}
