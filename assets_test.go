package finrep

import (
	"context"
	"testing"
)

func TestNormalizer_Allocate(t *testing.T) {
	rates := fixedRates{{"USD", "RUB"}: 80, {"EUR", "RUB"}: 90}
	n := NewNormalizer(rates, testCurrencies, nop)

	snapshots := []AssetSnapshot{
		{Month: D("2025-03-01"), Account: "Card", Currency: "RUB", Amount: dec(20000)},
		{Month: D("2025-03-01"), Account: "Broker", Currency: "USD", Amount: dec(500)},
		{Month: D("2025-03-01"), Account: "Cash", Currency: "USD", Amount: dec(250)},
		{Month: D("2025-03-01"), Account: "Savings", Currency: "EUR", Amount: dec(1000)},
	}
	a, err := n.Allocate(context.Background(), snapshots, "RUB", D("2025-04-15"))
	if err != nil {
		t.Fatalf("Allocate() unexpected error: %v", err)
	}

	if !a.Total.Equal(RUB(170000)) {
		t.Errorf("Total = %v want 170000 RUB", a.Total)
	}
	if len(a.Accounts) != 4 || !a.Accounts[1].Converted.Equal(RUB(40000)) || !a.Accounts[1].Native.Equal(USD(500)) {
		t.Errorf("Accounts = %v", a.Accounts)
	}

	want := []struct {
		cur     string
		percent float64
	}{
		{"EUR", 52.94},
		{"USD", 35.29},
		{"RUB", 11.76},
	}
	if len(a.Currencies) != len(want) {
		t.Fatalf("Currencies = %v want %d", a.Currencies, len(want))
	}
	for i, w := range want {
		if a.Currencies[i].Currency != w.cur || !a.Currencies[i].Percent.Equal(dec(w.percent)) {
			t.Errorf("Currencies[%d] = %v want %v %v%%", i, a.Currencies[i], w.cur, w.percent)
		}
	}
	if !a.Currencies[1].Native.Equal(USD(750)) {
		t.Errorf("USD native = %v want 750", a.Currencies[1].Native)
	}
}

func TestNormalizer_Allocate_InvalidCurrency(t *testing.T) {
	n := NewNormalizer(fixedRates{}, testCurrencies, nop)
	_, err := n.Allocate(context.Background(), []AssetSnapshot{{Month: D("2025-03-01"), Account: "X", Currency: "JPY", Amount: dec(1)}}, "RUB", D("2025-04-15"))
	if err == nil {
		t.Error("Allocate() should reject unknown currencies")
	}
}

func TestLatestSnapshots(t *testing.T) {
	snapshots := []AssetSnapshot{
		{Month: D("2025-02-01"), Account: "Card", Currency: "RUB", Amount: dec(10000)},
		{Month: D("2025-03-01"), Account: "Card", Currency: "RUB", Amount: dec(20000)},
		{Month: D("2025-04-01"), Account: "Card", Currency: "RUB", Amount: dec(30000)},
		{Month: D("2025-01-01"), Account: "Broker", Currency: "USD", Amount: dec(500)},
	}
	got := LatestSnapshots(snapshots, D("2025-03-15"))
	if len(got) != 2 {
		t.Fatalf("LatestSnapshots() = %v want 2 accounts", got)
	}
	if got[0].Account != "Broker" || got[1].Account != "Card" || !got[1].Amount.Equal(dec(20000)) {
		t.Errorf("LatestSnapshots() = %v want Broker 500, Card 20000", got)
	}
}
