package finrep

import (
	"context"
	"testing"

	"github.com/etnz/finrep/date"
	"github.com/shopspring/decimal"
)

func TestValuate(t *testing.T) {
	lots := []Lot{
		lot("MSFT", "2025-01-01", 5, 300),
		lot("AAPL", "2025-01-10", 6, 100),
		lot("AAPL", "2025-02-10", 4, 150),
	}
	positions := Valuate(lots, map[string]Money{"AAPL": USD(132)})

	if len(positions) != 2 {
		t.Fatalf("Valuate() = %v want 2 positions", positions)
	}
	aapl, msft := positions[0], positions[1]
	if aapl.Instrument != "AAPL" || msft.Instrument != "MSFT" {
		t.Fatalf("Valuate() should be sorted by instrument, got %v", positions)
	}

	if !aapl.Quantity.Equal(Q(10)) || !aapl.CostBasis.Equal(USD(1200)) || !aapl.AverageCost.Equal(USD(120)) {
		t.Errorf("AAPL = %+v want 10 units, 1200 cost, 120 average", aapl)
	}
	if aapl.UnrealizedPnl == nil || !aapl.UnrealizedPnl.Equal(USD(120)) {
		t.Errorf("AAPL.UnrealizedPnl = %v want 120", aapl.UnrealizedPnl)
	}
	if aapl.ReturnPct == nil || !aapl.ReturnPct.Equal(dec(10)) {
		t.Errorf("AAPL.ReturnPct = %v want 10", aapl.ReturnPct)
	}

	if msft.CurrentPrice != nil || msft.UnrealizedPnl != nil || msft.ReturnPct != nil {
		t.Errorf("MSFT without price should have no valuation, got %+v", msft)
	}
	if !msft.CostBasis.Equal(USD(1500)) {
		t.Errorf("MSFT.CostBasis = %v want 1500", msft.CostBasis)
	}
}

func TestValuate_ReturnIsRounded(t *testing.T) {
	positions := Valuate([]Lot{lot("X", "2025-01-01", 3, 1)}, map[string]Money{"X": USD(1.2)})
	if got := positions[0].ReturnPct; got == nil || !got.Equal(dec(20)) {
		t.Errorf("ReturnPct = %v want 20", got)
	}
	positions = Valuate([]Lot{lot("X", "2025-01-01", 3, 3)}, map[string]Money{"X": USD(4)})
	if got := positions[0].ReturnPct; got == nil || !got.Equal(dec(33.3)) {
		t.Errorf("ReturnPct = %v want 33.3", got)
	}
}

func TestValuate_ZeroCost(t *testing.T) {
	positions := Valuate([]Lot{lot("GIFT", "2025-01-01", 3, 0)}, map[string]Money{"GIFT": USD(10)})
	p := positions[0]
	if p.UnrealizedPnl == nil || !p.UnrealizedPnl.Equal(USD(30)) {
		t.Errorf("UnrealizedPnl = %v want 30", p.UnrealizedPnl)
	}
	if p.ReturnPct != nil {
		t.Errorf("ReturnPct = %v want nil on a zero cost", p.ReturnPct)
	}
}

// stubPrices is a PriceSource serving fixed prices.
type stubPrices struct {
	name   string
	prices map[string]float64
	err    error
	calls  int
}

func (s *stubPrices) Name() string { return s.name }

func (s *stubPrices) Price(_ context.Context, inst Instrument) (decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return decimal.Zero, s.err
	}
	p, ok := s.prices[inst.Symbol]
	if !ok {
		return decimal.Zero, ErrNoPrice
	}
	return dec(p), nil
}

func TestValuator_FallsBackInOrder(t *testing.T) {
	first := &stubPrices{name: "first", prices: map[string]float64{"SBER": 310, "ZERO": 0}}
	broken := &stubPrices{name: "broken", err: errUpstream}
	last := &stubPrices{name: "last", prices: map[string]float64{"AAPL": 200, "ZERO": 5}}
	v := NewValuator(nop, first, broken, last)

	ctx := context.Background()
	price, err := v.Price(ctx, Instrument{Symbol: "SBER", Currency: "RUB"})
	if err != nil || !price.Equal(RUB(310)) {
		t.Errorf("Price(SBER) = %v, %v want 310 RUB", price, err)
	}
	if broken.calls != 0 {
		t.Errorf("later sources should not be asked once a price is found")
	}

	price, err = v.Price(ctx, Instrument{Symbol: "AAPL", Currency: "USD"})
	if err != nil || !price.Equal(USD(200)) {
		t.Errorf("Price(AAPL) = %v, %v want 200 USD", price, err)
	}

	// a zero price is not a price
	price, err = v.Price(ctx, Instrument{Symbol: "ZERO", Currency: "USD"})
	if err != nil || !price.Equal(USD(5)) {
		t.Errorf("Price(ZERO) = %v, %v want 5 USD", price, err)
	}

	if _, err := v.Price(ctx, Instrument{Symbol: "NONE", Currency: "USD"}); err == nil {
		t.Error("Price(NONE) should fail")
	}
}

func TestValuator_Valuate(t *testing.T) {
	v := NewValuator(nop, &stubPrices{name: "stub", prices: map[string]float64{"AAPL": 150}})
	positions := v.Valuate(context.Background(), []Lot{
		lot("AAPL", "2025-01-10", 2, 100),
		lot("UNKNOWN", "2025-01-10", 2, 100),
	})
	if len(positions) != 2 {
		t.Fatalf("Valuate() = %v want 2 positions", positions)
	}
	if positions[0].UnrealizedPnl == nil || !positions[0].UnrealizedPnl.Equal(USD(100)) {
		t.Errorf("AAPL.UnrealizedPnl = %v want 100", positions[0].UnrealizedPnl)
	}
	if positions[1].UnrealizedPnl != nil {
		t.Errorf("UNKNOWN.UnrealizedPnl = %v want nil", positions[1].UnrealizedPnl)
	}
}

func TestRatePrices(t *testing.T) {
	source := newFakeSource().set("EURUSD=X", "2025-01-10", 1.08)
	prices := RatePrices{
		Provider: NewRateProvider(source, nil, nop),
		Today:    func() date.Date { return D("2025-01-10") },
	}

	p, err := prices.Price(context.Background(), Instrument{Symbol: "EUR", Class: Currency, Currency: "USD"})
	if err != nil || !p.Equal(dec(1.08)) {
		t.Errorf("Price(EUR) = %v, %v want 1.08", p, err)
	}
	if _, err := prices.Price(context.Background(), Instrument{Symbol: "AAPL", Currency: "USD"}); err != ErrNoPrice {
		t.Errorf("Price(AAPL) error = %v want ErrNoPrice", err)
	}
}

func TestInstrument_Ticker(t *testing.T) {
	if got := (Instrument{Symbol: "EUR", Class: Currency, Currency: "RUB"}).Ticker(); got != "EURRUB=X" {
		t.Errorf("Ticker() = %q want EURRUB=X", got)
	}
	if got := (Instrument{Symbol: "SBER", Currency: "RUB"}).Ticker(); got != "SBER" {
		t.Errorf("Ticker() = %q want SBER", got)
	}
}
