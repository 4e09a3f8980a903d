package finrep

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an exact monetary value in a given currency.
//
// The zero Money has no currency and is neutral for Add and Sub.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T number](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the go-money currency definition, never nil.
func (m Money) currency() money.Currency {
	return *money.New(0, m.cur).Currency()
}

// String returns the amount formatted the way the currency is usually displayed.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.Div(n.value), cur: m.cur} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) Round(places int32) Money        { return Money{value: m.value.RoundBank(places), cur: m.cur} }

// Ratio returns m / n. It panics if currencies differ.
func (m Money) Ratio(n Money) decimal.Decimal {
	cur(m, n)
	return m.value.Div(n.value)
}

// Convert returns m multiplied by rate and expressed in currency to.
func (m Money) Convert(rate decimal.Decimal, to string) Money {
	return Money{value: m.value.Mul(rate), cur: to}
}

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", m.cur)
	w.Append("amount", m.value)
	return w.MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Currency string          `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid money %s: %w", data, err)
	}
	m.value, m.cur = v.Amount, v.Currency
	return nil
}
