package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/finrep"
	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// optional renders a nil value as "n/a".
func optional(m *finrep.Money) string {
	if m == nil {
		return "n/a"
	}
	return m.String()
}

// signedOptional renders a nil value as "n/a", a zero value as "-".
func signedOptional(m *finrep.Money) string {
	if m == nil {
		return "n/a"
	}
	return m.SignedString()
}

// percent renders a percentage with one decimal.
func percent(p decimal.Decimal) string { return p.StringFixed(1) + "%" }

// amount renders a decimal amount with two decimals.
func amount(d decimal.Decimal) string { return d.StringFixed(2) }
