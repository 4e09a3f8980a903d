package finrep

import "slices"

// Taxonomy names the record categories with a special meaning. Every other
// category is a cost.
type Taxonomy struct {
	Income           []string `json:"income"`
	Savings          []string `json:"savings"`
	Investments      []string `json:"investments"`
	Receivable       string   `json:"receivable"`        // money lent
	ReceivableRepaid string   `json:"receivable_repaid"` // money lent, paid back
	Payable          string   `json:"payable"`           // money borrowed
	PayableRepaid    string   `json:"payable_repaid"`    // money borrowed, paid back
}

// DefaultTaxonomy returns the categories used when none are configured.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Income:           []string{"Income"},
		Savings:          []string{"Savings"},
		Investments:      []string{"Investments"},
		Receivable:       "Receivable",
		ReceivableRepaid: "Receivable repayment",
		Payable:          "Payable",
		PayableRepaid:    "Payable repayment",
	}
}

// UsesCurrentRate reports whether records of category are converted with the
// current rate rather than the rate of their date.
func (t Taxonomy) UsesCurrentRate(category string) bool {
	return slices.Contains(t.Income, category) || slices.Contains(t.Savings, category)
}

// IsCost reports whether category counts as spending.
func (t Taxonomy) IsCost(category string) bool {
	return !slices.Contains(t.NotCost(), category)
}

// NotCost returns every category that is not a cost.
func (t Taxonomy) NotCost() []string {
	var c []string
	c = append(c, t.Income...)
	c = append(c, t.Savings...)
	c = append(c, t.Investments...)
	for _, s := range []string{t.Receivable, t.ReceivableRepaid, t.Payable, t.PayableRepaid} {
		if s != "" {
			c = append(c, s)
		}
	}
	return c
}
