package finrep

import (
	"fmt"

	"github.com/etnz/finrep/date"
	"github.com/shopspring/decimal"
)

// ValuedRecord is a dated monetary amount in a category, as kept in the
// personal finance journal (income, groceries, savings, ...).
//
// Records are values: normalization returns new records.
type ValuedRecord struct {
	Date     date.Date       `json:"date"`
	Category string          `json:"category"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Comment  string          `json:"comment,omitempty"`
}

// Money returns the record amount as Money.
func (r ValuedRecord) Money() Money { return M(r.Amount, r.Currency) }

// ValidateRecords checks that every record uses a recognized currency.
func ValidateRecords(records []ValuedRecord, currencies Currencies) error {
	for i, r := range records {
		if err := currencies.Validate(r.Currency, fmt.Sprintf("record #%d (%s %s)", i+1, r.Date, r.Category)); err != nil {
			return err
		}
	}
	return nil
}

// AssetSnapshot is the balance of an account at the start of a month.
type AssetSnapshot struct {
	Month    date.Date       `json:"month"`
	Account  string          `json:"account"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// Record returns the snapshot as a record whose category is the account name.
func (a AssetSnapshot) Record() ValuedRecord {
	return ValuedRecord{
		Date:     a.Month.StartOf(date.Monthly),
		Category: a.Account,
		Currency: a.Currency,
		Amount:   a.Amount,
	}
}

// SnapshotRecords converts snapshots into records, validating their currency.
func SnapshotRecords(snapshots []AssetSnapshot, currencies Currencies) ([]ValuedRecord, error) {
	records := make([]ValuedRecord, 0, len(snapshots))
	for i, a := range snapshots {
		if err := currencies.Validate(a.Currency, fmt.Sprintf("asset #%d (%s)", i+1, a.Account)); err != nil {
			return nil, err
		}
		records = append(records, a.Record())
	}
	return records, nil
}
