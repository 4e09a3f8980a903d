package finrep

import (
	"errors"
	"fmt"

	"github.com/etnz/finrep/date"
)

// ErrDataUnavailable is matched by every error reporting that a rate or price
// series could not be produced for the requested range.
var ErrDataUnavailable = errors.New("data unavailable")

// DataUnavailableError tells which series could not be produced, and why.
type DataUnavailableError struct {
	Subject string // a ticker or a pair
	Range   date.Range
	Err     error // the upstream cause, if any
}

func (e *DataUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: no data for %s in %v", ErrDataUnavailable, e.Subject, e.Range)
	}
	return fmt.Sprintf("%s: no data for %s in %v: %v", ErrDataUnavailable, e.Subject, e.Range, e.Err)
}

func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }
func (e *DataUnavailableError) Unwrap() error        { return e.Err }

func unavailable(subject string, r date.Range, cause error) error {
	return &DataUnavailableError{Subject: subject, Range: r, Err: cause}
}

// InvalidCurrencyError is returned when a currency code is not part of the recognized set.
type InvalidCurrencyError struct {
	Currency string
	Where    string
}

func (e *InvalidCurrencyError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("invalid currency %q", e.Currency)
	}
	return fmt.Sprintf("invalid currency %q in %s", e.Currency, e.Where)
}

// UnderCoverage is a non fatal warning: a sale asked for more units than the
// lots held at the sale date.
type UnderCoverage struct {
	Instrument string
	SaleDate   date.Date
	Requested  Quantity
	Covered    Quantity
}

// Missing returns the number of units sold without a matching lot.
func (u UnderCoverage) Missing() Quantity { return u.Requested.Sub(u.Covered) }

func (u UnderCoverage) String() string {
	return fmt.Sprintf("sale of %s %s on %s covered for %s units only", u.Requested, u.Instrument, u.SaleDate, u.Covered)
}
