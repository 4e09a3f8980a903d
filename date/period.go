package date

import (
	"fmt"
	"strings"
)

// Period is a calendar period used to align ranges: a report's default start,
// or the lifetime of an http cache entry.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

var periodNames = [...]string{"daily", "weekly", "monthly", "quarterly", "yearly"}

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// Range returns the range of that period containing d.
func (p Period) Range(d Date) Range { return NewRange(d, p) }

// ParsePeriod accepts "daily", "day" or "d", and likewise for week, month,
// quarter and year.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "day", "d":
		return Daily, nil
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m":
		return Monthly, nil
	case "quarterly", "quarter", "q":
		return Quarterly, nil
	case "yearly", "year", "y":
		return Yearly, nil
	}
	return Daily, fmt.Errorf("unknown period %q, want day, week, month, quarter or year", s)
}
