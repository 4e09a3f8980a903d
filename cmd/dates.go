package cmd

import (
	"fmt"

	"github.com/etnz/finrep/date"
)

// parseRange parses the -s, -d and -p flags. An empty start defaults to the
// start of the period containing the end.
func parseRange(start, end, period string) (date.Range, error) {
	p, err := date.ParsePeriod(period)
	if err != nil {
		return date.Range{}, err
	}
	to, err := date.Parse(end)
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid end date: %w", err)
	}
	if start == "" {
		return date.Range{From: to.StartOf(p), To: to}, nil
	}
	from, err := date.Parse(start)
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid start date: %w", err)
	}
	if to.Before(from) {
		return date.Range{}, fmt.Errorf("start date %s is after end date %s", from, to)
	}
	return date.Range{From: from, To: to}, nil
}
