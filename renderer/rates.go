// Package renderer renders finrep results as markdown.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/finrep"
)

// RatesMarkdown renders a rate series, one row per day.
func RatesMarkdown(s finrep.RateSeries) string {
	var b strings.Builder
	span := s.Span()
	fmt.Fprintf(&b, "# %s from %s to %s\n\n", s.Pair, span.From, span.To)

	fmt.Fprintln(&b, "| Date | Rate |")
	fmt.Fprintln(&b, "|:---|---:|")
	for day, rate := range s.Values() {
		fmt.Fprintf(&b, "| %s | %s |\n", day, rate)
	}
	return b.String()
}
