// Package numparse converts the locale-formatted numeric strings published
// by the exchange (thousand separators as spaces, decimal commas, percent
// signs, "--" for a closed market) into float64 values.
package numparse

import (
	"strconv"
	"strings"
)

var separatorReplacer = strings.NewReplacer(
	" ", "",
	"\u00a0", "", // non-breaking space
	"\u202f", "", // narrow non-breaking space
	"\u2009", "", // thin space
	"%", "",
	"+", "",
	",", ".",
)

// Parse converts a raw exchange figure into a float64. It never fails:
// empty strings, the "--" market-closed marker, and anything unparsable all
// yield 0.0. Partial or garbled upstream data must not abort a batch, so a
// lossy zero is the deliberate default.
func Parse(raw string) float64 {
	if raw == "" {
		return 0.0
	}

	cleaned := separatorReplacer.Replace(strings.TrimSpace(raw))
	if cleaned == "" || cleaned == "-" || strings.Contains(cleaned, "--") {
		return 0.0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0.0
	}
	return value
}
