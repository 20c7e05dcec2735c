package report

import (
	"math"
	"strconv"
	"strings"
)

// UnparsedPrice is the magnitude given to prices that carry no readable number.
const UnparsedPrice = 999.9

// SplitPrice splits a raw price such as "1,99 €/stück" at the first "/"
// into the price text and the unit.
func SplitPrice(raw string) (price, unit string) {
	price, unit, _ = strings.Cut(raw, "/")
	return price, strings.TrimSpace(unit)
}

// ParseMagnitude reads the numeric value of a price text with a decimal comma.
// The second whitespace-separated token is tried first, then the first token
// carrying a decimal comma. Anything else yields UnparsedPrice.
func ParseMagnitude(price string) float64 {
	tokens := strings.Fields(price)
	if len(tokens) > 1 {
		if v, ok := parseDecimal(tokens[1]); ok {
			return v
		}
	}
	for _, t := range tokens {
		if !strings.Contains(t, ",") {
			continue
		}
		if v, ok := parseDecimal(t); ok {
			return v
		}
	}
	return UnparsedPrice
}

func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
