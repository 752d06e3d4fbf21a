// Package core holds the ledger domain: entries, goals and the pure
// calculations derived from them.
//
// This file contains amount parsing and formatting. Amounts are plain
// float64 rupee values; clients send them either as JSON numbers or as
// numeric strings, and both forms go through ParseAmount.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a client-supplied amount into a float64.
//
// It accepts JSON numbers (float64 after decoding) and numeric strings,
// including scientific notation, with surrounding whitespace tolerated.
// Only the format is checked here; positivity is a separate rule because
// callers report the two failures differently.
//
// Examples:
//   ParseAmount(600.0)   -> 600, nil
//   ParseAmount("12.34") -> 12.34, nil
//   ParseAmount("1e3")   -> 1000, nil
//   ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		return f, nil
	default:
		return 0, ErrInvalidAmount
	}
}

// ValidateAmount rejects non-finite and non-positive amounts.
func ValidateAmount(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrInvalidAmount
	}
	if f <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// FormatAmount renders an amount with the shortest decimal representation
// that round-trips: 150.0 becomes "150", 57.97 stays "57.97". Used in
// advice strings and exports where trailing ".0" would read badly.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
