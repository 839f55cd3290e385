package parse

import (
	"strconv"
	"strings"
)

var moneyReplacer = strings.NewReplacer("$", "", ",", "", "(", "", ")", "")

// Money parses a broker-formatted currency string into a signed float.
// Currency symbols and thousands separators are stripped, and
// accounting-style parenthesized negatives ("$(85.00)") negate the
// value. Returns 0 for anything unparseable; a bad cell should not
// sink a whole import row.
func Money(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	negate := strings.Contains(s, "(") && strings.Contains(s, ")")
	cleaned := strings.TrimSpace(moneyReplacer.Replace(s))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if negate {
		v = -v
	}
	return v
}

// Integer parses a quantity-style cell, tolerating thousands
// separators and a trailing ".0" fraction. Returns 0 on failure.
func Integer(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
