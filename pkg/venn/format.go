package venn

import (
	"fmt"
	"strings"
)

// formatUSD renders a dollar amount with thousands separators and two
// decimals, matching the tooltip style of the rest of the system.
func formatUSD(v float64) string {
	return "$" + groupDigits(fmt.Sprintf("%.2f", v))
}

// formatQuantity renders a coin quantity with thousands separators and
// four decimals.
func formatQuantity(v float64) string {
	return groupDigits(fmt.Sprintf("%.4f", v))
}

// groupDigits inserts commas into the integer part of a formatted number.
func groupDigits(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		if frac == "" {
			return intPart
		}
		return intPart + "." + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
