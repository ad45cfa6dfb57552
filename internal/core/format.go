// Package core holds the domain types shared by the parser, categorizer,
// insight engine and the store boundary.
//
// This file contains display formatting for monetary amounts. Amounts are
// rendered with comma-grouped integer digits and at most two decimal
// places, trailing zeros trimmed ("1850" not "1850.00", "45.5" not "45.50").
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders d for user-facing messages, e.g. 1850.5 -> "1,850.5".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	fracPart = strings.TrimRight(fracPart, "0")

	grouped := groupThousands(intPart)
	out := grouped
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
