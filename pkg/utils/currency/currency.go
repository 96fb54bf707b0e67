package currency

import (
	"fmt"
	"strings"
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"BDT": "৳",
	"INR": "₹",
	"AUD": "A$",
	"CAD": "C$",
}

// Format renders an amount for display in the company's currency, e.g.
// Format(1234.5, "BDT") => "৳1,234.50". Unknown codes fall back to
// "CODE 1,234.50". Formatting happens only at display time; all stored
// amounts stay raw float64.
func Format(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "USD"
	}

	formatted := group(fmt.Sprintf("%.2f", amount))

	if symbol, ok := symbols[code]; ok {
		return symbol + formatted
	}
	return code + " " + formatted
}

// group inserts thousands separators into a "-1234.50" style string.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + "." + fracPart
}
