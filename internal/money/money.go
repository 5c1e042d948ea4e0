// Package money parses and formats the won amounts found in bank exports.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Parse converts an export amount such as " 1,234 " to a decimal.
// Empty text is zero. Unparsable text is also zero, with ok=false so callers
// can record the coercion.
func Parse(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Format renders the absolute value rounded to whole units with thousands
// separators: -1234.5 -> "1,234".
func Format(d decimal.Decimal) string {
	n := d.RoundBank(0).Abs().IntPart()
	return printer.Sprintf("%d", n)
}

// FormatSigned is Format with a leading "+" or "-"; zero has no sign.
func FormatSigned(d decimal.Decimal) string {
	switch d.Sign() {
	case 1:
		return "+" + Format(d)
	case -1:
		return "-" + Format(d)
	}
	return Format(d)
}
