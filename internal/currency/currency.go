// Package currency provides Brazilian-locale parsing and formatting of
// monetary values.
//
// The conventions follow the server's locale: comma as the decimal
// separator, period as the thousands marker ("1.234,56"). Parsing is
// character-level string work; no float arithmetic is involved until a
// canonical decimal is produced.
package currency

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Unformat reduces a locale-formatted string to a canonical numeric
// string: dot decimal separator, at most two fraction digits, no
// grouping, no symbol. Empty input yields empty output.
//
// When the input carries more than one decimal separator, the most
// recently typed one wins and earlier ones are dropped. A fractional
// part longer than two digits is truncated, not rounded.
//
// Examples:
//
//	Unformat("1.234,56")  -> "1234.56"
//	Unformat("R$ 12,5")   -> "12.5"
//	Unformat("1,2,3")     -> "12.3"
//	Unformat("12,345")    -> "12.34"
func Unformat(s string) string {
	intPart, fracPart, hasFrac := splitLocale(s)
	if intPart == "" && fracPart == "" {
		return ""
	}
	if intPart == "" {
		intPart = "0"
	}
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	if !hasFrac {
		return intPart
	}
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	return intPart + "." + fracPart
}

// splitLocale strips everything but digits and decimal separators and
// splits around the winning (last typed) separator.
func splitLocale(s string) (intPart, fracPart string, hasFrac bool) {
	// The period is the thousands marker in this locale, so only the
	// comma separates the fraction. Everything else is noise (currency
	// symbol, spaces, sign).
	var digits []byte
	lastComma := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
		case c == ',':
			lastComma = len(digits)
		}
	}
	if lastComma < 0 {
		return string(digits), "", false
	}
	return string(digits[:lastComma]), string(digits[lastComma:]), true
}

// ParseLocaleNumber parses a locale-formatted string into a canonical
// decimal. The empty string and strings with no digits are rejected.
func ParseLocaleNumber(s string) (decimal.Decimal, error) {
	canonical := Unformat(s)
	if canonical == "" {
		return decimal.Zero, ErrNotANumber
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}
	return d, nil
}

// Format renders a canonical decimal in display form without the
// currency symbol: grouped integer digits, comma, two fraction digits.
//
// Examples:
//
//	Format(decimal.NewFromFloat(1234.56)) -> "1.234,56"
//	Format(decimal.NewFromInt(7))         -> "7,00"
func Format(d decimal.Decimal) string {
	fixed := d.Truncate(2).StringFixed(2) // "1234.56"
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")
	dot := strings.IndexByte(fixed, '.')
	out := groupThousands(fixed[:dot]) + "," + fixed[dot+1:]
	if neg {
		out = "-" + out
	}
	return out
}

// Display renders a canonical decimal with the currency symbol,
// e.g. "R$ 1.234,56".
func Display(d decimal.Decimal) string {
	cents := d.Truncate(2).Shift(2).IntPart()
	return money.New(cents, money.BRL).Display()
}

// FormatInput reformats a currency field's raw value progressively as
// the user types: digits regroup in threes while no decimal separator
// has been typed, and at most one separator with at most two fraction
// digits survives once it has. The period never counts as a decimal
// separator here; it is regenerated as grouping on every call.
//
// Examples:
//
//	FormatInput("12345")    -> "12.345"
//	FormatInput("1234,567") -> "1.234,56"
//	FormatInput("1,2,3")    -> "12,3"
//	FormatInput("")         -> ""
func FormatInput(raw string) string {
	intPart, fracPart, hasFrac := splitLocale(raw)
	if intPart == "" && fracPart == "" {
		return ""
	}
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	if !hasFrac {
		return groupThousands(intPart)
	}
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	return groupThousands(intPart) + "," + fracPart
}

// FormatCents renders a finished digit stream as a full currency value,
// treating the rightmost two digits as the fractional part when the
// user typed no separator. This is the blur-time formatting pass, so
// "123456" becomes "1.234,56" and "5" becomes "0,05". A typed separator
// takes precedence over the implicit-cents rule.
func FormatCents(raw string) string {
	intPart, fracPart, hasFrac := splitLocale(raw)
	if intPart == "" && fracPart == "" {
		return ""
	}
	if !hasFrac {
		// No separator typed: shift the last two digits into cents.
		for len(intPart) < 3 {
			intPart = "0" + intPart
		}
		fracPart = intPart[len(intPart)-2:]
		intPart = intPart[:len(intPart)-2]
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	if len(fracPart) > 2 {
		fracPart = fracPart[:2]
	}
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	return groupThousands(intPart) + "," + fracPart
}

// groupThousands inserts the thousands marker every three digits from
// the right: "1234567" -> "1.234.567".
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(n + n/3)
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
