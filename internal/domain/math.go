package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const moneyPrecision = 2

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatMoney renders a decimal with exactly two fraction digits, rounding half away from zero.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(moneyPrecision)
}

// RoundMoney rounds to two fraction digits.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPrecision)
}

// FormatWeight renders a weight in grams without trailing zeros beyond two places.
func FormatWeight(d decimal.Decimal) string {
	s := d.Round(moneyPrecision).StringFixed(moneyPrecision)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
