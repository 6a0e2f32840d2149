// Package currencyutils normalizes the monetary cells of statement tables.
package currencyutils

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var nonNumeric = regexp.MustCompile(`[^\d.]+`)

// StandardizeAmount strips every character that is not a digit or a decimal point.
// Thousands separators, currency symbols, signs and stray letters all disappear.
func StandardizeAmount(amountStr string) string {
	return nonNumeric.ReplaceAllString(amountStr, "")
}

// ParseAmount converts raw cell text into a non-negative decimal. Text with no digits,
// or that is still malformed after stripping ("1.2.3", "."), yields zero. It never fails.
func ParseAmount(amountStr string) decimal.Decimal {
	amount, ok := TryParseAmount(amountStr)
	if !ok {
		return decimal.Zero
	}
	return amount
}

// TryParseAmount is ParseAmount that also reports whether the text held a usable number.
func TryParseAmount(amountStr string) (decimal.Decimal, bool) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// FormatAmount renders an amount with two decimal places and no thousands separators.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
