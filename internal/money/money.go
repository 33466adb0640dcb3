// Package money holds the two-decimal currency arithmetic used for quotes.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds an amount to cents, half away from zero.
func Round2(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// Subtotal returns round2(unitPrice * quantity).
func Subtotal(unitPrice float64, quantity int) float64 {
	return decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}

// Sum adds amounts without accumulating float drift and rounds the result to cents.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}

// Format2 renders an amount with exactly two decimals ("1234.50").
func Format2(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// FormatComma1 renders a measure with one decimal and a comma separator ("123,5").
func FormatComma1(value float64) string {
	return strings.Replace(decimal.NewFromFloat(value).StringFixed(1), ".", ",", 1)
}

// Parse reads a decimal amount; an empty string is zero. NaN and infinities are rejected.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
