// Package money parses and formats the NUMERIC(10,2) amounts the API moves
// around as strings, so rounding never depends on float arithmetic.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Parse accepts a decimal string with at most two fractional digits and a
// strictly positive value.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if d.Exponent() < -2 {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d, nil
}

// Format renders an amount the way it is stored: two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
