// Package money holds the decimal arithmetic used for prices and refunds.
// All amounts share one currency; callers keep float64 at the edges and
// every computation goes through decimal to avoid binary rounding drift.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNegativeAmount is returned for amounts below zero
var ErrNegativeAmount = errors.New("money: negative amount")

var hundred = decimal.NewFromInt(100)

// Percentage returns round2(amount * percent / 100).
func Percentage(amount, percent float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(percent)).
		Div(hundred).
		Round(2).
		InexactFloat64()
}

// ToMinorUnits converts an amount to cents for gateway calls.
func ToMinorUnits(amount float64) (int64, error) {
	d := decimal.NewFromFloat(amount)
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}
	return d.Round(2).Mul(hundred).IntPart(), nil
}

// FromMinorUnits converts cents back to an amount.
func FromMinorUnits(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}
