// Package money converts between wire prices and the integer cents stored in the database.
package money

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxPrice is the exclusive upper bound accepted for any price.
var MaxPrice = decimal.NewFromInt(100_000_000)

var hundred = decimal.NewFromInt(100)

var (
	ErrInvalidPrice   = errors.New("must be a number")
	ErrPriceNotPos    = errors.New("must be greater than 0")
	ErrPriceTooLarge  = errors.New("must be less than 100,000,000")
	ErrPricePrecision = errors.New("must have at most 2 decimal places")
)

// ParsePrice validates a price string and returns it in cents.
func ParsePrice(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if err := CheckPrice(d); err != nil {
		return 0, err
	}
	return ToCents(d), nil
}

// ParseAmount parses a non-negative amount (discounts, payments). Empty means zero.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if d.IsNegative() {
		return 0, errors.New("must not be negative")
	}
	if d.GreaterThanOrEqual(MaxPrice) {
		return 0, ErrPriceTooLarge
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, ErrPricePrecision
	}
	return ToCents(d), nil
}

// CheckPrice applies the catalog price rule: 0 < price < 100,000,000, cents precision.
func CheckPrice(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrPriceNotPos
	}
	if d.GreaterThanOrEqual(MaxPrice) {
		return ErrPriceTooLarge
	}
	if !d.Equal(d.Round(2)) {
		return ErrPricePrecision
	}
	return nil
}

// ToCents converts a decimal amount to cents, rounding half away from zero.
func ToCents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FromCents converts cents to a decimal amount with two places.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents as a fixed two-decimal string.
func Format(cents int64) string {
	return FromCents(cents).StringFixed(2)
}

// Percent returns part/whole*100 rounded to two places, or zero when whole is zero.
func Percent(part, whole int64) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).Mul(hundred).Div(decimal.NewFromInt(whole)).Round(2)
}

// ApplyBasisPoints returns amount * bps / 10000 rounded to the cent.
func ApplyBasisPoints(amount int64, bps int) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(bps))).
		Div(decimal.NewFromInt(10_000)).
		Round(0).IntPart()
}

// IncludedTax extracts the tax already embedded in a tax-inclusive amount:
// amount * bps / (10000 + bps), rounded to the cent.
func IncludedTax(amount int64, bps int) int64 {
	if bps <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(bps))).
		Div(decimal.NewFromInt(int64(10_000 + bps))).
		Round(0).IntPart()
}

// RateToBasisPoints converts a percentage string like "16" or "7.5" to basis points.
func RateToBasisPoints(rate decimal.Decimal) int {
	return int(rate.Mul(hundred).Round(0).IntPart())
}

// BasisPointsToRate converts basis points back to a percentage.
func BasisPointsToRate(bps int) decimal.Decimal {
	return decimal.New(int64(bps), -2)
}

// Number renders cents as a JSON number with two decimals, e.g. 12.30.
func Number(cents int64) json.Number {
	return json.Number(Format(cents))
}
