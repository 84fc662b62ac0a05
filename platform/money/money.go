// Package money converts boundary numbers into fixed-precision decimals.
// Budgets, costs and areas are stored as NUMERIC and handled as decimal.Decimal
// so that totals never accumulate floating-point drift.
package money

import (
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for money and area values.
const Scale = 2

// FromFloat converts a plain JSON number to a rounded decimal.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(Scale)
}

// FromFloatPtr converts an optional number. A nil input yields nil.
func FromFloatPtr(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := FromFloat(*v)
	return &d
}

// ToFloat renders a decimal back to a JSON number.
func ToFloat(d decimal.Decimal) float64 {
	return d.Round(Scale).InexactFloat64()
}

// ToFloatPtr renders an optional decimal.
func ToFloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := ToFloat(*d)
	return &f
}

// Ratio returns part/whole rounded to four places, or zero when whole is zero.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.DivRound(whole, 4)
}

// Average returns total/count rounded to Scale, or zero when count is zero.
func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.DivRound(decimal.NewFromInt(int64(count)), Scale)
}

// Text renders d as a NUMERIC literal for query parameters.
func Text(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// TextPtr renders an optional decimal; nil stays nil so SQL sees NULL.
func TextPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := Text(*d)
	return &s
}
