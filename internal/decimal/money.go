package decimal

import (
	"math"

	"github.com/shopspring/decimal"
)

// Decimal is the arbitrary-precision type used for money arithmetic
type Decimal = decimal.Decimal

// Zero is decimal zero
var Zero = decimal.Zero

// MoneyPlaces is the number of decimal places kept for monetary amounts
const MoneyPlaces = 2

// FromFloat converts a float to decimal through its shortest decimal
// representation, so 101672.005 becomes exactly 101672.005 rather than
// the nearest binary value below it.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Round2 rounds a monetary float to 2 places, half away from zero.
// Non-finite values are returned unchanged.
func Round2(v float64) float64 {
	return RoundTo(v, MoneyPlaces)
}

// RoundTo rounds v to the given number of places, half away from zero.
func RoundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return ToFloat(FromFloat(v).Round(places))
}

// ToFloat converts a decimal back to float64
func ToFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Mul multiplies two decimals, rounds to 2 places
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(MoneyPlaces)
}

// Div divides a by b, rounds to 2 places
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return Zero
	}
	return a.Div(b).Round(MoneyPlaces)
}

// SumFloats sums floats exactly in decimal
func SumFloats(values ...float64) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(FromFloat(v))
	}
	return result
}

// IsFinite reports whether v is neither NaN nor an infinity
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
