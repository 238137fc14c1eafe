package kernel

import (
	"fmt"
	"math"

	"logistics/internal/pkg/errs"
)

// Money is an amount in minor currency units (1/100 of a unit).
// The domain quotes thresholds and fees in whole units; use Units to build them.
type Money int64

// Units converts a whole currency amount to Money.
func Units(u int64) Money {
	return Money(u * 100)
}

// MoneyFromFloat converts a decimal currency amount (e.g. 19.99) to Money,
// rounding half away from zero.
func MoneyFromFloat(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, errs.NewValueIsInvalidError("amount")
	}
	if amount < 0 {
		return 0, errs.NewValueIsOutOfRangeError("amount", amount, 0, math.MaxInt64/100)
	}
	return Money(math.Round(amount * 100)), nil
}

// Float returns the amount in currency units.
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Times multiplies the amount by a quantity.
func (m Money) Times(qty int) Money {
	return m * Money(qty)
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
