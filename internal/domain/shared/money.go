package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fraction digits stored for money and quantities
const MoneyScale = 2

var (
	// MinAmount is the smallest postable monetary amount
	MinAmount = decimal.NewFromFloat(0.01)
	// Tolerance is the rounding tolerance used when comparing a recomputed
	// total against a stored or client-supplied one
	Tolerance = decimal.NewFromFloat(0.01)
)

// HasScale reports whether d needs no more than MoneyScale fraction digits
func HasScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyScale))
}

// WithinTolerance reports whether a and b differ by at most Tolerance
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// ValidateAmount checks that amount is at least 0.01 with at most two
// fraction digits. field names the offending input in the message.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.LessThan(MinAmount) {
		return NewValidationError("INVALID_AMOUNT", fmt.Sprintf("%s must be at least %s", field, MinAmount.StringFixed(MoneyScale)))
	}
	if !HasScale(amount) {
		return NewValidationError("INVALID_AMOUNT", fmt.Sprintf("%s must have at most %d decimal places", field, MoneyScale))
	}
	return nil
}

// ValidateQuantity checks that qty is positive with at most two fraction digits
func ValidateQuantity(field string, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return NewValidationError("INVALID_QUANTITY", fmt.Sprintf("%s must be positive", field))
	}
	if !HasScale(qty) {
		return NewValidationError("INVALID_QUANTITY", fmt.Sprintf("%s must have at most %d decimal places", field, MoneyScale))
	}
	return nil
}
