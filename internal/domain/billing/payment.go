package billing

import (
	"github.com/shopspring/decimal"
)

// PaymentMode is the payment option chosen on a bill. Each mode maps
// deterministically to an amount paid; only custom keeps a user-entered
// value.
type PaymentMode string

const (
	PaymentModeFull   PaymentMode = "full"
	PaymentModeHalf   PaymentMode = "half"
	PaymentModeCustom PaymentMode = "custom"
	PaymentModeLater  PaymentMode = "later"
)

// IsValid checks if the mode is a valid PaymentMode
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeFull, PaymentModeHalf, PaymentModeCustom, PaymentModeLater:
		return true
	}
	return false
}

// String returns the string representation
func (m PaymentMode) String() string {
	return string(m)
}

// AmountPaid resolves the amount paid for this mode against a grand total.
// The custom amount is passed through untouched; it is never auto-overwritten.
func (m PaymentMode) AmountPaid(grandTotal, customAmount decimal.Decimal) decimal.Decimal {
	switch m {
	case PaymentModeFull:
		return grandTotal
	case PaymentModeHalf:
		return grandTotal.Div(decimal.NewFromInt(2)).Round(2)
	case PaymentModeLater:
		return decimal.Zero
	default:
		return customAmount
	}
}

// RequiresReminder reports whether choosing this mode with an outstanding
// balance gates submission on the payment-reminder sub-flow
func (m PaymentMode) RequiresReminder(balanceDue decimal.Decimal) bool {
	if !balanceDue.GreaterThan(decimal.Zero) {
		return false
	}
	return m == PaymentModeHalf || m == PaymentModeLater
}
