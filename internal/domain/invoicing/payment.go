package invoicing

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a customer paid
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCash     PaymentMethod = "cash"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCash:
		return true
	}
	return false
}

// Payment is one settlement against an invoice. Payments are never edited.
type Payment struct {
	shared.BaseEntity
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Method    PaymentMethod
	DatePaid  time.Time
}

// NewPayment validates and creates a payment
func NewPayment(invoiceID uuid.UUID, amount decimal.Decimal, method PaymentMethod, datePaid time.Time) (*Payment, error) {
	if err := shared.ValidateAmount("payment amount", amount); err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("INVALID_PAYMENT_METHOD", "payment method must be transfer, card or cash")
	}
	if datePaid.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "payment date is required")
	}
	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		InvoiceID:  invoiceID,
		Amount:     amount,
		Method:     method,
		DatePaid:   datePaid,
	}, nil
}
