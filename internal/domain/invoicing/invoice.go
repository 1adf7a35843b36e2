package invoicing

import (
	"fmt"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type name used in events
const AggregateTypeInvoice = "Invoice"

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusSent
	case InvoiceStatusSent:
		return target == InvoiceStatusPaid || target == InvoiceStatusOverdue
	case InvoiceStatusOverdue:
		return target == InvoiceStatusPaid
	case InvoiceStatusPaid:
		return false
	}
	return false
}

// AcceptsPayments reports whether payments can be recorded in this status
func (s InvoiceStatus) AcceptsPayments() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

// Invoice bills a customer, optionally for one order. AmountPaid is the
// running sum of the invoice's payments.
type Invoice struct {
	shared.BaseAggregateRoot
	CustomerID    uuid.UUID
	OrderID       *uuid.UUID
	InvoiceNumber string
	DateIssued    time.Time
	DueDate       time.Time
	Status        InvoiceStatus
	TotalAmount   decimal.Decimal
	AmountPaid    decimal.Decimal
}

// InvoiceSpec carries the input of a new invoice
type InvoiceSpec struct {
	CustomerID    uuid.UUID
	OrderID       *uuid.UUID
	InvoiceNumber string
	DateIssued    time.Time
	DueDate       time.Time
	TotalAmount   decimal.Decimal
}

// NewInvoice creates a draft invoice
func NewInvoice(spec InvoiceSpec) (*Invoice, error) {
	if spec.CustomerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "customer ID cannot be empty")
	}
	number := strings.TrimSpace(spec.InvoiceNumber)
	if number == "" || len(number) > 20 {
		return nil, shared.NewValidationError("INVALID_INVOICE_NUMBER", "invoice number must be 1-20 characters")
	}
	if spec.DateIssued.IsZero() || spec.DueDate.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "issue date and due date are required")
	}
	if dateOf(spec.DueDate).Before(dateOf(spec.DateIssued)) {
		return nil, shared.NewValidationError("INVALID_DUE_DATE", "due date cannot be before the issue date")
	}
	if err := shared.ValidateAmount("total amount", spec.TotalAmount); err != nil {
		return nil, err
	}

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        spec.CustomerID,
		OrderID:           spec.OrderID,
		InvoiceNumber:     number,
		DateIssued:        spec.DateIssued,
		DueDate:           spec.DueDate,
		Status:            InvoiceStatusDraft,
		TotalAmount:       spec.TotalAmount,
		AmountPaid:        decimal.Zero,
	}, nil
}

// Outstanding returns the amount still owed
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.TotalAmount.Sub(i.AmountPaid)
}

// Send issues the invoice to the customer
func (i *Invoice) Send() error {
	if err := i.transitionTo(InvoiceStatusSent); err != nil {
		return err
	}
	i.AddDomainEvent(NewInvoiceSentEvent(i))
	return nil
}

// RecordPayment registers a payment against the outstanding amount and
// returns it. The invoice becomes paid once nothing is outstanding.
func (i *Invoice) RecordPayment(amount decimal.Decimal, method PaymentMethod, datePaid time.Time) (*Payment, error) {
	if !i.Status.AcceptsPayments() {
		return nil, shared.NewConflictError("INVOICE_NOT_PAYABLE",
			fmt.Sprintf("invoice %s is %s, payments are accepted on sent or overdue invoices", i.InvoiceNumber, i.Status))
	}
	payment, err := NewPayment(i.ID, amount, method, datePaid)
	if err != nil {
		return nil, err
	}
	outstanding := i.Outstanding()
	if amount.GreaterThan(outstanding) {
		return nil, shared.NewValidationError("OVERPAYMENT",
			fmt.Sprintf("payment %s exceeds outstanding amount %s",
				amount.StringFixed(shared.MoneyScale), outstanding.StringFixed(shared.MoneyScale)))
	}

	i.AmountPaid = i.AmountPaid.Add(amount)
	i.UpdatedAt = time.Now()
	i.AddDomainEvent(NewPaymentRecordedEvent(i, payment))

	if !i.Outstanding().IsPositive() {
		if err := i.transitionTo(InvoiceStatusPaid); err != nil {
			return nil, err
		}
		i.AddDomainEvent(NewInvoicePaidEvent(i))
	}
	return payment, nil
}

// IsOverdueAt reports whether the invoice is sent, still owes money and its
// due date lies before the calendar day of now
func (i *Invoice) IsOverdueAt(now time.Time) bool {
	return i.Status == InvoiceStatusSent &&
		i.Outstanding().IsPositive() &&
		dateOf(i.DueDate).Before(dateOf(now))
}

// MarkOverdue flags the invoice as overdue when IsOverdueAt holds and
// reports whether it changed
func (i *Invoice) MarkOverdue(now time.Time) bool {
	if !i.IsOverdueAt(now) {
		return false
	}
	i.Status = InvoiceStatusOverdue
	i.UpdatedAt = time.Now()
	i.AddDomainEvent(NewInvoiceOverdueEvent(i))
	return true
}

// VerifyPayments compares AmountPaid with the sum of the payment rows
func (i *Invoice) VerifyPayments(paymentsSum decimal.Decimal) error {
	if !i.AmountPaid.Equal(paymentsSum) {
		return shared.NewConsistencyError("PAYMENT_MISMATCH",
			fmt.Sprintf("invoice %s stores amount paid %s but its payments sum to %s",
				i.InvoiceNumber, i.AmountPaid.StringFixed(shared.MoneyScale), paymentsSum.StringFixed(shared.MoneyScale)))
	}
	return nil
}

func (i *Invoice) transitionTo(target InvoiceStatus) error {
	if !i.Status.CanTransitionTo(target) {
		return shared.NewConflictError("INVALID_TRANSITION",
			fmt.Sprintf("invoice %s cannot move from %s to %s", i.InvoiceNumber, i.Status, target))
	}
	i.Status = target
	i.UpdatedAt = time.Now()
	return nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
