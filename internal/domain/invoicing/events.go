package invoicing

import (
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeInvoiceSent     = "InvoiceSent"
	EventTypePaymentRecorded = "PaymentRecorded"
	EventTypeInvoicePaid     = "InvoicePaid"
	EventTypeInvoiceOverdue  = "InvoiceOverdue"
)

// InvoiceSentEvent is raised when a draft invoice is issued
type InvoiceSentEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(i *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceSent, AggregateTypeInvoice, i.ID),
		InvoiceNumber:   i.InvoiceNumber,
		CustomerID:      i.CustomerID,
		TotalAmount:     i.TotalAmount,
	}
}

// PaymentRecordedEvent is raised for every accepted payment
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(i *Invoice, p *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeInvoice, i.ID),
		PaymentID:       p.ID,
		CustomerID:      i.CustomerID,
		Amount:          p.Amount,
		Method:          p.Method,
		Outstanding:     i.Outstanding(),
	}
}

// InvoicePaidEvent is raised when nothing is left outstanding
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(i *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, AggregateTypeInvoice, i.ID),
		InvoiceNumber:   i.InvoiceNumber,
		CustomerID:      i.CustomerID,
	}
}

// InvoiceOverdueEvent is raised when a sent invoice passes its due date
// unpaid
type InvoiceOverdueEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// NewInvoiceOverdueEvent creates a new InvoiceOverdueEvent
func NewInvoiceOverdueEvent(i *Invoice) *InvoiceOverdueEvent {
	return &InvoiceOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceOverdue, AggregateTypeInvoice, i.ID),
		InvoiceNumber:   i.InvoiceNumber,
		CustomerID:      i.CustomerID,
		Outstanding:     i.Outstanding(),
	}
}
