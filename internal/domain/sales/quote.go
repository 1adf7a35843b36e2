package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeQuote is the aggregate type name used in events
const AggregateTypeQuote = "Quote"

// QuoteStatus represents the status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// IsValid checks if the status is a valid QuoteStatus
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuoteStatus) CanTransitionTo(target QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return target == QuoteStatusSent || target == QuoteStatusRejected
	case QuoteStatusSent:
		return target == QuoteStatusAccepted || target == QuoteStatusRejected
	case QuoteStatusAccepted, QuoteStatusRejected:
		return false
	}
	return false
}

// QuoteItem is a line of a quote
type QuoteItem struct {
	LineItem
	QuoteID uuid.UUID
}

// Quote is a priced offer to a customer that can be promoted to an order
type Quote struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID
	QuoteNumber string
	Date        time.Time
	Status      QuoteStatus
	TotalAmount decimal.Decimal
	Items       []QuoteItem
}

// QuoteSpec carries the full record of a quote
type QuoteSpec struct {
	CustomerID  uuid.UUID
	QuoteNumber string
	Date        time.Time
	Items       []ItemSpec
}

// NewQuote creates a draft quote
func NewQuote(spec QuoteSpec) (*Quote, error) {
	if spec.CustomerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "customer ID cannot be empty")
	}
	number := strings.TrimSpace(spec.QuoteNumber)
	if number == "" || len(number) > 20 {
		return nil, shared.NewValidationError("INVALID_QUOTE_NUMBER", "quote number must be 1-20 characters")
	}
	if spec.Date.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "quote date is required")
	}
	lines, err := buildLineItems(spec.Items)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        spec.CustomerID,
		QuoteNumber:       number,
		Date:              spec.Date,
		Status:            QuoteStatusDraft,
		TotalAmount:       SumLineItems(lines),
		Items:             make([]QuoteItem, len(lines)),
	}
	for i, line := range lines {
		q.Items[i] = QuoteItem{LineItem: line, QuoteID: q.ID}
	}
	return q, nil
}

// Send marks the quote as sent to the customer
func (q *Quote) Send() error {
	return q.transitionTo(QuoteStatusSent)
}

// Accept records the customer's acceptance
func (q *Quote) Accept() error {
	return q.transitionTo(QuoteStatusAccepted)
}

// Reject records the customer's rejection
func (q *Quote) Reject() error {
	return q.transitionTo(QuoteStatusRejected)
}

func (q *Quote) transitionTo(target QuoteStatus) error {
	if !q.Status.CanTransitionTo(target) {
		return shared.NewConflictError("INVALID_TRANSITION",
			fmt.Sprintf("quote %s cannot move from %s to %s", q.QuoteNumber, q.Status, target))
	}
	q.Status = target
	q.UpdatedAt = time.Now()
	return nil
}

// Promote creates a pending order from the quote. Items are copied as they
// stand now, quantities, prices and totals included; later changes to the
// quote do not reach the order. A sent quote becomes accepted.
func (q *Quote) Promote(orderNumber string, date time.Time) (*Order, error) {
	switch q.Status {
	case QuoteStatusSent:
		if err := q.Accept(); err != nil {
			return nil, err
		}
	case QuoteStatusAccepted:
	default:
		return nil, shared.NewConflictError("QUOTE_NOT_PROMOTABLE",
			fmt.Sprintf("quote %s is %s, only sent or accepted quotes can become orders", q.QuoteNumber, q.Status))
	}
	if date.IsZero() {
		date = q.Date
	}
	number := strings.TrimSpace(orderNumber)
	if number == "" || len(number) > 20 {
		return nil, shared.NewValidationError("INVALID_ORDER_NUMBER", "order number must be 1-20 characters")
	}

	quoteID := q.ID
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        q.CustomerID,
		OrderNumber:       number,
		QuoteID:           &quoteID,
		Status:            OrderStatusPending,
		Date:              date,
		Items:             make([]OrderItem, len(q.Items)),
	}
	for i, qi := range q.Items {
		line := qi.LineItem
		line.ID = uuid.New()
		o.Items[i] = OrderItem{LineItem: line, OrderID: o.ID}
	}
	o.TotalAmount = o.ComputeTotal()

	o.AddDomainEvent(NewOrderCreatedEvent(o))
	q.AddDomainEvent(NewQuotePromotedEvent(q, o))
	return o, nil
}
