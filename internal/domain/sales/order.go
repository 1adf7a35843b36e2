package sales

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type name used in events
const AggregateTypeOrder = "Order"

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

// OrderItem is a line of an order
type OrderItem struct {
	LineItem
	OrderID uuid.UUID
}

// Order is a customer's sales order. It is the aggregate root for its items
// and its total.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID
	OrderNumber string
	QuoteID     *uuid.UUID
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Date        time.Time
	Items       []OrderItem
}

// OrderSpec carries the full record of an order as submitted by a client.
// ClaimedTotal, when present, is checked against the computed total.
type OrderSpec struct {
	CustomerID   uuid.UUID
	OrderNumber  string
	Date         time.Time
	Items        []ItemSpec
	ClaimedTotal *decimal.Decimal
}

// NewOrder creates a pending order and computes its total
func NewOrder(spec OrderSpec) (*Order, error) {
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            OrderStatusPending,
	}
	if err := o.apply(spec); err != nil {
		return nil, err
	}
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// Replace overwrites the whole order with spec. Only pending orders can be
// edited.
func (o *Order) Replace(spec OrderSpec) error {
	if o.Status != OrderStatusPending {
		return shared.NewConflictError("ORDER_NOT_EDITABLE",
			fmt.Sprintf("order %s is %s, only pending orders can be edited", o.OrderNumber, o.Status))
	}
	if spec.OrderNumber == "" {
		spec.OrderNumber = o.OrderNumber
	}
	if err := o.apply(spec); err != nil {
		return err
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Order) apply(spec OrderSpec) error {
	if spec.CustomerID == uuid.Nil {
		return shared.NewValidationError("INVALID_CUSTOMER", "customer ID cannot be empty")
	}
	number := strings.TrimSpace(spec.OrderNumber)
	if number == "" || len(number) > 20 {
		return shared.NewValidationError("INVALID_ORDER_NUMBER", "order number must be 1-20 characters")
	}
	if spec.Date.IsZero() {
		return shared.NewValidationError("INVALID_DATE", "order date is required")
	}
	lines, err := buildLineItems(spec.Items)
	if err != nil {
		return err
	}
	total := SumLineItems(lines)
	if err := checkClaimedTotal(spec.ClaimedTotal, total); err != nil {
		return err
	}

	o.CustomerID = spec.CustomerID
	o.OrderNumber = number
	o.Date = spec.Date
	o.Items = make([]OrderItem, len(lines))
	for i, line := range lines {
		o.Items[i] = OrderItem{LineItem: line, OrderID: o.ID}
	}
	o.TotalAmount = total
	return nil
}

// TransitionTo moves the order to target. The total is recomputed from the
// items on every transition and a stored total that drifted beyond the
// rounding tolerance is reported instead of silently repaired.
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewConflictError("INVALID_TRANSITION",
			fmt.Sprintf("order %s cannot move from %s to %s", o.OrderNumber, o.Status, target))
	}
	if err := o.VerifyTotal(); err != nil {
		return err
	}

	from := o.Status
	o.TotalAmount = o.ComputeTotal()
	o.Status = target
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))
	return nil
}

// ComputeTotal sums quantity × price over the items
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Recompute())
	}
	return total
}

// VerifyTotal reports a stored total that disagrees with the items
func (o *Order) VerifyTotal() error {
	computed := o.ComputeTotal()
	if !shared.WithinTolerance(o.TotalAmount, computed) {
		return shared.NewConsistencyError("TOTAL_MISMATCH",
			fmt.Sprintf("order %s stores total %s but its items sum to %s",
				o.OrderNumber, o.TotalAmount.StringFixed(shared.MoneyScale), computed.StringFixed(shared.MoneyScale)))
	}
	return nil
}

// ProductQuantities returns the ordered quantity per product and the
// product IDs in ascending order, the order in which rows must be locked
func (o *Order) ProductQuantities() (map[uuid.UUID]decimal.Decimal, []uuid.UUID) {
	quantities := make(map[uuid.UUID]decimal.Decimal, len(o.Items))
	for _, item := range o.Items {
		quantities[item.ProductID] = quantities[item.ProductID].Add(item.Quantity)
	}
	ids := make([]uuid.UUID, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return quantities, ids
}

// IsPending reports whether the order can still be edited
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsShipped reports whether goods left the store
func (o *Order) IsShipped() bool {
	return o.Status == OrderStatusShipped
}
