package purchasing

import (
	"fmt"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypePurchaseOrder is the aggregate type name used in events
const AggregateTypePurchaseOrder = "PurchaseOrder"

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSent      PurchaseOrderStatus = "sent"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "confirmed"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSent, PurchaseOrderStatusConfirmed,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// received is only reached through goods receipts.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSent || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusSent:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return false
	}
	return false
}

// IsDeletable reports whether a purchase order in this status may be removed
func (s PurchaseOrderStatus) IsDeletable() bool {
	return s == PurchaseOrderStatusDraft || s == PurchaseOrderStatusCancelled
}

// PurchaseOrderItem is a line of a purchase order. ReceivedQuantity is the
// running sum of the goods receipts posted against it.
type PurchaseOrderItem struct {
	sales.LineItem
	PurchaseOrderID  uuid.UUID
	ReceivedQuantity decimal.Decimal
}

// Remaining returns the quantity still to be received
func (i PurchaseOrderItem) Remaining() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// PurchaseOrder is an order placed with a supplier
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	SupplierID  uuid.UUID
	OrderNumber string
	Date        time.Time
	Status      PurchaseOrderStatus
	TotalAmount decimal.Decimal
	Items       []PurchaseOrderItem
}

// PurchaseOrderSpec carries the input of a new purchase order
type PurchaseOrderSpec struct {
	SupplierID  uuid.UUID
	OrderNumber string
	Date        time.Time
	Items       []sales.ItemSpec
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(spec PurchaseOrderSpec) (*PurchaseOrder, error) {
	if spec.SupplierID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_SUPPLIER", "supplier ID cannot be empty")
	}
	number := strings.TrimSpace(spec.OrderNumber)
	if number == "" || len(number) > 20 {
		return nil, shared.NewValidationError("INVALID_ORDER_NUMBER", "order number must be 1-20 characters")
	}
	if spec.Date.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "order date is required")
	}
	if len(spec.Items) == 0 {
		return nil, shared.NewValidationError("NO_ITEMS", "at least one item is required")
	}

	po := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        spec.SupplierID,
		OrderNumber:       number,
		Date:              spec.Date,
		Status:            PurchaseOrderStatusDraft,
		Items:             make([]PurchaseOrderItem, 0, len(spec.Items)),
	}
	lines := make([]sales.LineItem, 0, len(spec.Items))
	for idx, itemSpec := range spec.Items {
		line, err := sales.NewLineItem(itemSpec)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", idx, err)
		}
		lines = append(lines, line)
		po.Items = append(po.Items, PurchaseOrderItem{
			LineItem:         line,
			PurchaseOrderID:  po.ID,
			ReceivedQuantity: decimal.Zero,
		})
	}
	po.TotalAmount = sales.SumLineItems(lines)
	return po, nil
}

// TransitionTo moves the purchase order to target
func (po *PurchaseOrder) TransitionTo(target PurchaseOrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("unknown purchase order status %q", target))
	}
	if target == PurchaseOrderStatusReceived {
		return shared.NewConflictError("INVALID_TRANSITION", "purchase orders become received through goods receipts")
	}
	return po.transitionTo(target)
}

func (po *PurchaseOrder) transitionTo(target PurchaseOrderStatus) error {
	if !po.Status.CanTransitionTo(target) {
		return shared.NewConflictError("INVALID_TRANSITION",
			fmt.Sprintf("purchase order %s cannot move from %s to %s", po.OrderNumber, po.Status, target))
	}
	po.Status = target
	po.UpdatedAt = time.Now()
	return nil
}

// IsFullyReceived reports whether every line was received in full
func (po *PurchaseOrder) IsFullyReceived() bool {
	for _, item := range po.Items {
		if item.Remaining().IsPositive() {
			return false
		}
	}
	return true
}

// Receive books a goods receipt against the purchase order. Quantities are
// allocated to the lines of each product in order; receiving more than is
// still open for a product fails and changes nothing. The order becomes
// received once every line is complete.
func (po *PurchaseOrder) Receive(spec ReceiptSpec) (*GoodsReceipt, error) {
	if po.Status != PurchaseOrderStatusConfirmed {
		return nil, shared.NewConflictError("PURCHASE_ORDER_NOT_RECEIVABLE",
			fmt.Sprintf("purchase order %s is %s, only confirmed orders can receive goods", po.OrderNumber, po.Status))
	}
	receipt, err := NewGoodsReceipt(po.ID, spec)
	if err != nil {
		return nil, err
	}

	remaining := make(map[uuid.UUID]decimal.Decimal, len(po.Items))
	for _, item := range po.Items {
		remaining[item.ProductID] = remaining[item.ProductID].Add(item.Remaining())
	}
	for _, ri := range receipt.Items {
		open, ok := remaining[ri.ProductID]
		if !ok {
			return nil, shared.NewValidationError("PRODUCT_NOT_ON_ORDER",
				fmt.Sprintf("product %s is not on purchase order %s", ri.ProductID, po.OrderNumber))
		}
		if ri.QuantityReceived.GreaterThan(open) {
			return nil, shared.NewValidationError("OVER_RECEIPT",
				fmt.Sprintf("product %s: receiving %s but only %s is open", ri.ProductID, ri.QuantityReceived, open))
		}
		remaining[ri.ProductID] = open.Sub(ri.QuantityReceived)
	}

	for _, ri := range receipt.Items {
		left := ri.QuantityReceived
		for i := range po.Items {
			if !left.IsPositive() {
				break
			}
			if po.Items[i].ProductID != ri.ProductID {
				continue
			}
			take := decimal.Min(left, po.Items[i].Remaining())
			if !take.IsPositive() {
				continue
			}
			po.Items[i].ReceivedQuantity = po.Items[i].ReceivedQuantity.Add(take)
			left = left.Sub(take)
		}
	}

	po.UpdatedAt = time.Now()
	po.AddDomainEvent(NewGoodsReceivedEvent(po, receipt))
	if po.IsFullyReceived() {
		if err := po.transitionTo(PurchaseOrderStatusReceived); err != nil {
			return nil, err
		}
	}
	return receipt, nil
}
