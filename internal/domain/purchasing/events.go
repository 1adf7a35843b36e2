package purchasing

import (
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
)

// EventTypeGoodsReceived is raised for every posted goods receipt
const EventTypeGoodsReceived = "GoodsReceived"

// GoodsReceivedEvent is raised when goods are booked against a purchase order
type GoodsReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string             `json:"order_number"`
	SupplierID    uuid.UUID          `json:"supplier_id"`
	ReceiptID     uuid.UUID          `json:"receipt_id"`
	ReceiptNumber string             `json:"receipt_number"`
	Items         []GoodsReceiptItem `json:"items"`
}

// NewGoodsReceivedEvent creates a new GoodsReceivedEvent
func NewGoodsReceivedEvent(po *PurchaseOrder, gr *GoodsReceipt) *GoodsReceivedEvent {
	return &GoodsReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceived, AggregateTypePurchaseOrder, po.ID),
		OrderNumber:     po.OrderNumber,
		SupplierID:      po.SupplierID,
		ReceiptID:       gr.ID,
		ReceiptNumber:   gr.ReceiptNumber,
		Items:           gr.Items,
	}
}
