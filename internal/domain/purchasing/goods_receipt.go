package purchasing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoodsReceipt records goods arriving for a purchase order
type GoodsReceipt struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID
	ReceiptNumber   string
	Date            time.Time
	ReceivedBy      string
	Items           []GoodsReceiptItem
}

// GoodsReceiptItem is one received product
type GoodsReceiptItem struct {
	ID               uuid.UUID
	ReceiptID        uuid.UUID
	ProductID        uuid.UUID
	QuantityReceived decimal.Decimal
}

// ReceiptSpec carries the input of a goods receipt
type ReceiptSpec struct {
	ReceiptNumber string
	Date          time.Time
	ReceivedBy    string
	Items         []ReceiptItemSpec
}

// ReceiptItemSpec is one received product in a ReceiptSpec
type ReceiptItemSpec struct {
	ProductID        uuid.UUID
	QuantityReceived decimal.Decimal
}

// NewGoodsReceipt validates spec and creates a receipt for purchaseOrderID
func NewGoodsReceipt(purchaseOrderID uuid.UUID, spec ReceiptSpec) (*GoodsReceipt, error) {
	number := strings.TrimSpace(spec.ReceiptNumber)
	if number == "" || len(number) > 20 {
		return nil, shared.NewValidationError("INVALID_RECEIPT_NUMBER", "receipt number must be 1-20 characters")
	}
	if spec.Date.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "receipt date is required")
	}
	receivedBy := strings.TrimSpace(spec.ReceivedBy)
	if receivedBy == "" {
		return nil, shared.NewValidationError("INVALID_RECEIVED_BY", "received by is required")
	}
	if len(spec.Items) == 0 {
		return nil, shared.NewValidationError("NO_ITEMS", "at least one item is required")
	}

	gr := &GoodsReceipt{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: purchaseOrderID,
		ReceiptNumber:   number,
		Date:            spec.Date,
		ReceivedBy:      receivedBy,
		Items:           make([]GoodsReceiptItem, 0, len(spec.Items)),
	}
	for idx, item := range spec.Items {
		if item.ProductID == uuid.Nil {
			return nil, shared.NewValidationError("INVALID_PRODUCT", fmt.Sprintf("items[%d]: product ID cannot be empty", idx))
		}
		if err := shared.ValidateQuantity(fmt.Sprintf("items[%d] quantity received", idx), item.QuantityReceived); err != nil {
			return nil, err
		}
		gr.Items = append(gr.Items, GoodsReceiptItem{
			ID:               uuid.New(),
			ReceiptID:        gr.ID,
			ProductID:        item.ProductID,
			QuantityReceived: item.QuantityReceived,
		})
	}
	return gr, nil
}

// ProductQuantities returns the received quantity per product and the
// product IDs in ascending order, the order in which rows must be locked
func (gr *GoodsReceipt) ProductQuantities() (map[uuid.UUID]decimal.Decimal, []uuid.UUID) {
	quantities := make(map[uuid.UUID]decimal.Decimal, len(gr.Items))
	for _, item := range gr.Items {
		quantities[item.ProductID] = quantities[item.ProductID].Add(item.QuantityReceived)
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
