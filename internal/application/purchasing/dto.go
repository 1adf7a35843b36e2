package purchasing

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/purchasing"
	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is one line of a purchase order
type ItemInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PurchaseOrderInput is the command to order goods from a supplier. A blank
// order number is generated.
type PurchaseOrderInput struct {
	SupplierID  uuid.UUID   `json:"supplier_id" validate:"required"`
	OrderNumber string      `json:"order_number" validate:"max=20"`
	Date        time.Time   `json:"date" validate:"required"`
	Items       []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// TransitionPurchaseOrderInput moves a purchase order to another status
type TransitionPurchaseOrderInput struct {
	Status string `json:"status" validate:"required,oneof=draft sent confirmed received cancelled"`
}

// ReceiptItemInput is one received product
type ReceiptItemInput struct {
	ProductID        uuid.UUID       `json:"product_id" validate:"required"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
}

// ReceiveGoodsInput is the command to book a goods receipt
type ReceiveGoodsInput struct {
	ReceiptNumber string             `json:"receipt_number" validate:"required,max=20"`
	Date          time.Time          `json:"date" validate:"required"`
	ReceivedBy    string             `json:"received_by" validate:"required,max=100"`
	Items         []ReceiptItemInput `json:"items" validate:"required,min=1,dive"`
}

// PurchaseOrderListFilter represents filter options for the purchase order list
type PurchaseOrderListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     string     `form:"status"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// PurchaseOrderItemResponse represents a purchase order line in API responses
type PurchaseOrderItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Total            decimal.Decimal `json:"total"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Remaining        decimal.Decimal `json:"remaining"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID          uuid.UUID                   `json:"id"`
	SupplierID  uuid.UUID                   `json:"supplier_id"`
	OrderNumber string                      `json:"order_number"`
	Date        time.Time                   `json:"date"`
	Status      string                      `json:"status"`
	TotalAmount decimal.Decimal             `json:"total_amount"`
	Items       []PurchaseOrderItemResponse `json:"items"`
	Version     int                         `json:"version"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// ReceiptItemResponse represents a received product in API responses
type ReceiptItemResponse struct {
	ProductID        uuid.UUID       `json:"product_id"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
}

// ReceiptResponse represents a goods receipt in API responses
type ReceiptResponse struct {
	ID              uuid.UUID             `json:"id"`
	PurchaseOrderID uuid.UUID             `json:"purchase_order_id"`
	ReceiptNumber   string                `json:"receipt_number"`
	Date            time.Time             `json:"date"`
	ReceivedBy      string                `json:"received_by"`
	Items           []ReceiptItemResponse `json:"items"`
}

// ReceiveResultResponse is a booked receipt with the purchase order it left
type ReceiveResultResponse struct {
	Receipt       ReceiptResponse       `json:"receipt"`
	PurchaseOrder PurchaseOrderResponse `json:"purchase_order"`
}

// PurchaseOrderDetailResponse is a purchase order with its receipts
type PurchaseOrderDetailResponse struct {
	PurchaseOrderResponse
	Receipts []ReceiptResponse `json:"receipts"`
}

func itemSpecs(items []ItemInput) []sales.ItemSpec {
	specs := make([]sales.ItemSpec, len(items))
	for i, item := range items {
		specs[i] = sales.ItemSpec{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return specs
}

func receiptSpec(input ReceiveGoodsInput) purchasing.ReceiptSpec {
	items := make([]purchasing.ReceiptItemSpec, len(input.Items))
	for i, item := range input.Items {
		items[i] = purchasing.ReceiptItemSpec{
			ProductID:        item.ProductID,
			QuantityReceived: item.QuantityReceived,
		}
	}
	return purchasing.ReceiptSpec{
		ReceiptNumber: input.ReceiptNumber,
		Date:          input.Date,
		ReceivedBy:    input.ReceivedBy,
		Items:         items,
	}
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to PurchaseOrderResponse
func ToPurchaseOrderResponse(po *purchasing.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(po.Items))
	for i, item := range po.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			Total:            item.Total,
			ReceivedQuantity: item.ReceivedQuantity,
			Remaining:        item.Remaining(),
		}
	}
	return PurchaseOrderResponse{
		ID:          po.ID,
		SupplierID:  po.SupplierID,
		OrderNumber: po.OrderNumber,
		Date:        po.Date,
		Status:      string(po.Status),
		TotalAmount: po.TotalAmount,
		Items:       items,
		Version:     po.Version,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
}

// ToReceiptResponse converts a domain GoodsReceipt to ReceiptResponse
func ToReceiptResponse(gr *purchasing.GoodsReceipt) ReceiptResponse {
	items := make([]ReceiptItemResponse, len(gr.Items))
	for i, item := range gr.Items {
		items[i] = ReceiptItemResponse{
			ProductID:        item.ProductID,
			QuantityReceived: item.QuantityReceived,
		}
	}
	return ReceiptResponse{
		ID:              gr.ID,
		PurchaseOrderID: gr.PurchaseOrderID,
		ReceiptNumber:   gr.ReceiptNumber,
		Date:            gr.Date,
		ReceivedBy:      gr.ReceivedBy,
		Items:           items,
	}
}
