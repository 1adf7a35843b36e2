package purchasing

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderFilter narrows purchase order list queries
type PurchaseOrderFilter struct {
	shared.Filter
	SupplierID *uuid.UUID
	Status     PurchaseOrderStatus
}

// PurchaseOrderRepository persists PurchaseOrder aggregates with their items
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter PurchaseOrderFilter) ([]PurchaseOrder, int64, error)
	ExistsByNumber(ctx context.Context, orderNumber string) (bool, error)
	// GeneratePurchaseOrderNumber returns the next free number, OC-YYYY-NNNNN
	GeneratePurchaseOrderNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, po *PurchaseOrder) error
	// SaveWithLock updates the order if its version is unchanged, including
	// the received quantities of its items
	SaveWithLock(ctx context.Context, po *PurchaseOrder) error
	DeleteWithItems(ctx context.Context, id uuid.UUID) error
}

// GoodsReceiptRepository persists goods receipts with their items
type GoodsReceiptRepository interface {
	Create(ctx context.Context, receipt *GoodsReceipt) error
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]GoodsReceipt, error)
	ExistsByNumber(ctx context.Context, receiptNumber string) (bool, error)
}
