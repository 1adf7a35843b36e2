package persistence

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/purchasing"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements purchasing.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "purchase order")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a purchase order and locks its row
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "purchase order")
	}
	return model.ToDomain(), nil
}

// FindAll lists purchase orders filtered by supplier, status and date
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter purchasing.PurchaseOrderFilter) ([]purchasing.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{})
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", searchPattern(filter.Search))
	}
	query = applyDateRange(query, filter.Filter, "date")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "purchase order")
	}

	var poModels []models.PurchaseOrderModel
	if err := applyOrderAndPage(query, filter.Filter, PurchaseOrderSortFields, "date").
		Preload("Items").
		Find(&poModels).Error; err != nil {
		return nil, 0, translateError(err, "purchase order")
	}

	orders := make([]purchasing.PurchaseOrder, len(poModels))
	for i := range poModels {
		orders[i] = *poModels[i].ToDomain()
	}
	return orders, total, nil
}

// ExistsByNumber reports whether a purchase order number is taken
func (r *GormPurchaseOrderRepository) ExistsByNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, translateError(err, "purchase order")
	}
	return count > 0, nil
}

// GeneratePurchaseOrderNumber returns the next OC-YYYY-NNNNN number
func (r *GormPurchaseOrderRepository) GeneratePurchaseOrderNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.PurchaseOrderModel{}, "order_number", "OC")
}

// Create inserts the purchase order with its items
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, po *purchasing.PurchaseOrder) error {
	return translateError(r.db.WithContext(ctx).Create(models.PurchaseOrderModelFromDomain(po)).Error, "purchase order")
}

// SaveWithLock updates the header with an optimistic version check and
// writes the received quantity of every item
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *purchasing.PurchaseOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PurchaseOrderModel{}).
			Where("id = ? AND version = ?", po.ID, po.Version).
			Updates(map[string]any{
				"status":       po.Status,
				"total_amount": po.TotalAmount,
				"version":      po.Version + 1,
				"updated_at":   po.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrVersionConflict
		}
		for _, item := range po.Items {
			if err := tx.Model(&models.PurchaseOrderItemModel{}).
				Where("id = ? AND purchase_order_id = ?", item.ID, po.ID).
				Update("received_quantity", item.ReceivedQuantity).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translateError(err, "purchase order")
	}
	po.IncrementVersion()
	return nil
}

// DeleteWithItems removes the receipts, the items and then the purchase order
func (r *GormPurchaseOrderRepository) DeleteWithItems(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		receipts := tx.Model(&models.GoodsReceiptModel{}).Select("id").Where("purchase_order_id = ?", id)
		if err := tx.Where("receipt_id IN (?)", receipts).Delete(&models.GoodsReceiptItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("purchase_order_id = ?", id).Delete(&models.GoodsReceiptModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("purchase_order_id = ?", id).Delete(&models.PurchaseOrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.PurchaseOrderModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}), "purchase order")
}

// GormGoodsReceiptRepository implements purchasing.GoodsReceiptRepository using GORM
type GormGoodsReceiptRepository struct {
	db *gorm.DB
}

// NewGormGoodsReceiptRepository creates a new GormGoodsReceiptRepository
func NewGormGoodsReceiptRepository(db *gorm.DB) *GormGoodsReceiptRepository {
	return &GormGoodsReceiptRepository{db: db}
}

// Create inserts the receipt with its items
func (r *GormGoodsReceiptRepository) Create(ctx context.Context, receipt *purchasing.GoodsReceipt) error {
	return translateError(r.db.WithContext(ctx).Create(models.GoodsReceiptModelFromDomain(receipt)).Error, "goods receipt")
}

// FindByPurchaseOrder returns the receipts booked against a purchase order
func (r *GormGoodsReceiptRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]purchasing.GoodsReceipt, error) {
	var receiptModels []models.GoodsReceiptModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("date ASC").
		Order("created_at ASC").
		Find(&receiptModels).Error; err != nil {
		return nil, translateError(err, "goods receipt")
	}
	receipts := make([]purchasing.GoodsReceipt, len(receiptModels))
	for i := range receiptModels {
		receipts[i] = *receiptModels[i].ToDomain()
	}
	return receipts, nil
}

// ExistsByNumber reports whether a receipt number is taken
func (r *GormGoodsReceiptRepository) ExistsByNumber(ctx context.Context, receiptNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GoodsReceiptModel{}).
		Where("receipt_number = ?", receiptNumber).
		Count(&count).Error; err != nil {
		return false, translateError(err, "goods receipt")
	}
	return count > 0, nil
}
