package persistence

import (
	"context"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements sales.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an order with its items and locks the order row
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindByQuoteID finds the order promoted from a quote
func (r *GormOrderRepository) FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*sales.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("quote_id = ?", quoteID).
		First(&model).Error; err != nil {
		return nil, translateError(err, "order")
	}
	return model.ToDomain(), nil
}

// FindAll lists orders filtered by customer, status and date range
func (r *GormOrderRepository) FindAll(ctx context.Context, filter sales.OrderFilter) ([]sales.Order, int64, error) {
	query := r.filtered(ctx, filter)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", searchPattern(filter.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "order")
	}

	var orderModels []models.OrderModel
	if err := applyOrderAndPage(query, filter.Filter, OrderSortFields, "date").
		Preload("Items").
		Find(&orderModels).Error; err != nil {
		return nil, 0, translateError(err, "order")
	}

	orders := make([]sales.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, total, nil
}

// filtered applies the customer and date filters shared by list and summary
func (r *GormOrderRepository) filtered(ctx context.Context, filter sales.OrderFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	return applyDateRange(query, filter.Filter, "date")
}

// ExistsByNumber reports whether an order number is taken
func (r *GormOrderRepository) ExistsByNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, translateError(err, "order")
	}
	return count > 0, nil
}

// GenerateOrderNumber returns the next PED-YYYY-NNNNN number
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.OrderModel{}, "order_number", "PED")
}

// CountByCustomer counts the orders of a customer
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "order")
	}
	return count, nil
}

// LatestDateByCustomer returns the newest order date of the customer
func (r *GormOrderRepository) LatestDateByCustomer(ctx context.Context, customerID uuid.UUID) (*time.Time, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Select("date").
		Where("customer_id = ?", customerID).
		Order("date DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, translateError(err, "order")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0].Date, nil
}

// Summary totals the orders matching the customer and date filters.
// The status filter is ignored so the pending and delivered counts stay
// meaningful.
func (r *GormOrderRepository) Summary(ctx context.Context, filter sales.OrderFilter) (sales.SalesSummary, error) {
	var row struct {
		TotalAmount    decimal.Decimal
		OrderCount     int64
		PendingCount   int64
		DeliveredCount int64
	}
	if err := r.filtered(ctx, filter).
		Select("COALESCE(SUM(total_amount), 0) AS total_amount, COUNT(*) AS order_count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS delivered_count",
			sales.OrderStatusPending, sales.OrderStatusDelivered).
		Scan(&row).Error; err != nil {
		return sales.SalesSummary{}, translateError(err, "order")
	}
	return sales.SalesSummary{
		TotalAmount:    storedDecimal(row.TotalAmount),
		OrderCount:     row.OrderCount,
		PendingCount:   row.PendingCount,
		DeliveredCount: row.DeliveredCount,
	}, nil
}

// Create inserts the order with its items
func (r *GormOrderRepository) Create(ctx context.Context, order *sales.Order) error {
	return translateError(r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error, "order")
}

// SaveWithLock updates the order with an optimistic version check and
// replaces its items
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *sales.Order) error {
	model := models.OrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]any{
				"customer_id":  order.CustomerID,
				"order_number": order.OrderNumber,
				"quote_id":     order.QuoteID,
				"status":       order.Status,
				"total_amount": order.TotalAmount,
				"date":         order.Date,
				"version":      order.Version + 1,
				"updated_at":   order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrVersionConflict
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			return tx.Create(&model.Items).Error
		}
		return nil
	})
	if err != nil {
		return translateError(err, "order")
	}
	order.IncrementVersion()
	return nil
}

// DeleteWithItems removes the items and then the order
func (r *GormOrderRepository) DeleteWithItems(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.OrderModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}), "order")
}
