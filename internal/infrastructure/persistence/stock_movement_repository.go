package persistence

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements inventory.StockMovementRepository
// using GORM. Rows are only ever inserted.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create inserts a movement
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return translateError(r.db.WithContext(ctx).Create(models.StockMovementModelFromDomain(movement)).Error, "stock movement")
}

// FindByProduct lists one page of a product's movements
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter inventory.MovementFilter) ([]inventory.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).Where("product_id = ?", productID)
	query = applyDateRange(query, filter.Filter, "date")
	if filter.Direction != "" {
		query = query.Where("is_inbound = ?", filter.Direction.IsInbound())
	}
	if filter.Reason != "" {
		query = query.Where("reason = ?", filter.Reason)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "stock movement")
	}

	var movementModels []models.StockMovementModel
	if err := applyOrderAndPage(query, filter.Filter, MovementSortFields, "date").
		Find(&movementModels).Error; err != nil {
		return nil, 0, translateError(err, "stock movement")
	}
	return movementsToDomain(movementModels), total, nil
}

// FindAllByProduct returns every movement of a product, oldest first
func (r *GormStockMovementRepository) FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockMovement, error) {
	var movementModels []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date ASC").Order("created_at ASC").
		Find(&movementModels).Error; err != nil {
		return nil, translateError(err, "stock movement")
	}
	return movementsToDomain(movementModels), nil
}

// SumByProduct aggregates inbound and outbound quantities in SQL
func (r *GormStockMovementRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var sums struct {
		Inbound  decimal.Decimal
		Outbound decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
		Select("COALESCE(SUM(CASE WHEN is_inbound = ? THEN quantity ELSE 0 END), 0) AS inbound, "+
			"COALESCE(SUM(CASE WHEN is_inbound = ? THEN quantity ELSE 0 END), 0) AS outbound", true, false).
		Where("product_id = ?", productID).
		Scan(&sums).Error; err != nil {
		return decimal.Zero, decimal.Zero, translateError(err, "stock movement")
	}
	return storedDecimal(sums.Inbound), storedDecimal(sums.Outbound), nil
}

// CountByProduct counts a product's movements
func (r *GormStockMovementRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "stock movement")
	}
	return count, nil
}

func movementsToDomain(movementModels []models.StockMovementModel) []inventory.StockMovement {
	movements := make([]inventory.StockMovement, len(movementModels))
	for i := range movementModels {
		movements[i] = *movementModels[i].ToDomain()
	}
	return movements
}
