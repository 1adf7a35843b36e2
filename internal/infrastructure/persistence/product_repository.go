package persistence

import (
	"context"
	"strings"

	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "product")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a product and locks its row
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "product")
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the given products ordered by ID. Missing IDs are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&productModels).Error; err != nil {
		return nil, translateError(err, "product")
	}
	return productsToDomain(productModels), nil
}

// FindAll lists products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	switch {
	case filter.OutOfStock:
		query = query.Where("current_stock <= 0")
	case filter.LowStock:
		query = query.Where("current_stock > 0 AND current_stock < ?", catalog.LowStockThreshold)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "product")
	}

	var productModels []models.ProductModel
	if err := applyOrderAndPage(query, filter.Filter, ProductSortFields, "name").
		Find(&productModels).Error; err != nil {
		return nil, 0, translateError(err, "product")
	}
	return productsToDomain(productModels), total, nil
}

// ExistsByName reports whether another product already uses name,
// ignoring case
func (r *GormProductRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translateError(err, "product")
	}
	return count > 0, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Create(models.ProductModelFromDomain(product)).Error, "product")
}

// SaveWithLock updates the product with an optimistic version check
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]any{
			"name":             product.Name,
			"unit":             product.Unit,
			"category_id":      product.CategoryID,
			"price":            product.Price,
			"discount_percent": product.DiscountPercent,
			"is_new":           product.IsNew,
			"current_stock":    product.CurrentStock,
			"description":      product.Description,
			"version":          product.Version + 1,
			"updated_at":       product.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "product")
	}
	if result.RowsAffected == 0 {
		return shared.ErrVersionConflict
	}
	product.IncrementVersion()
	return nil
}

// CountStock counts all, out-of-stock and low-stock products
func (r *GormProductRepository) CountStock(ctx context.Context) (catalog.StockCounts, error) {
	var counts catalog.StockCounts
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN current_stock <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock, "+
			"COALESCE(SUM(CASE WHEN current_stock > 0 AND current_stock < ? THEN 1 ELSE 0 END), 0) AS low_stock",
			catalog.LowStockThreshold).
		Scan(&counts).Error; err != nil {
		return catalog.StockCounts{}, translateError(err, "product")
	}
	return counts, nil
}

func productsToDomain(productModels []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products
}
