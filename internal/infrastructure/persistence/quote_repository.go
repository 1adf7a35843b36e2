package persistence

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuoteRepository implements sales.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote with its items
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "quote")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a quote with its items and locks the quote row
func (r *GormQuoteRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "quote")
	}
	return model.ToDomain(), nil
}

// ExistsByNumber reports whether a quote number is taken
func (r *GormQuoteRepository) ExistsByNumber(ctx context.Context, quoteNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.QuoteModel{}).
		Where("quote_number = ?", quoteNumber).
		Count(&count).Error; err != nil {
		return false, translateError(err, "quote")
	}
	return count > 0, nil
}

// GenerateQuoteNumber returns the next COT-YYYY-NNNNN number
func (r *GormQuoteRepository) GenerateQuoteNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.QuoteModel{}, "quote_number", "COT")
}

// CountByCustomer counts the quotes of a customer
func (r *GormQuoteRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.QuoteModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "quote")
	}
	return count, nil
}

// Create inserts the quote with its items
func (r *GormQuoteRepository) Create(ctx context.Context, quote *sales.Quote) error {
	return translateError(r.db.WithContext(ctx).Create(models.QuoteModelFromDomain(quote)).Error, "quote")
}

// SaveWithLock updates the quote with an optimistic version check and
// replaces its items
func (r *GormQuoteRepository) SaveWithLock(ctx context.Context, quote *sales.Quote) error {
	model := models.QuoteModelFromDomain(quote)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.QuoteModel{}).
			Where("id = ? AND version = ?", quote.ID, quote.Version).
			Updates(map[string]any{
				"customer_id":  quote.CustomerID,
				"quote_number": quote.QuoteNumber,
				"date":         quote.Date,
				"status":       quote.Status,
				"total_amount": quote.TotalAmount,
				"version":      quote.Version + 1,
				"updated_at":   quote.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrVersionConflict
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			return tx.Create(&model.Items).Error
		}
		return nil
	})
	if err != nil {
		return translateError(err, "quote")
	}
	quote.IncrementVersion()
	return nil
}

// DeleteWithItems removes the items and then the quote
func (r *GormQuoteRepository) DeleteWithItems(ctx context.Context, id uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.QuoteModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}), "quote")
}
