package persistence

import (
	"context"
	"strings"

	"github.com/22Jason22/ferremateriales/internal/domain/partner"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "customer")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a customer and locks its row
func (r *GormCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "customer")
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter partner.CustomerFilter) ([]partner.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(tax_id) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ClientType != "" {
		query = query.Where("client_type = ?", filter.ClientType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "customer")
	}

	var customerModels []models.CustomerModel
	if err := applyOrderAndPage(query, filter.Filter, CustomerSortFields, "name").
		Find(&customerModels).Error; err != nil {
		return nil, 0, translateError(err, "customer")
	}

	customers := make([]partner.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers, total, nil
}

// ExistsByTaxID reports whether another customer uses taxID
func (r *GormCustomerRepository) ExistsByTaxID(ctx context.Context, taxID string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "tax_id = ?", strings.TrimSpace(taxID), excludeID)
}

// ExistsByEmail reports whether another customer uses email, ignoring case
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	return r.exists(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)), excludeID)
}

func (r *GormCustomerRepository) exists(ctx context.Context, cond string, value string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where(cond, value)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translateError(err, "customer")
	}
	return count > 0, nil
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(models.CustomerModelFromDomain(customer)).Error, "customer")
}

// SaveWithLock updates the customer with an optimistic version check
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	result := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("id = ? AND version = ?", customer.ID, customer.Version).
		Updates(map[string]any{
			"name":          customer.Name,
			"tax_id":        customer.TaxID,
			"email":         customer.Email,
			"contact_name":  customer.ContactName,
			"phone":         customer.Phone,
			"address":       customer.Address,
			"client_type":   customer.ClientType,
			"status":        customer.Status,
			"last_purchase": customer.LastPurchase,
			"version":       customer.Version + 1,
			"updated_at":    customer.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "customer")
	}
	if result.RowsAffected == 0 {
		return shared.ErrVersionConflict
	}
	customer.IncrementVersion()
	return nil
}

// Delete removes a customer. Callers check for referencing orders and
// invoices first.
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CustomerModel{})
	if result.Error != nil {
		return translateError(result.Error, "customer")
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("customer")
	}
	return nil
}
