package persistence

import (
	"context"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/invoicing"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "invoice")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an invoice and locks its row
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "invoice")
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices filtered by customer, status and issue date
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter invoicing.InvoiceFilter) ([]invoicing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(invoice_number) LIKE ?", searchPattern(filter.Search))
	}
	query = applyDateRange(query, filter.Filter, "date_issued")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "invoice")
	}

	var invoiceModels []models.InvoiceModel
	if err := applyOrderAndPage(query, filter.Filter, InvoiceSortFields, "date_issued").
		Find(&invoiceModels).Error; err != nil {
		return nil, 0, translateError(err, "invoice")
	}

	invoices := make([]invoicing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices, total, nil
}

// FindOverdueCandidateIDs returns sent invoices due before asOf. The
// outstanding amount is checked by the caller on the locked row.
func (r *GormInvoiceRepository) FindOverdueCandidateIDs(ctx context.Context, asOf time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("status = ? AND due_date < ?", invoicing.InvoiceStatusSent, asOf).
		Order("due_date ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, translateError(err, "invoice")
	}
	return ids, nil
}

// ExistsByNumber reports whether an invoice number is taken
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error; err != nil {
		return false, translateError(err, "invoice")
	}
	return count > 0, nil
}

// GenerateInvoiceNumber returns the next FAC-YYYY-NNNNN number
func (r *GormInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.InvoiceModel{}, "invoice_number", "FAC")
}

// CountByCustomer counts the invoices of a customer
func (r *GormInvoiceRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "invoice")
	}
	return count, nil
}

// CountByOrder counts the invoices billing an order
func (r *GormInvoiceRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return 0, translateError(err, "invoice")
	}
	return count, nil
}

// Create inserts a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *invoicing.Invoice) error {
	return translateError(r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(invoice)).Error, "invoice")
}

// SaveWithLock updates the invoice with an optimistic version check
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *invoicing.Invoice) error {
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version).
		Updates(map[string]any{
			"status":      invoice.Status,
			"due_date":    invoice.DueDate,
			"amount_paid": invoice.AmountPaid,
			"version":     invoice.Version + 1,
			"updated_at":  invoice.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "invoice")
	}
	if result.RowsAffected == 0 {
		return shared.ErrVersionConflict
	}
	invoice.IncrementVersion()
	return nil
}

// GormPaymentRepository implements invoicing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create appends a payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *invoicing.Payment) error {
	return translateError(r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(payment)).Error, "payment")
}

// FindByInvoice returns the payments of an invoice, oldest first
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]invoicing.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("date_paid ASC").
		Order("created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, translateError(err, "payment")
	}
	payments := make([]invoicing.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = *paymentModels[i].ToDomain()
	}
	return payments, nil
}

// SumByInvoice totals the payments of an invoice
func (r *GormPaymentRepository) SumByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Select("COALESCE(SUM(amount_paid), 0) AS total").
		Where("invoice_id = ?", invoiceID).
		Scan(&row).Error; err != nil {
		return decimal.Zero, translateError(err, "payment")
	}
	return storedDecimal(row.Total), nil
}
