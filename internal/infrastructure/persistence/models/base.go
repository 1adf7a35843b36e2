package models

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
)

// UUID columns are declared char(36) so AutoMigrate works on SQLite and
// MySQL. PostgreSQL tables come from the SQL migrations, which use uuid.

// BaseModel is the identity and timestamps of every row
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID, m.CreatedAt, m.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
}

// AggregateModel adds the version column that guarded updates compare
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot restores identity and version. Pending events are
// never persisted, so a loaded aggregate starts with none.
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain(), Version: m.Version}
}

// AllModels lists every model with referenced tables first, the order
// AutoMigrate needs on SQLite and MySQL
func AllModels() []any {
	return []any{
		&AccountModel{},
		&TransactionModel{},
		&TransactionEntryModel{},
		&CategoryModel{},
		&ProductModel{},
		&StockMovementModel{},
		&CustomerModel{},
		&SupplierModel{},
		&QuoteModel{},
		&QuoteItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&InvoiceModel{},
		&PaymentModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderItemModel{},
		&GoodsReceiptModel{},
		&GoodsReceiptItemModel{},
	}
}
