package persistence

import (
	"context"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/domain/invoicing"
	"github.com/22Jason22/ferremateriales/internal/domain/ledger"
	"github.com/22Jason22/ferremateriales/internal/domain/partner"
	"github.com/22Jason22/ferremateriales/internal/domain/purchasing"
	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Repositories hands out every repository bound to one *gorm.DB, either the
// pool or an open transaction
type Repositories struct {
	db *gorm.DB
}

// NewRepositories creates a Repositories bound to db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{db: db}
}

// AccountRepo returns the account repository
func (r *Repositories) AccountRepo() ledger.AccountRepository {
	return NewGormAccountRepository(r.db)
}

// TransactionRepo returns the ledger transaction repository
func (r *Repositories) TransactionRepo() ledger.TransactionRepository {
	return NewGormTransactionRepository(r.db)
}

// ProductRepo returns the product repository
func (r *Repositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.db)
}

// CategoryRepo returns the category repository
func (r *Repositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.db)
}

// MovementRepo returns the stock movement repository
func (r *Repositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.db)
}

// CustomerRepo returns the customer repository
func (r *Repositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.db)
}

// SupplierRepo returns the supplier repository
func (r *Repositories) SupplierRepo() partner.SupplierRepository {
	return NewGormSupplierRepository(r.db)
}

// OrderRepo returns the order repository
func (r *Repositories) OrderRepo() sales.OrderRepository {
	return NewGormOrderRepository(r.db)
}

// QuoteRepo returns the quote repository
func (r *Repositories) QuoteRepo() sales.QuoteRepository {
	return NewGormQuoteRepository(r.db)
}

// InvoiceRepo returns the invoice repository
func (r *Repositories) InvoiceRepo() invoicing.InvoiceRepository {
	return NewGormInvoiceRepository(r.db)
}

// PaymentRepo returns the payment repository
func (r *Repositories) PaymentRepo() invoicing.PaymentRepository {
	return NewGormPaymentRepository(r.db)
}

// PurchaseOrderRepo returns the purchase order repository
func (r *Repositories) PurchaseOrderRepo() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.db)
}

// ReceiptRepo returns the goods receipt repository
func (r *Repositories) ReceiptRepo() purchasing.GoodsReceiptRepository {
	return NewGormGoodsReceiptRepository(r.db)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appshared.TransactionScope = (*GormTransactionScope)(nil)

// Ensure Repositories implements TransactionalRepositories
var _ appshared.TransactionalRepositories = (*Repositories)(nil)
