package shared

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/domain/invoicing"
	"github.com/22Jason22/ferremateriales/internal/domain/ledger"
	"github.com/22Jason22/ferremateriales/internal/domain/partner"
	"github.com/22Jason22/ferremateriales/internal/domain/purchasing"
	"github.com/22Jason22/ferremateriales/internal/domain/sales"
)

// TransactionScope runs a unit of work inside one database transaction.
// All repository operations performed through the repositories handed to fn
// are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to every repository. Inside
// TransactionScope.Execute all of them share the same transaction; outside
// it they run on the plain connection pool and serve reads.
//
// Aggregate roots that a command mutates are loaded with FindByIDForUpdate
// and written back with SaveWithLock. Transactions, entries, stock movements,
// payments and goods receipts are append-only.
type TransactionalRepositories interface {
	AccountRepo() ledger.AccountRepository
	TransactionRepo() ledger.TransactionRepository
	ProductRepo() catalog.ProductRepository
	CategoryRepo() catalog.CategoryRepository
	MovementRepo() inventory.StockMovementRepository
	CustomerRepo() partner.CustomerRepository
	SupplierRepo() partner.SupplierRepository
	OrderRepo() sales.OrderRepository
	QuoteRepo() sales.QuoteRepository
	InvoiceRepo() invoicing.InvoiceRepository
	PaymentRepo() invoicing.PaymentRepository
	PurchaseOrderRepo() purchasing.PurchaseOrderRepository
	ReceiptRepo() purchasing.GoodsReceiptRepository
}

// NoOpTransactionScope runs fn directly against repos without a transaction.
// Useful for tests with in-memory fakes.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over repos
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
