package ledger

import (
	"context"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository persists Account aggregates
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// FindByIDForUpdate loads the account and holds a row lock until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByNumber(ctx context.Context, accountNumber string) (*Account, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Account, int64, error)
	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)
	Create(ctx context.Context, account *Account) error
	// SaveWithLock updates the account if its version is unchanged since it
	// was loaded and bumps the version
	SaveWithLock(ctx context.Context, account *Account) error
	// DeleteWithTransactions removes the account, its transactions and their
	// entries. Callers run it inside a transaction scope.
	DeleteWithTransactions(ctx context.Context, id uuid.UUID) error
}

// TransactionFilter narrows ledger queries
type TransactionFilter struct {
	shared.Filter
	Type TransactionType
}

// TransactionRepository is the append-only store of ledger rows
type TransactionRepository interface {
	// Create inserts the transaction together with its entries
	Create(ctx context.Context, tx *Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter TransactionFilter) ([]Transaction, int64, error)
	// FindAllByAccount returns every transaction of the account in the
	// optional date range, oldest first
	FindAllByAccount(ctx context.Context, accountID uuid.UUID, from, to *time.Time) ([]Transaction, error)
	// SumByAccount returns the total of credit and of debit amounts
	SumByAccount(ctx context.Context, accountID uuid.UUID) (credits, debits decimal.Decimal, err error)
}
