package persistence

import (
	"context"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/ledger"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "account")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an account and locks its row
func (r *GormAccountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "account")
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an account by its account number
func (r *GormAccountRepository) FindByNumber(ctx context.Context, accountNumber string) (*ledger.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		First(&model).Error; err != nil {
		return nil, translateError(err, "account")
	}
	return model.ToDomain(), nil
}

// FindAll lists accounts, searching name and account number
func (r *GormAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Account, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AccountModel{})
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(account_number) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "account")
	}

	var accountModels []models.AccountModel
	if err := applyOrderAndPage(query, filter, AccountSortFields, "created_at").
		Find(&accountModels).Error; err != nil {
		return nil, 0, translateError(err, "account")
	}

	accounts := make([]ledger.Account, len(accountModels))
	for i := range accountModels {
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts, total, nil
}

// ExistsByNumber reports whether an account number is taken
func (r *GormAccountRepository) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("account_number = ?", accountNumber).
		Count(&count).Error; err != nil {
		return false, translateError(err, "account")
	}
	return count > 0, nil
}

// Create inserts a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *ledger.Account) error {
	return translateError(r.db.WithContext(ctx).Create(models.AccountModelFromDomain(account)).Error, "account")
}

// SaveWithLock updates the account with an optimistic version check
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *ledger.Account) error {
	result := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("id = ? AND version = ?", account.ID, account.Version).
		Updates(map[string]any{
			"name":           account.Name,
			"account_number": account.AccountNumber,
			"balance":        account.Balance,
			"version":        account.Version + 1,
			"updated_at":     account.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, "account")
	}
	if result.RowsAffected == 0 {
		return shared.ErrVersionConflict
	}
	account.IncrementVersion()
	return nil
}

// DeleteWithTransactions removes entries, then transactions, then the account
func (r *GormAccountRepository) DeleteWithTransactions(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txIDs := tx.Model(&models.TransactionModel{}).Select("id").Where("account_id = ?", id)
		if err := tx.Where("transaction_id IN (?)", txIDs).
			Delete(&models.TransactionEntryModel{}).Error; err != nil {
			return translateError(err, "transaction entry")
		}
		if err := tx.Where("account_id = ?", id).
			Delete(&models.TransactionModel{}).Error; err != nil {
			return translateError(err, "transaction")
		}
		result := tx.Where("id = ?", id).Delete(&models.AccountModel{})
		if result.Error != nil {
			return translateError(result.Error, "account")
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("account")
		}
		return nil
	})
}

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create inserts the transaction together with its entries
func (r *GormTransactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	return translateError(r.db.WithContext(ctx).Create(models.TransactionModelFromDomain(tx)).Error, "transaction")
}

// FindByID finds a transaction with its entries
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("entry_date ASC") }).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "transaction")
	}
	return model.ToDomain(), nil
}

// FindByAccount lists one page of an account's transactions
func (r *GormTransactionRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter ledger.TransactionFilter) ([]ledger.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).Where("account_id = ?", accountID)
	query = applyDateRange(query, filter.Filter, "date")
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "transaction")
	}

	var txModels []models.TransactionModel
	if err := applyOrderAndPage(query, filter.Filter, TransactionSortFields, "date").
		Preload("Entries").
		Find(&txModels).Error; err != nil {
		return nil, 0, translateError(err, "transaction")
	}
	return transactionsToDomain(txModels), total, nil
}

// FindAllByAccount returns every transaction in the range, oldest first
func (r *GormTransactionRepository) FindAllByAccount(ctx context.Context, accountID uuid.UUID, from, to *time.Time) ([]ledger.Transaction, error) {
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	query = applyDateRange(query, shared.Filter{DateFrom: from, DateTo: to}, "date")

	var txModels []models.TransactionModel
	if err := query.Order("date ASC").Order("created_at ASC").
		Preload("Entries").
		Find(&txModels).Error; err != nil {
		return nil, translateError(err, "transaction")
	}
	return transactionsToDomain(txModels), nil
}

// SumByAccount aggregates credit and debit amounts in SQL
func (r *GormTransactionRepository) SumByAccount(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var sums struct {
		Credits decimal.Decimal
		Debits  decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS credits, "+
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS debits",
			ledger.TransactionTypeCredit, ledger.TransactionTypeDebit).
		Where("account_id = ?", accountID).
		Scan(&sums).Error; err != nil {
		return decimal.Zero, decimal.Zero, translateError(err, "transaction")
	}
	return storedDecimal(sums.Credits), storedDecimal(sums.Debits), nil
}

func transactionsToDomain(txModels []models.TransactionModel) []ledger.Transaction {
	txs := make([]ledger.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = *txModels[i].ToDomain()
	}
	return txs
}
