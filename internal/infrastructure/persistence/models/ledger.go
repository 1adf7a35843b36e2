package models

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountModel is the persistence model for the Account aggregate root.
type AccountModel struct {
	AggregateModel
	Name          string          `gorm:"type:varchar(100);not null"`
	AccountNumber string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account.
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		AccountNumber:     m.AccountNumber,
		Balance:           m.Balance,
	}
}

// FromDomain populates the persistence model from a domain Account.
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.AccountNumber = a.AccountNumber
	m.Balance = a.Balance
}

// AccountModelFromDomain creates a new persistence model from a domain Account.
func AccountModelFromDomain(a *ledger.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// TransactionModel is the persistence model for a ledger Transaction.
type TransactionModel struct {
	BaseModel
	AccountID     uuid.UUID               `gorm:"type:char(36);not null;index"`
	Type          ledger.TransactionType  `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Date          time.Time               `gorm:"not null;index"`
	Description   string                  `gorm:"type:varchar(255)"`
	BalanceBefore decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	Entries       []TransactionEntryModel `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "ledger_transactions"
}

// ToDomain converts the persistence model to a domain Transaction.
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	tx := &ledger.Transaction{
		BaseEntity:    m.BaseModel.ToDomain(),
		AccountID:     m.AccountID,
		Type:          m.Type,
		Amount:        m.Amount,
		Date:          m.Date,
		Description:   m.Description,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Entries:       make([]ledger.TransactionEntry, len(m.Entries)),
	}
	for i := range m.Entries {
		tx.Entries[i] = m.Entries[i].ToDomain()
	}
	return tx
}

// TransactionModelFromDomain creates a new persistence model from a domain Transaction.
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	m := &TransactionModel{
		AccountID:     t.AccountID,
		Type:          t.Type,
		Amount:        t.Amount,
		Date:          t.Date,
		Description:   t.Description,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		Entries:       make([]TransactionEntryModel, len(t.Entries)),
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	for i := range t.Entries {
		m.Entries[i].FromDomain(&t.Entries[i])
	}
	return m
}

// TransactionEntryModel is the persistence model for a TransactionEntry.
type TransactionEntryModel struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:char(36);not null;index"`
	EntryDate     time.Time       `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Description   string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (TransactionEntryModel) TableName() string {
	return "transaction_entries"
}

// ToDomain converts the persistence model to a domain TransactionEntry.
func (m *TransactionEntryModel) ToDomain() ledger.TransactionEntry {
	return ledger.TransactionEntry{
		BaseEntity:    m.BaseModel.ToDomain(),
		TransactionID: m.TransactionID,
		EntryDate:     m.EntryDate,
		Amount:        m.Amount,
		Description:   m.Description,
	}
}

// FromDomain populates the persistence model from a domain TransactionEntry.
func (m *TransactionEntryModel) FromDomain(e *ledger.TransactionEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.TransactionID = e.TransactionID
	m.EntryDate = e.EntryDate
	m.Amount = e.Amount
	m.Description = e.Description
}
