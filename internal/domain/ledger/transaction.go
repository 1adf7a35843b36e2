package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger posting
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDebit, TransactionTypeCredit:
		return true
	}
	return false
}

// Transaction is an immutable ledger row. BalanceBefore and BalanceAfter
// record the account balance around the posting.
type Transaction struct {
	shared.BaseEntity
	AccountID     uuid.UUID
	Type          TransactionType
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Entries       []TransactionEntry
}

// TransactionEntry records a sub-amount of a transaction
type TransactionEntry struct {
	shared.BaseEntity
	TransactionID uuid.UUID
	EntryDate     time.Time
	Amount        decimal.Decimal
	Description   string
}

// NewTransaction validates spec and builds the transaction with its entries.
// Balance fields are filled in by Account.Post.
func NewTransaction(accountID uuid.UUID, spec PostingSpec) (*Transaction, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ACCOUNT", "account ID cannot be empty")
	}
	if !spec.Type.IsValid() {
		return nil, shared.NewValidationError("INVALID_TRANSACTION_TYPE",
			fmt.Sprintf("transaction type must be debit or credit, got %q", spec.Type))
	}
	if err := shared.ValidateAmount("amount", spec.Amount); err != nil {
		return nil, err
	}
	if spec.Date.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "transaction date is required")
	}
	description := strings.TrimSpace(spec.Description)
	if len(description) > 255 {
		return nil, shared.NewValidationError("INVALID_DESCRIPTION", "description cannot exceed 255 characters")
	}

	tx := &Transaction{
		BaseEntity:  shared.NewBaseEntity(),
		AccountID:   accountID,
		Type:        spec.Type,
		Amount:      spec.Amount,
		Date:        spec.Date,
		Description: description,
		Entries:     make([]TransactionEntry, 0, len(spec.Entries)),
	}

	allocated := decimal.Zero
	for i, e := range spec.Entries {
		if err := shared.ValidateAmount(fmt.Sprintf("entries[%d].amount", i), e.Amount); err != nil {
			return nil, err
		}
		entryDate := e.Date
		if entryDate.IsZero() {
			entryDate = spec.Date
		}
		allocated = allocated.Add(e.Amount)
		tx.Entries = append(tx.Entries, TransactionEntry{
			BaseEntity:    shared.NewBaseEntity(),
			TransactionID: tx.ID,
			EntryDate:     entryDate,
			Amount:        e.Amount,
			Description:   strings.TrimSpace(e.Description),
		})
	}
	if allocated.GreaterThan(spec.Amount) {
		return nil, shared.NewValidationError("ENTRIES_EXCEED_AMOUNT",
			fmt.Sprintf("entries sum to %s which exceeds the transaction amount %s",
				allocated.StringFixed(shared.MoneyScale), spec.Amount.StringFixed(shared.MoneyScale)))
	}

	return tx, nil
}

// SignedAmount returns the amount with the sign it has on the balance
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// BalanceFromTransactions derives a balance as credits minus debits
func BalanceFromTransactions(txs []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for i := range txs {
		balance = balance.Add(txs[i].SignedAmount())
	}
	return balance
}

// BalanceFromSums derives a balance from aggregated credit and debit totals
func BalanceFromSums(credits, debits decimal.Decimal) decimal.Decimal {
	return credits.Sub(debits)
}
