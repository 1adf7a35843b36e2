package ledger

import (
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeTransactionPosted is raised after a posting moves an account balance
const EventTypeTransactionPosted = "AccountTransactionPosted"

// TransactionPostedEvent is raised when a transaction is appended to an account
type TransactionPostedEvent struct {
	shared.BaseDomainEvent
	AccountNumber string          `json:"account_number"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// NewTransactionPostedEvent creates a new TransactionPostedEvent
func NewTransactionPostedEvent(a *Account, tx *Transaction) *TransactionPostedEvent {
	return &TransactionPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransactionPosted, AggregateTypeAccount, a.ID),
		AccountNumber:   a.AccountNumber,
		TransactionID:   tx.ID,
		Type:            tx.Type,
		Amount:          tx.Amount,
		BalanceAfter:    tx.BalanceAfter,
	}
}
