package ledger

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountInput is the command to open an account
type CreateAccountInput struct {
	Name          string `json:"name" validate:"required,max=100"`
	AccountNumber string `json:"account_number" validate:"required,max=20"`
}

// CreateTransactionInput is the command to post to an account
type CreateTransactionInput struct {
	Type        string          `json:"type" validate:"required,oneof=debit credit"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date" validate:"required"`
	Description string          `json:"description" validate:"max=255"`
	Entries     []EntryInput    `json:"entries" validate:"omitempty,dive"`
}

// EntryInput is one optional sub-entry of a posting
type EntryInput struct {
	Date        time.Time       `json:"entry_date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=255"`
}

// AccountListFilter represents filter options for the account list
type AccountListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// TransactionListFilter represents filter options for an account's ledger
type TransactionListFilter struct {
	Type     string     `form:"type"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Entries       []EntryResponse `json:"entries,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EntryResponse represents a transaction entry in API responses
type EntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	EntryDate   time.Time       `json:"entry_date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// BalanceResponse reports the stored balance next to the ledger-derived one
type BalanceResponse struct {
	AccountID  uuid.UUID       `json:"account_id"`
	Balance    decimal.Decimal `json:"balance"`
	Derived    decimal.Decimal `json:"derived"`
	Credits    decimal.Decimal `json:"credits"`
	Debits     decimal.Decimal `json:"debits"`
	Consistent bool            `json:"consistent"`
}

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
		Version:       a.Version,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToTransactionResponse converts a domain Transaction to TransactionResponse
func ToTransactionResponse(t *ledger.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:            t.ID,
		AccountID:     t.AccountID,
		Type:          t.Type.String(),
		Amount:        t.Amount,
		Date:          t.Date,
		Description:   t.Description,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		CreatedAt:     t.CreatedAt,
	}
	for _, e := range t.Entries {
		resp.Entries = append(resp.Entries, EntryResponse{
			ID:          e.ID,
			EntryDate:   e.EntryDate,
			Amount:      e.Amount,
			Description: e.Description,
		})
	}
	return resp
}

// ToTransactionResponses converts a slice of transactions
func ToTransactionResponses(txs []ledger.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}
