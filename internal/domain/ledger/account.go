package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeAccount is the aggregate type name used in events
const AggregateTypeAccount = "Account"

// Account is the aggregate root of the ledger. Its Balance is only ever
// changed by Post, which appends the matching Transaction.
type Account struct {
	shared.BaseAggregateRoot
	Name          string
	AccountNumber string
	Balance       decimal.Decimal
}

// NewAccount creates an account with a zero balance
func NewAccount(name, accountNumber string) (*Account, error) {
	name = strings.TrimSpace(name)
	accountNumber = strings.TrimSpace(accountNumber)
	if name == "" {
		return nil, shared.NewValidationError("INVALID_NAME", "account name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewValidationError("INVALID_NAME", "account name cannot exceed 100 characters")
	}
	if accountNumber == "" {
		return nil, shared.NewValidationError("INVALID_ACCOUNT_NUMBER", "account number cannot be empty")
	}
	if len(accountNumber) > 20 {
		return nil, shared.NewValidationError("INVALID_ACCOUNT_NUMBER", "account number cannot exceed 20 characters")
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		AccountNumber:     accountNumber,
		Balance:           decimal.Zero,
	}, nil
}

// Rename replaces the descriptive name of the account
func (a *Account) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "account name must be 1-100 characters")
	}
	a.Name = name
	a.Touch()
	return nil
}

// Post appends a transaction to the account and moves the balance.
// A debit that would make the balance negative is refused and leaves the
// account untouched.
func (a *Account) Post(spec PostingSpec) (*Transaction, error) {
	tx, err := NewTransaction(a.ID, spec)
	if err != nil {
		return nil, err
	}

	newBalance := a.Balance.Add(tx.SignedAmount())
	if newBalance.IsNegative() {
		return nil, shared.NewConflictError("INSUFFICIENT_BALANCE",
			fmt.Sprintf("debit of %s exceeds balance %s of account %s",
				tx.Amount.StringFixed(shared.MoneyScale), a.Balance.StringFixed(shared.MoneyScale), a.AccountNumber))
	}

	tx.BalanceBefore = a.Balance
	tx.BalanceAfter = newBalance
	a.Balance = newBalance
	a.Touch()

	a.AddDomainEvent(NewTransactionPostedEvent(a, tx))
	return tx, nil
}

// Reconcile overwrites the stored balance with the value derived from the
// ledger. A negative ledger sum cannot be represented and is reported.
func (a *Account) Reconcile(derived decimal.Decimal) error {
	if derived.IsNegative() {
		return shared.NewConsistencyError("NEGATIVE_LEDGER",
			fmt.Sprintf("ledger of account %s sums to %s", a.AccountNumber, derived.StringFixed(shared.MoneyScale)))
	}
	a.Balance = derived
	a.Touch()
	return nil
}

// CheckBalance compares the stored balance with the ledger-derived one
func (a *Account) CheckBalance(derived decimal.Decimal) error {
	if !a.Balance.Equal(derived) {
		return shared.NewConsistencyError("BALANCE_MISMATCH",
			fmt.Sprintf("account %s stores balance %s but its ledger sums to %s",
				a.AccountNumber, a.Balance.StringFixed(shared.MoneyScale), derived.StringFixed(shared.MoneyScale)))
	}
	return nil
}

// PostingSpec carries the input of a ledger posting
type PostingSpec struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Entries     []EntrySpec
}

// EntrySpec carries the input of one TransactionEntry
type EntrySpec struct {
	Date        time.Time
	Amount      decimal.Decimal
	Description string
}
