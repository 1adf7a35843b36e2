package ledger

import (
	"context"
	"math/rand"
	"testing"

	"github.com/22Jason22/ferremateriales/internal/domain/ledger"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence/models"
	"github.com/22Jason22/ferremateriales/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	service   *LedgerService
	publisher *testutil.RecordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	repos := persistence.NewRepositories(db)
	publisher := testutil.NewRecordingPublisher()
	service := NewLedgerService(repos, persistence.NewGormTransactionScope(db), zap.NewNop())
	service.SetEventPublisher(publisher)
	return &fixture{db: db, service: service, publisher: publisher}
}

func (f *fixture) account(t *testing.T, number string) uuid.UUID {
	t.Helper()
	acc, err := f.service.CreateAccount(context.Background(), CreateAccountInput{
		Name:          "Constructora Andina",
		AccountNumber: number,
	})
	require.NoError(t, err)
	return acc.ID
}

func (f *fixture) post(t *testing.T, accountID uuid.UUID, txType, amount string) (*TransactionResponse, error) {
	t.Helper()
	return f.service.CreateTransaction(context.Background(), accountID, CreateTransactionInput{
		Type:   txType,
		Amount: decimal.RequireFromString(amount),
		Date:   testutil.Date(2024, 4, 1),
	})
}

func TestLedgerService_CreateAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	acc, err := f.service.CreateAccount(ctx, CreateAccountInput{Name: "Ferretería Central", AccountNumber: "CC-001"})
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())

	_, err = f.service.CreateAccount(ctx, CreateAccountInput{Name: "Otra", AccountNumber: "CC-001"})
	require.ErrorIs(t, err, shared.ErrConflict)

	_, err = f.service.CreateAccount(ctx, CreateAccountInput{Name: "", AccountNumber: "CC-002"})
	require.ErrorIs(t, err, shared.ErrValidation)

	byNumber, err := f.service.GetAccountByNumber(ctx, "CC-001")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byNumber.ID)

	list, total, err := f.service.ListAccounts(ctx, AccountListFilter{Search: "central"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
}

func TestLedgerService_CreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("credit then debit", func(t *testing.T) {
		f := newFixture(t)
		accountID := f.account(t, "CC-001")

		credit, err := f.post(t, accountID, "credit", "100.00")
		require.NoError(t, err)
		assert.True(t, credit.BalanceBefore.IsZero())
		assert.True(t, credit.BalanceAfter.Equal(decimal.RequireFromString("100.00")))

		debit, err := f.post(t, accountID, "debit", "30.00")
		require.NoError(t, err)
		assert.True(t, debit.BalanceBefore.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, debit.BalanceAfter.Equal(decimal.RequireFromString("70.00")))

		balance, err := f.service.VerifyBalance(ctx, accountID)
		require.NoError(t, err)
		assert.True(t, balance.Consistent)
		assert.True(t, balance.Balance.Equal(decimal.RequireFromString("70.00")))
		assert.True(t, balance.Credits.Equal(decimal.RequireFromString("100.00")))
		assert.True(t, balance.Debits.Equal(decimal.RequireFromString("30.00")))
		assert.Equal(t, []string{ledger.EventTypeTransactionPosted, ledger.EventTypeTransactionPosted}, f.publisher.Types())
	})

	t.Run("debit beyond balance is refused", func(t *testing.T) {
		f := newFixture(t)
		accountID := f.account(t, "CC-001")
		_, err := f.post(t, accountID, "credit", "10.00")
		require.NoError(t, err)

		_, err = f.post(t, accountID, "debit", "10.01")
		require.ErrorIs(t, err, shared.ErrConflict)

		acc, err := f.service.GetAccount(ctx, accountID)
		require.NoError(t, err)
		assert.True(t, acc.Balance.Equal(decimal.RequireFromString("10.00")))
		_, total, err := f.service.ListTransactions(ctx, accountID, TransactionListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("invalid amounts and types", func(t *testing.T) {
		f := newFixture(t)
		accountID := f.account(t, "CC-001")

		for _, amount := range []string{"0", "-5.00", "0.001"} {
			_, err := f.post(t, accountID, "credit", amount)
			assert.ErrorIs(t, err, shared.ErrValidation, amount)
		}
		_, err := f.post(t, accountID, "refund", "5.00")
		assert.ErrorIs(t, err, shared.ErrValidation)

		_, err = f.post(t, uuid.New(), "credit", "5.00")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("entries are stored with the transaction", func(t *testing.T) {
		f := newFixture(t)
		accountID := f.account(t, "CC-001")

		tx, err := f.service.CreateTransaction(ctx, accountID, CreateTransactionInput{
			Type:   "credit",
			Amount: decimal.RequireFromString("50.00"),
			Date:   testutil.Date(2024, 4, 1),
			Entries: []EntryInput{
				{Amount: decimal.RequireFromString("20.00"), Description: "cuota 1"},
				{Amount: decimal.RequireFromString("30.00"), Description: "cuota 2"},
			},
		})
		require.NoError(t, err)

		loaded, err := f.service.GetTransaction(ctx, tx.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Entries, 2)
		assert.Equal(t, testutil.Date(2024, 4, 1), loaded.Entries[0].EntryDate.UTC())

		_, err = f.service.CreateTransaction(ctx, accountID, CreateTransactionInput{
			Type:    "credit",
			Amount:  decimal.RequireFromString("10.00"),
			Date:    testutil.Date(2024, 4, 1),
			Entries: []EntryInput{{Amount: decimal.RequireFromString("10.01")}},
		})
		require.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestLedgerService_BalanceMatchesLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	accountID := f.account(t, "CC-001")
	rng := rand.New(rand.NewSource(42))

	expected := decimal.Zero
	for i := 0; i < 60; i++ {
		amount := decimal.New(int64(rng.Intn(10000)+1), -2)
		txType := "credit"
		if rng.Intn(2) == 0 {
			txType = "debit"
		}
		_, err := f.service.CreateTransaction(ctx, accountID, CreateTransactionInput{
			Type:   txType,
			Amount: amount,
			Date:   testutil.Date(2024, 4, 1).AddDate(0, 0, i),
		})
		if txType == "debit" && amount.GreaterThan(expected) {
			require.ErrorIs(t, err, shared.ErrConflict)
			continue
		}
		require.NoError(t, err)
		if txType == "credit" {
			expected = expected.Add(amount)
		} else {
			expected = expected.Sub(amount)
		}

		balance, err := f.service.GetBalance(ctx, accountID)
		require.NoError(t, err)
		require.True(t, balance.Consistent, "step %d", i)
		require.True(t, balance.Balance.Equal(expected), "step %d: got %s want %s", i, balance.Balance, expected)
		require.False(t, balance.Balance.IsNegative())
	}
}

func TestLedgerService_VerifyAndRecompute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	accountID := f.account(t, "CC-001")
	_, err := f.post(t, accountID, "credit", "80.00")
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.AccountModel{}).
		Where("id = ?", accountID).
		Update("balance", decimal.RequireFromString("95.00")).Error)

	balance, err := f.service.VerifyBalance(ctx, accountID)
	require.ErrorIs(t, err, shared.ErrConsistency)
	require.NotNil(t, balance)
	assert.False(t, balance.Consistent)
	assert.True(t, balance.Derived.Equal(decimal.RequireFromString("80.00")))

	repaired, err := f.service.RecomputeBalance(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, repaired.Balance.Equal(decimal.RequireFromString("80.00")))

	_, err = f.service.VerifyBalance(ctx, accountID)
	require.NoError(t, err)
}

func TestLedgerService_ListAndStatement(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	accountID := f.account(t, "CC-001")
	for day := 1; day <= 3; day++ {
		_, err := f.service.CreateTransaction(ctx, accountID, CreateTransactionInput{
			Type:   "credit",
			Amount: decimal.RequireFromString("10.00"),
			Date:   testutil.Date(2024, 4, day),
		})
		require.NoError(t, err)
	}
	_, err := f.post(t, accountID, "debit", "5.00")
	require.NoError(t, err)

	debits, total, err := f.service.ListTransactions(ctx, accountID, TransactionListFilter{Type: "debit"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, debits, 1)

	from, to := testutil.Date(2024, 4, 2), testutil.Date(2024, 4, 3)
	ranged, total, err := f.service.ListTransactions(ctx, accountID, TransactionListFilter{Type: "credit", From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, ranged, 2)

	_, _, err = f.service.ListTransactions(ctx, accountID, TransactionListFilter{Type: "refund"})
	require.ErrorIs(t, err, shared.ErrValidation)

	account, statement, err := f.service.Statement(ctx, accountID, nil, nil)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(decimal.RequireFromString("25.00")))
	require.Len(t, statement, 4)
	assert.True(t, !statement[0].Date.After(statement[1].Date))
}

func TestLedgerService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	accountID := f.account(t, "CC-001")
	_, err := f.post(t, accountID, "credit", "10.00")
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteAccount(ctx, accountID))
	_, err = f.service.GetAccount(ctx, accountID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	var remaining int64
	require.NoError(t, f.db.Model(&models.TransactionModel{}).Where("account_id = ?", accountID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	require.ErrorIs(t, f.service.DeleteAccount(ctx, uuid.New()), shared.ErrNotFound)
}
