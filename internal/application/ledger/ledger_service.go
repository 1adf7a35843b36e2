package ledger

import (
	"context"
	"time"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/ledger"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService handles accounts, postings and balance checks
type LedgerService struct {
	repos          appshared.TransactionalRepositories
	txScope        appshared.TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	repos appshared.TransactionalRepositories,
	txScope appshared.TransactionScope,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		repos:   repos,
		txScope: txScope,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateAccount opens an account with a zero balance
func (s *LedgerService) CreateAccount(ctx context.Context, input CreateAccountInput) (*AccountResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	account, err := ledger.NewAccount(input.Name, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		exists, err := repos.AccountRepo().ExistsByNumber(ctx, account.AccountNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewConflictError("ACCOUNT_NUMBER_EXISTS", "account number already exists")
		}
		return repos.AccountRepo().Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.String("account_id", account.ID.String()),
		zap.String("account_number", account.AccountNumber),
	)
	resp := ToAccountResponse(account)
	return &resp, nil
}

// GetAccount retrieves an account by ID
func (s *LedgerService) GetAccount(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.repos.AccountRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// GetAccountByNumber retrieves an account by its account number
func (s *LedgerService) GetAccountByNumber(ctx context.Context, number string) (*AccountResponse, error) {
	account, err := s.repos.AccountRepo().FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, nil
}

// ListAccounts lists accounts with paging
func (s *LedgerService) ListAccounts(ctx context.Context, filter AccountListFilter) ([]AccountResponse, int64, error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()

	accounts, total, err := s.repos.AccountRepo().FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses, total, nil
}

// DeleteAccount removes the account with its transactions and entries
func (s *LedgerService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if _, err := repos.AccountRepo().FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		return repos.AccountRepo().DeleteWithTransactions(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("account deleted", zap.String("account_id", id.String()))
	return nil
}

// CreateTransaction appends a posting to the account and moves its balance
// in the same database transaction. The account row is locked for the
// duration, so concurrent postings serialize.
func (s *LedgerService) CreateTransaction(ctx context.Context, accountID uuid.UUID, input CreateTransactionInput) (*TransactionResponse, error) {
	if err := appshared.Validate(input); err != nil {
		return nil, err
	}
	spec := ledger.PostingSpec{
		Type:        ledger.TransactionType(input.Type),
		Amount:      input.Amount,
		Date:        input.Date,
		Description: input.Description,
		Entries:     make([]ledger.EntrySpec, len(input.Entries)),
	}
	for i, e := range input.Entries {
		spec.Entries[i] = ledger.EntrySpec{Date: e.Date, Amount: e.Amount, Description: e.Description}
	}

	var (
		account *ledger.Account
		posted  *ledger.Transaction
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		account, err = repos.AccountRepo().FindByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		posted, err = account.Post(spec)
		if err != nil {
			return err
		}
		if err := repos.TransactionRepo().Create(ctx, posted); err != nil {
			return err
		}
		return repos.AccountRepo().SaveWithLock(ctx, account)
	})
	if err != nil {
		s.logger.Warn("posting rejected",
			zap.String("account_id", accountID.String()),
			zap.String("type", input.Type),
			zap.String("amount", input.Amount.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("transaction posted",
		zap.String("account_id", accountID.String()),
		zap.String("transaction_id", posted.ID.String()),
		zap.String("type", posted.Type.String()),
		zap.String("amount", posted.Amount.String()),
		zap.String("balance", posted.BalanceAfter.String()),
	)
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, account)

	resp := ToTransactionResponse(posted)
	return &resp, nil
}

// GetTransaction retrieves a transaction with its entries
func (s *LedgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.repos.TransactionRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(tx)
	return &resp, nil
}

// ListTransactions lists the account's ledger, newest first
func (s *LedgerService) ListTransactions(ctx context.Context, accountID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	if _, err := s.repos.AccountRepo().FindByID(ctx, accountID); err != nil {
		return nil, 0, err
	}
	txType := ledger.TransactionType(filter.Type)
	if txType != "" && !txType.IsValid() {
		return nil, 0, shared.NewValidationError("INVALID_TRANSACTION_TYPE", "type must be debit or credit")
	}
	domainFilter := ledger.TransactionFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "date",
			DateFrom: filter.From,
			DateTo:   filter.To,
		}.Normalize(),
		Type: txType,
	}

	txs, total, err := s.repos.TransactionRepo().FindByAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(txs), total, nil
}

// Statement returns the account with every transaction in the date range,
// oldest first
func (s *LedgerService) Statement(ctx context.Context, accountID uuid.UUID, from, to *time.Time) (*AccountResponse, []TransactionResponse, error) {
	account, err := s.repos.AccountRepo().FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	txs, err := s.repos.TransactionRepo().FindAllByAccount(ctx, accountID, from, to)
	if err != nil {
		return nil, nil, err
	}
	resp := ToAccountResponse(account)
	return &resp, ToTransactionResponses(txs), nil
}

// GetBalance returns the stored balance together with the value derived
// from the ledger by SQL aggregation
func (s *LedgerService) GetBalance(ctx context.Context, accountID uuid.UUID) (*BalanceResponse, error) {
	account, err := s.repos.AccountRepo().FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.balanceOf(ctx, s.repos, account)
}

// VerifyBalance returns a ConsistencyError when the stored balance differs
// from the ledger
func (s *LedgerService) VerifyBalance(ctx context.Context, accountID uuid.UUID) (*BalanceResponse, error) {
	account, err := s.repos.AccountRepo().FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balance, err := s.balanceOf(ctx, s.repos, account)
	if err != nil {
		return nil, err
	}
	if err := account.CheckBalance(balance.Derived); err != nil {
		s.logger.Warn("balance drift detected",
			zap.String("account_id", accountID.String()),
			zap.String("stored", balance.Balance.String()),
			zap.String("derived", balance.Derived.String()),
		)
		return balance, err
	}
	return balance, nil
}

// RecomputeBalance rewrites the stored balance from the ledger
func (s *LedgerService) RecomputeBalance(ctx context.Context, accountID uuid.UUID) (*BalanceResponse, error) {
	var balance *BalanceResponse
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		account, err := repos.AccountRepo().FindByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		credits, debits, err := repos.TransactionRepo().SumByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		previous := account.Balance
		if err := account.Reconcile(ledger.BalanceFromSums(credits, debits)); err != nil {
			return err
		}
		if err := repos.AccountRepo().SaveWithLock(ctx, account); err != nil {
			return err
		}
		if !previous.Equal(account.Balance) {
			s.logger.Warn("balance repaired from ledger",
				zap.String("account_id", accountID.String()),
				zap.String("previous", previous.String()),
				zap.String("balance", account.Balance.String()),
			)
		}
		balance = &BalanceResponse{
			AccountID:  account.ID,
			Balance:    account.Balance,
			Derived:    account.Balance,
			Credits:    credits,
			Debits:     debits,
			Consistent: true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *LedgerService) balanceOf(ctx context.Context, repos appshared.TransactionalRepositories, account *ledger.Account) (*BalanceResponse, error) {
	credits, debits, err := repos.TransactionRepo().SumByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	derived := ledger.BalanceFromSums(credits, debits)
	return &BalanceResponse{
		AccountID:  account.ID,
		Balance:    account.Balance,
		Derived:    derived,
		Credits:    credits,
		Debits:     debits,
		Consistent: account.Balance.Equal(derived),
	}, nil
}
