package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	appledger "github.com/22Jason22/ferremateriales/internal/application/ledger"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles customer account and ledger endpoints
type AccountHandler struct {
	BaseHandler
	ledgerService *appledger.LedgerService
	now           func() time.Time
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(ledgerService *appledger.LedgerService) *AccountHandler {
	return &AccountHandler{
		ledgerService: ledgerService,
		now:           time.Now,
	}
}

// StatementQuery restricts an exported statement to a date range
type StatementQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	var req appledger.CreateAccountInput
	if !h.bindJSON(c, &req) {
		return
	}

	account, err := h.ledgerService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	var filter appledger.AccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	accounts, total, err := h.ledgerService.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, accounts, total, filter.Page, filter.PageSize)
}

// GetByID handles GET /accounts/:id
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	account, err := h.ledgerService.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Delete handles DELETE /accounts/:id. The account's transactions and
// their entries go with it.
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteAccount(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateTransaction handles POST /accounts/:id/transactions
func (h *AccountHandler) CreateTransaction(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req appledger.CreateTransactionInput
	if !h.bindJSON(c, &req) {
		return
	}

	tx, err := h.ledgerService.CreateTransaction(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// ListTransactions handles GET /accounts/:id/transactions
func (h *AccountHandler) ListTransactions(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var filter appledger.TransactionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	txs, total, err := h.ledgerService.ListTransactions(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, txs, total, filter.Page, filter.PageSize)
}

// GetBalance handles GET /accounts/:id/balance
func (h *AccountHandler) GetBalance(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// VerifyBalance handles POST /accounts/:id/balance/verify. A stored balance
// that disagrees with the ledger is reported as a consistency error.
func (h *AccountHandler) VerifyBalance(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	balance, err := h.ledgerService.VerifyBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// RecomputeBalance handles POST /accounts/:id/balance/recompute
func (h *AccountHandler) RecomputeBalance(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	balance, err := h.ledgerService.RecomputeBalance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// ExportStatement handles GET /accounts/:id/statement.xlsx
func (h *AccountHandler) ExportStatement(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var query StatementQuery
	if !h.bindQuery(c, &query) {
		return
	}

	account, txs, err := h.ledgerService.Statement(c.Request.Context(), id, query.From, query.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteAccountStatement(&buf, *account, txs, h.now()); err != nil {
		h.HandleError(c, fmt.Errorf("export statement: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="estado-%s.xlsx"`, account.AccountNumber))
	c.Data(http.StatusOK, export.ContentTypeXLSX, buf.Bytes())
}
