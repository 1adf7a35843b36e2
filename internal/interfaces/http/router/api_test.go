package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appinventory "github.com/22Jason22/ferremateriales/internal/application/inventory"
	appinvoicing "github.com/22Jason22/ferremateriales/internal/application/invoicing"
	appledger "github.com/22Jason22/ferremateriales/internal/application/ledger"
	apppartner "github.com/22Jason22/ferremateriales/internal/application/partner"
	apppurchasing "github.com/22Jason22/ferremateriales/internal/application/purchasing"
	appsales "github.com/22Jason22/ferremateriales/internal/application/sales"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/cache"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/export"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/dto"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/handler"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/middleware"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/router"
	"github.com/22Jason22/ferremateriales/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

type api struct {
	engine *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	repos := persistence.NewRepositories(db)
	txScope := persistence.NewGormTransactionScope(db)
	log := zap.NewNop()

	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	engine := router.NewEngine(log)
	r := router.NewRouter(engine)
	router.RegisterAPI(r, router.Handlers{
		Accounts: handler.NewAccountHandler(appledger.NewLedgerService(repos, txScope, log)),
		Products: handler.NewProductHandler(
			appinventory.NewProductService(repos, txScope, log),
			appinventory.NewStockService(repos, txScope, log),
		),
		Customers: handler.NewCustomerHandler(apppartner.NewCustomerService(repos, txScope, log)),
		Suppliers: handler.NewSupplierHandler(apppartner.NewSupplierService(repos, log)),
		Quotes:    handler.NewQuoteHandler(appsales.NewQuoteService(repos, txScope, log)),
		Orders:    handler.NewOrderHandler(appsales.NewOrderService(repos, txScope, log)),
		Invoices: handler.NewInvoiceHandler(
			appinvoicing.NewInvoiceService(repos, txScope, log),
			appinvoicing.NewOverdueService(repos, txScope, log),
		),
		PurchaseOrders: handler.NewPurchaseOrderHandler(apppurchasing.NewPurchaseOrderService(repos, txScope, log)),
		Health:         handler.NewHealthHandler(sqlDB),
	}, middleware.Idempotency(store, time.Hour))
	r.Setup()
	return &api{engine: engine}
}

func (a *api) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func data[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (a *api) createCustomer(t *testing.T, name string) uuid.UUID {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/customers", apppartner.CustomerInput{Name: name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return data[apppartner.CustomerResponse](t, env).ID
}

func (a *api) createProduct(t *testing.T, name, price, initial string) uuid.UUID {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/products", appinventory.CreateProductInput{
		Name:         name,
		Unit:         "saco",
		Price:        dec(price),
		InitialStock: dec(initial),
	}, "X-Actor", "almacen")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return data[appinventory.ProductResponse](t, env).ID
}

func TestAPI_Health(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAPI_ErrorMapping(t *testing.T) {
	a := newAPI(t)

	t.Run("malformed id", func(t *testing.T) {
		w, env := a.do(t, http.MethodGet, "/accounts/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidID, env.Error.Code)
	})

	t.Run("unknown account", func(t *testing.T) {
		w, env := a.do(t, http.MethodGet, "/accounts/"+uuid.NewString(), nil, middleware.RequestIDHeader, "req-404")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
		assert.Equal(t, "req-404", env.Error.RequestID)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		a.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeBadRequest)
	})

	t.Run("validation failure", func(t *testing.T) {
		w, env := a.do(t, http.MethodPost, "/accounts", appledger.CreateAccountInput{Name: "Sin número"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
	})
}

func TestAPI_AccountLedger(t *testing.T) {
	a := newAPI(t)

	w, env := a.do(t, http.MethodPost, "/accounts", appledger.CreateAccountInput{Name: "Constructora Andina", AccountNumber: "CC-001"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	accountID := data[appledger.AccountResponse](t, env).ID
	base := "/accounts/" + accountID.String()

	w, env = a.do(t, http.MethodPost, base+"/transactions", appledger.CreateTransactionInput{
		Type: "credit", Amount: dec("100.00"), Date: day(2024, 6, 1), Description: "Abono",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, dec("100").Equal(data[appledger.TransactionResponse](t, env).BalanceAfter))

	w, _ = a.do(t, http.MethodPost, base+"/transactions", appledger.CreateTransactionInput{
		Type: "debit", Amount: dec("30.00"), Date: day(2024, 6, 2), Description: "Compra",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = a.do(t, http.MethodPost, base+"/transactions", appledger.CreateTransactionInput{
		Type: "debit", Amount: dec("100.00"), Date: day(2024, 6, 3),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)

	w, env = a.do(t, http.MethodPost, base+"/balance/verify", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	balance := data[appledger.BalanceResponse](t, env)
	assert.True(t, dec("70").Equal(balance.Balance))
	assert.True(t, balance.Consistent)

	w, env = a.do(t, http.MethodGet, base+"/transactions?page_size=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data[[]appledger.TransactionResponse](t, env), 1)
	assert.Equal(t, int64(2), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)

	w, _ = a.do(t, http.MethodGet, base+"/statement.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "CC-001")
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	number, err := f.GetCellValue(export.StatementSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "CC-001", number)
}

func TestAPI_StockMovements(t *testing.T) {
	a := newAPI(t)
	productID := a.createProduct(t, "Cemento Portland", "25.00", "10")
	base := "/products/" + productID.String()

	out := func(qty string, headers ...string) (*httptest.ResponseRecorder, envelope) {
		return a.do(t, http.MethodPost, base+"/movements", appinventory.CreateStockMovementInput{
			Direction: "out", Quantity: dec(qty), Reason: "sale", Date: day(2024, 6, 5), Actor: "mostrador",
		}, headers...)
	}

	w, env := out("4", middleware.IdempotencyKeyHeader, "mov-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, dec("6").Equal(data[appinventory.RecordedMovementResponse](t, env).StockAfter))

	w, env = out("4", middleware.IdempotencyKeyHeader, "mov-1")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeDuplicateRequest, env.Error.Code)

	w, env = out("10")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)

	w, env = a.do(t, http.MethodGet, base+"/stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	level := data[appinventory.StockLevelResponse](t, env)
	assert.True(t, dec("6").Equal(level.CurrentStock))
	assert.True(t, level.Consistent)
	assert.Equal(t, int64(2), level.MovementCount)

	w, env = a.do(t, http.MethodGet, base+"/movements?direction=out", nil)
	require.Equal(t, http.StatusOK, w.Code)
	movements := data[[]appinventory.MovementResponse](t, env)
	require.Len(t, movements, 1)
	assert.Equal(t, "mostrador", movements[0].Actor)

	w, _ = a.do(t, http.MethodGet, base+"/movements.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))
}

func TestAPI_OrderTotals(t *testing.T) {
	a := newAPI(t)
	customerID := a.createCustomer(t, "Ferretería Central")
	cement := a.createProduct(t, "Cemento", "5.00", "0")
	sand := a.createProduct(t, "Arena", "3.00", "0")

	w, env := a.do(t, http.MethodPost, "/orders", appsales.OrderInput{
		CustomerID: customerID,
		Date:       day(2024, 6, 10),
		Items: []appsales.ItemInput{
			{ProductID: cement, Quantity: dec("2"), UnitPrice: dec("5.00")},
			{ProductID: sand, Quantity: dec("1"), UnitPrice: dec("3.00")},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := data[appsales.OrderResponse](t, env)
	assert.True(t, dec("13.00").Equal(order.TotalAmount))
	assert.Equal(t, "pending", order.Status)

	w, env = a.do(t, http.MethodPost, "/orders/"+order.ID.String()+"/transition", appsales.TransitionOrderInput{Status: "delivered"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)

	w, env = a.do(t, http.MethodGet, "/orders/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := data[appsales.SummaryResponse](t, env)
	assert.Equal(t, int64(1), summary.OrderCount)
	assert.True(t, dec("13").Equal(summary.TotalAmount))

	w, env = a.do(t, http.MethodGet, "/customers/"+customerID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	customer := data[apppartner.CustomerResponse](t, env)
	require.NotNil(t, customer.LastPurchase)
	assert.True(t, customer.LastPurchase.Equal(day(2024, 6, 10)))
}

func TestAPI_InvoicePayments(t *testing.T) {
	a := newAPI(t)
	customerID := a.createCustomer(t, "Constructora Sur")
	total := dec("100.00")

	w, env := a.do(t, http.MethodPost, "/invoices", appinvoicing.CreateInvoiceInput{
		CustomerID:  customerID,
		DateIssued:  day(2024, 6, 1),
		DueDate:     day(2099, 7, 1),
		TotalAmount: &total,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := data[appinvoicing.InvoiceResponse](t, env).ID
	base := "/invoices/" + invoiceID.String()

	w, _ = a.do(t, http.MethodPost, base+"/send", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	pay := func(amount, key string) (*httptest.ResponseRecorder, envelope) {
		return a.do(t, http.MethodPost, base+"/payments", appinvoicing.RecordPaymentInput{
			Amount: dec(amount), Method: "transfer", DatePaid: day(2024, 6, 15),
		}, middleware.IdempotencyKeyHeader, key)
	}

	w, env = pay("60.00", "pay-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := data[appinvoicing.RecordedPaymentResponse](t, env)
	assert.True(t, dec("40").Equal(first.Invoice.Outstanding))
	assert.Equal(t, "sent", first.Invoice.Status)

	w, _ = pay("60.00", "pay-1")
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = pay("40.00", "pay-2")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := data[appinvoicing.RecordedPaymentResponse](t, env)
	assert.True(t, second.Invoice.Outstanding.IsZero())
	assert.Equal(t, "paid", second.Invoice.Status)

	w, env = a.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data[appinvoicing.InvoiceDetailResponse](t, env).Payments, 2)
}

func TestAPI_OverdueSweep(t *testing.T) {
	a := newAPI(t)
	customerID := a.createCustomer(t, "Obras Norte")
	total := dec("250.00")

	w, env := a.do(t, http.MethodPost, "/invoices", appinvoicing.CreateInvoiceInput{
		CustomerID:  customerID,
		DateIssued:  day(2020, 1, 1),
		DueDate:     day(2020, 1, 31),
		TotalAmount: &total,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := data[appinvoicing.InvoiceResponse](t, env).ID
	w, _ = a.do(t, http.MethodPost, "/invoices/"+invoiceID.String()+"/send", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = a.do(t, http.MethodPost, "/invoices/overdue-sweep", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := data[appinvoicing.OverdueSweepResponse](t, env)
	assert.Equal(t, []uuid.UUID{invoiceID}, result.Marked)

	w, env = a.do(t, http.MethodGet, "/invoices/"+invoiceID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "overdue", data[appinvoicing.InvoiceDetailResponse](t, env).Status)
}
