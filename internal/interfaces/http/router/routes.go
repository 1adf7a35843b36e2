package router

import (
	"github.com/22Jason22/ferremateriales/internal/infrastructure/logger"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/handler"
	"github.com/22Jason22/ferremateriales/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// Handlers groups the HTTP handlers of the API
type Handlers struct {
	Accounts       *handler.AccountHandler
	Products       *handler.ProductHandler
	Customers      *handler.CustomerHandler
	Suppliers      *handler.SupplierHandler
	Quotes         *handler.QuoteHandler
	Orders         *handler.OrderHandler
	Invoices       *handler.InvoiceHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	Health         *handler.HealthHandler
}

// NewEngine creates a gin engine with the request ID, recovery, access log
// and security middleware installed
func NewEngine(log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.AccessLog(log),
		middleware.Secure(),
		middleware.BodyLimit(maxBodyBytes),
	)
	return engine
}

// RegisterAPI registers every route of the API. idempotent guards the POST
// routes that move money or stock; nil leaves them unguarded.
func RegisterAPI(r *Router, h Handlers, idempotent gin.HandlerFunc) {
	guarded := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if idempotent == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{idempotent, next}
	}

	accounts := NewDomainGroup("accounts", "/accounts")
	accounts.POST("", h.Accounts.Create).
		GET("", h.Accounts.List).
		GET("/:id", h.Accounts.GetByID).
		DELETE("/:id", h.Accounts.Delete).
		POST("/:id/transactions", guarded(h.Accounts.CreateTransaction)...).
		GET("/:id/transactions", h.Accounts.ListTransactions).
		GET("/:id/balance", h.Accounts.GetBalance).
		POST("/:id/balance/verify", h.Accounts.VerifyBalance).
		POST("/:id/balance/recompute", h.Accounts.RecomputeBalance).
		GET("/:id/statement.xlsx", h.Accounts.ExportStatement)

	categories := NewDomainGroup("categories", "/categories")
	categories.POST("", h.Products.CreateCategory).
		GET("", h.Products.ListCategories)

	products := NewDomainGroup("products", "/products")
	products.POST("", h.Products.Create).
		GET("", h.Products.List).
		GET("/summary", h.Products.Summary).
		GET("/:id", h.Products.GetByID).
		PUT("/:id", h.Products.Update).
		POST("/:id/movements", guarded(h.Products.CreateMovement)...).
		GET("/:id/movements", h.Products.ListMovements).
		GET("/:id/movements.xlsx", h.Products.ExportMovements).
		GET("/:id/stock", h.Products.GetStock).
		POST("/:id/stock/verify", h.Products.VerifyStock)

	customers := NewDomainGroup("customers", "/customers")
	customers.POST("", h.Customers.Create).
		GET("", h.Customers.List).
		GET("/:id", h.Customers.GetByID).
		PUT("/:id", h.Customers.Update).
		DELETE("/:id", h.Customers.Delete)

	suppliers := NewDomainGroup("suppliers", "/suppliers")
	suppliers.POST("", h.Suppliers.Create).
		GET("", h.Suppliers.List).
		GET("/:id", h.Suppliers.GetByID)

	quotes := NewDomainGroup("quotes", "/quotes")
	quotes.POST("", h.Quotes.Create).
		GET("/:id", h.Quotes.GetByID).
		POST("/:id/send", h.Quotes.Send).
		POST("/:id/accept", h.Quotes.Accept).
		POST("/:id/reject", h.Quotes.Reject).
		POST("/:id/promote", h.Quotes.Promote).
		DELETE("/:id", h.Quotes.Delete)

	orders := NewDomainGroup("orders", "/orders")
	orders.POST("", h.Orders.Create).
		GET("", h.Orders.List).
		GET("/summary", h.Orders.Summary).
		GET("/:id", h.Orders.GetByID).
		PUT("/:id", h.Orders.Update).
		POST("/:id/transition", h.Orders.Transition).
		DELETE("/:id", h.Orders.Delete)

	invoices := NewDomainGroup("invoices", "/invoices")
	invoices.POST("", h.Invoices.Create).
		GET("", h.Invoices.List).
		POST("/overdue-sweep", h.Invoices.OverdueSweep).
		GET("/:id", h.Invoices.GetByID).
		POST("/:id/send", h.Invoices.Send).
		POST("/:id/verify", h.Invoices.Verify).
		POST("/:id/payments", guarded(h.Invoices.RecordPayment)...)

	purchaseOrders := NewDomainGroup("purchase-orders", "/purchase-orders")
	purchaseOrders.POST("", h.PurchaseOrders.Create).
		GET("", h.PurchaseOrders.List).
		GET("/:id", h.PurchaseOrders.GetByID).
		POST("/:id/transition", h.PurchaseOrders.Transition).
		POST("/:id/receipts", guarded(h.PurchaseOrders.Receive)...).
		DELETE("/:id", h.PurchaseOrders.Delete)

	system := NewDomainGroup("system", "")
	system.GET("/health", h.Health.Health)

	r.Register(accounts).
		Register(categories).
		Register(products).
		Register(customers).
		Register(suppliers).
		Register(quotes).
		Register(orders).
		Register(invoices).
		Register(purchaseOrders).
		Register(system)
}
