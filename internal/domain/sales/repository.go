package sales

import (
	"context"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderFilter narrows order list queries
type OrderFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     OrderStatus
}

// SalesSummary aggregates order figures for the sales dashboard
type SalesSummary struct {
	TotalAmount    decimal.Decimal
	OrderCount     int64
	PendingCount   int64
	DeliveredCount int64
}

// OrderRepository persists Order aggregates with their items
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUpdate loads the order and holds a row lock until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)
	ExistsByNumber(ctx context.Context, orderNumber string) (bool, error)
	// GenerateOrderNumber returns the next free number, PED-YYYY-NNNNN
	GenerateOrderNumber(ctx context.Context) (string, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	// LatestDateByCustomer returns the newest order date of the customer,
	// nil when the customer has no orders
	LatestDateByCustomer(ctx context.Context, customerID uuid.UUID) (*time.Time, error)
	Summary(ctx context.Context, filter OrderFilter) (SalesSummary, error)
	// Create inserts the order with its items
	Create(ctx context.Context, order *Order) error
	// SaveWithLock updates the order if its version is unchanged and
	// replaces its items
	SaveWithLock(ctx context.Context, order *Order) error
	// DeleteWithItems removes the items and then the order
	DeleteWithItems(ctx context.Context, id uuid.UUID) error
}

// QuoteRepository persists Quote aggregates with their items
type QuoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Quote, error)
	ExistsByNumber(ctx context.Context, quoteNumber string) (bool, error)
	GenerateQuoteNumber(ctx context.Context) (string, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	Create(ctx context.Context, quote *Quote) error
	SaveWithLock(ctx context.Context, quote *Quote) error
	DeleteWithItems(ctx context.Context, id uuid.UUID) error
}
