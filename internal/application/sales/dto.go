package sales

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is one line of an order or quote
type ItemInput struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderInput carries the full record of an order for create and update.
// TotalAmount is optional and checked against the computed total.
type OrderInput struct {
	CustomerID  uuid.UUID        `json:"customer_id" validate:"required"`
	OrderNumber string           `json:"order_number" validate:"max=20"`
	Date        time.Time        `json:"date" validate:"required"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Items       []ItemInput      `json:"items" validate:"required,min=1,dive"`
}

// TransitionOrderInput moves an order to another status
type TransitionOrderInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
	Actor  string `json:"actor" validate:"max=100"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     string     `form:"status"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// SummaryFilter restricts the sales summary
type SummaryFilter struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// QuoteInput carries the full record of a quote
type QuoteInput struct {
	CustomerID  uuid.UUID   `json:"customer_id" validate:"required"`
	QuoteNumber string      `json:"quote_number" validate:"max=20"`
	Date        time.Time   `json:"date" validate:"required"`
	Items       []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// PromoteQuoteInput turns a quote into an order. Both fields are optional.
type PromoteQuoteInput struct {
	OrderNumber string    `json:"order_number" validate:"max=20"`
	Date        time.Time `json:"date"`
}

// ItemResponse represents a line item in API responses
type ItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	QuoteID     *uuid.UUID      `json:"quote_id,omitempty"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Date        time.Time       `json:"date"`
	Items       []ItemResponse  `json:"items"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// QuoteResponse represents a quote in API responses
type QuoteResponse struct {
	ID          uuid.UUID       `json:"id"`
	QuoteNumber string          `json:"quote_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Date        time.Time       `json:"date"`
	Items       []ItemResponse  `json:"items"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SummaryResponse aggregates order figures
type SummaryResponse struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	OrderCount     int64           `json:"order_count"`
	PendingCount   int64           `json:"pending_count"`
	DeliveredCount int64           `json:"delivered_count"`
}

func itemSpecs(items []ItemInput) []sales.ItemSpec {
	specs := make([]sales.ItemSpec, len(items))
	for i, item := range items {
		specs[i] = sales.ItemSpec{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	return specs
}

func toItemResponse(line sales.LineItem) ItemResponse {
	return ItemResponse{
		ID:        line.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		Total:     line.Total,
	}
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *sales.Order) OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = toItemResponse(item.LineItem)
	}
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		QuoteID:     o.QuoteID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Date:        o.Date,
		Items:       items,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToQuoteResponse converts a domain Quote to QuoteResponse
func ToQuoteResponse(q *sales.Quote) QuoteResponse {
	items := make([]ItemResponse, len(q.Items))
	for i, item := range q.Items {
		items[i] = toItemResponse(item.LineItem)
	}
	return QuoteResponse{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		CustomerID:  q.CustomerID,
		Status:      string(q.Status),
		TotalAmount: q.TotalAmount,
		Date:        q.Date,
		Items:       items,
		Version:     q.Version,
		CreatedAt:   q.CreatedAt,
	}
}
