package inventory

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateStockMovementInput is the command to record a stock movement
type CreateStockMovementInput struct {
	Direction string          `json:"direction" validate:"required,oneof=in out"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason" validate:"required,oneof=purchase sale adjustment return damage"`
	Date      time.Time       `json:"date" validate:"required"`
	Actor     string          `json:"actor" validate:"required,max=100"`
	Reference string          `json:"reference" validate:"max=50"`
}

// MovementListFilter represents filter options for a product's movements
type MovementListFilter struct {
	Direction string     `form:"direction"`
	Reason    string     `form:"reason"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// CreateCategoryInput is the command to create a category
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// CreateProductInput is the command to create a product. InitialStock, when
// positive, is posted as an opening adjustment movement by Actor.
type CreateProductInput struct {
	Name            string          `json:"name" validate:"required,max=100"`
	Unit            string          `json:"unit" validate:"max=20"`
	CategoryID      *uuid.UUID      `json:"category_id"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	IsNew           bool            `json:"is_new"`
	Description     string          `json:"description" validate:"max=1000"`
	InitialStock    decimal.Decimal `json:"initial_stock"`
	Actor           string          `json:"actor" validate:"max=100"`
}

// UpdateProductInput replaces the descriptive fields and price of a product
type UpdateProductInput struct {
	Name            string          `json:"name" validate:"required,max=100"`
	Unit            string          `json:"unit" validate:"max=20"`
	CategoryID      *uuid.UUID      `json:"category_id"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	IsNew           bool            `json:"is_new"`
	Description     string          `json:"description" validate:"max=1000"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	LowStock   bool       `form:"low_stock"`
	OutOfStock bool       `form:"out_of_stock"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Direction string          `json:"direction"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Date      time.Time       `json:"date"`
	Actor     string          `json:"actor"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordedMovementResponse is a recorded movement with the stock it left
type RecordedMovementResponse struct {
	MovementResponse
	StockAfter decimal.Decimal `json:"stock_after"`
}

// StockLevelResponse reports the stored stock next to the movement-derived one
type StockLevelResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	Derived       decimal.Decimal `json:"derived"`
	Inbound       decimal.Decimal `json:"inbound"`
	Outbound      decimal.Decimal `json:"outbound"`
	MovementCount int64           `json:"movement_count"`
	Consistent    bool            `json:"consistent"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	CategoryID      *uuid.UUID      `json:"category_id,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	FinalPrice      decimal.Decimal `json:"final_price"`
	IsNew           bool            `json:"is_new"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	IsLowStock      bool            `json:"is_low_stock"`
	IsOutOfStock    bool            `json:"is_out_of_stock"`
	Description     string          `json:"description"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// StockSummaryResponse summarizes stock health across the catalog
type StockSummaryResponse struct {
	TotalProducts int64 `json:"total_products"`
	OutOfStock    int64 `json:"out_of_stock"`
	LowStock      int64 `json:"low_stock"`
}

// ToMovementResponse converts a domain StockMovement to MovementResponse
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Direction: string(m.Direction),
		Quantity:  m.Quantity,
		Reason:    string(m.Reason),
		Date:      m.Date,
		Actor:     m.Actor,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []inventory.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Unit:            p.Unit,
		CategoryID:      p.CategoryID,
		Price:           p.Price,
		DiscountPercent: p.DiscountPercent,
		FinalPrice:      p.FinalPrice(),
		IsNew:           p.IsNew,
		CurrentStock:    p.CurrentStock,
		IsLowStock:      p.IsLowStock(),
		IsOutOfStock:    p.IsOutOfStock(),
		Description:     p.Description,
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
