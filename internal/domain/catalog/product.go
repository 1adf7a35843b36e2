package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeProduct is the aggregate type name used in events
const AggregateTypeProduct = "Product"

// LowStockThreshold is the stock below which a stocked product counts as low
var LowStockThreshold = decimal.NewFromInt(5)

// Product is a sellable item. It is the aggregate root guarding
// CurrentStock: stock only changes through ApplyStockChange, driven by a
// recorded stock movement.
type Product struct {
	shared.BaseAggregateRoot
	Name            string
	Unit            string
	CategoryID      *uuid.UUID
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal
	IsNew           bool
	CurrentStock    decimal.Decimal
	Description     string
}

// ProductSpec carries the descriptive fields of a product
type ProductSpec struct {
	Name            string
	Unit            string
	CategoryID      *uuid.UUID
	Price           decimal.Decimal
	DiscountPercent decimal.Decimal
	IsNew           bool
	Description     string
}

// NewProduct creates a product with zero stock. Opening stock is posted as
// a movement by the caller so the movement log stays complete.
func NewProduct(spec ProductSpec) (*Product, error) {
	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CurrentStock:      decimal.Zero,
	}
	if err := p.apply(spec); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the descriptive fields and price. Stock is not touched.
func (p *Product) Update(spec ProductSpec) error {
	if err := p.apply(spec); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Product) apply(spec ProductSpec) error {
	name := strings.TrimSpace(spec.Name)
	if err := validateProductName(name); err != nil {
		return err
	}
	unit := strings.TrimSpace(spec.Unit)
	if unit == "" {
		unit = "unidad"
	}
	if len(unit) > 20 {
		return shared.NewValidationError("INVALID_UNIT", "unit cannot exceed 20 characters")
	}
	if spec.Price.IsNegative() || !shared.HasScale(spec.Price) {
		return shared.NewValidationError("INVALID_PRICE", "price must be a non-negative amount with at most 2 decimal places")
	}
	if spec.DiscountPercent.IsNegative() || spec.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("INVALID_DISCOUNT", "discount percent must be between 0 and 100")
	}

	p.Name = name
	p.Unit = unit
	p.CategoryID = spec.CategoryID
	p.Price = spec.Price
	p.DiscountPercent = spec.DiscountPercent
	p.IsNew = spec.IsNew
	p.Description = strings.TrimSpace(spec.Description)
	return nil
}

// ApplyStockChange moves CurrentStock by delta. A negative result is
// refused with a StockError and the stock is left unchanged.
func (p *Product) ApplyStockChange(delta decimal.Decimal) error {
	next := p.CurrentStock.Add(delta)
	if next.IsNegative() {
		return shared.NewStockError("INSUFFICIENT_STOCK",
			fmt.Sprintf("cannot remove %s %s of %q, only %s in stock",
				delta.Neg().String(), p.Unit, p.Name, p.CurrentStock.String()))
	}
	p.CurrentStock = next
	p.UpdatedAt = time.Now()
	return nil
}

// CheckStock compares the stored stock with the value derived from the
// movement log
func (p *Product) CheckStock(derived decimal.Decimal) error {
	if !p.CurrentStock.Equal(derived) {
		return shared.NewConsistencyError("STOCK_MISMATCH",
			fmt.Sprintf("product %q stores stock %s but its movements sum to %s",
				p.Name, p.CurrentStock.String(), derived.String()))
	}
	return nil
}

// FinalPrice returns the price after the product discount, rounded to cents
func (p *Product) FinalPrice() decimal.Decimal {
	if p.DiscountPercent.IsZero() {
		return p.Price
	}
	factor := decimal.NewFromInt(100).Sub(p.DiscountPercent).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(shared.MoneyScale)
}

// IsOutOfStock reports whether nothing is on hand
func (p *Product) IsOutOfStock() bool {
	return !p.CurrentStock.IsPositive()
}

// IsLowStock reports whether some but fewer than LowStockThreshold units remain
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.IsPositive() && p.CurrentStock.LessThan(LowStockThreshold)
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "product name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "product name cannot exceed 100 characters")
	}
	return nil
}
