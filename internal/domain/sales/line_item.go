package sales

import (
	"errors"
	"fmt"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem ties a document to a product with quantity and unit price.
// Total is always Quantity × UnitPrice rounded to cents.
type LineItem struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// ItemSpec carries the input of one line item
type ItemSpec struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// NewLineItem validates spec and computes the line total
func NewLineItem(spec ItemSpec) (LineItem, error) {
	if spec.ProductID == uuid.Nil {
		return LineItem{}, shared.NewValidationError("INVALID_PRODUCT", "item product ID cannot be empty")
	}
	if err := shared.ValidateQuantity("item quantity", spec.Quantity); err != nil {
		return LineItem{}, err
	}
	if spec.UnitPrice.IsNegative() || !shared.HasScale(spec.UnitPrice) {
		return LineItem{}, shared.NewValidationError("INVALID_PRICE", "item price must be a non-negative amount with at most 2 decimal places")
	}
	return LineItem{
		ID:        uuid.New(),
		ProductID: spec.ProductID,
		Quantity:  spec.Quantity,
		UnitPrice: spec.UnitPrice,
		Total:     LineTotal(spec.Quantity, spec.UnitPrice),
	}, nil
}

// LineTotal returns quantity × price rounded to cents
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(shared.MoneyScale)
}

// Recompute returns the line total derived from quantity and price,
// ignoring the stored Total
func (i LineItem) Recompute() decimal.Decimal {
	return LineTotal(i.Quantity, i.UnitPrice)
}

// SumLineItems adds up the recomputed totals of items
func SumLineItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Recompute())
	}
	return total
}

func buildLineItems(specs []ItemSpec) ([]LineItem, error) {
	if len(specs) == 0 {
		return nil, shared.NewValidationError("NO_ITEMS", "at least one item is required")
	}
	items := make([]LineItem, 0, len(specs))
	for idx, spec := range specs {
		item, err := NewLineItem(spec)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				return nil, shared.NewValidationError(de.Code, fmt.Sprintf("items[%d]: %s", idx, de.Message))
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// checkClaimedTotal rejects a client-supplied total that disagrees with the
// computed one beyond the rounding tolerance
func checkClaimedTotal(claimed *decimal.Decimal, computed decimal.Decimal) error {
	if claimed == nil {
		return nil
	}
	if !shared.WithinTolerance(*claimed, computed) {
		return shared.NewConsistencyError("TOTAL_MISMATCH",
			fmt.Sprintf("submitted total %s does not match computed total %s",
				claimed.StringFixed(shared.MoneyScale), computed.StringFixed(shared.MoneyScale)))
	}
	return nil
}
