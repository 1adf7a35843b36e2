package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeStockMovement is the aggregate type name used in events
const AggregateTypeStockMovement = "StockMovement"

// Direction tells whether a movement adds to or removes from stock
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// IsValid returns true if the direction is valid
func (d Direction) IsValid() bool {
	switch d {
	case DirectionIn, DirectionOut:
		return true
	}
	return false
}

// IsInbound reports whether the direction adds stock
func (d Direction) IsInbound() bool {
	return d == DirectionIn
}

// DirectionFromInbound maps the stored boolean flag back to a Direction
func DirectionFromInbound(inbound bool) Direction {
	if inbound {
		return DirectionIn
	}
	return DirectionOut
}

// Reason explains why stock moved
type Reason string

const (
	ReasonPurchase   Reason = "purchase"
	ReasonSale       Reason = "sale"
	ReasonAdjustment Reason = "adjustment"
	ReasonReturn     Reason = "return"
	ReasonDamage     Reason = "damage"
)

// IsValid returns true if the reason is valid
func (r Reason) IsValid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonAdjustment, ReasonReturn, ReasonDamage:
		return true
	}
	return false
}

// StockMovement is an append-only record of one inbound or outbound change
// to a product's on-hand quantity
type StockMovement struct {
	shared.BaseEntity
	ProductID uuid.UUID
	Direction Direction
	Quantity  decimal.Decimal
	Reason    Reason
	Date      time.Time
	Actor     string
	Reference string
}

// MovementSpec carries the input of a stock movement
type MovementSpec struct {
	ProductID uuid.UUID
	Direction Direction
	Quantity  decimal.Decimal
	Reason    Reason
	Date      time.Time
	Actor     string
	Reference string
}

// NewStockMovement validates spec and builds the movement
func NewStockMovement(spec MovementSpec) (*StockMovement, error) {
	if spec.ProductID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "product ID cannot be empty")
	}
	if !spec.Direction.IsValid() {
		return nil, shared.NewValidationError("INVALID_DIRECTION",
			fmt.Sprintf("direction must be in or out, got %q", spec.Direction))
	}
	if err := shared.ValidateQuantity("quantity", spec.Quantity); err != nil {
		return nil, err
	}
	if !spec.Reason.IsValid() {
		return nil, shared.NewValidationError("INVALID_REASON",
			fmt.Sprintf("reason must be one of purchase, sale, adjustment, return, damage, got %q", spec.Reason))
	}
	if spec.Date.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE", "movement date is required")
	}
	actor := strings.TrimSpace(spec.Actor)
	if actor == "" {
		return nil, shared.NewValidationError("INVALID_ACTOR", "actor is required")
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  spec.ProductID,
		Direction:  spec.Direction,
		Quantity:   spec.Quantity,
		Reason:     spec.Reason,
		Date:       spec.Date,
		Actor:      actor,
		Reference:  strings.TrimSpace(spec.Reference),
	}, nil
}

// Delta returns the signed quantity the movement applies to stock
func (m *StockMovement) Delta() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockLevel derives on-hand stock from a movement log: the sum of inbound
// quantities minus the sum of outbound quantities
func StockLevel(movements []StockMovement) decimal.Decimal {
	level := decimal.Zero
	for i := range movements {
		level = level.Add(movements[i].Delta())
	}
	return level
}

// StockLevelFromSums derives on-hand stock from aggregated totals
func StockLevelFromSums(inbound, outbound decimal.Decimal) decimal.Decimal {
	return inbound.Sub(outbound)
}
