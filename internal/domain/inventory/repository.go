package inventory

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementFilter narrows movement list queries
type MovementFilter struct {
	shared.Filter
	Direction Direction
	Reason    Reason
}

// StockMovementRepository is the append-only store of stock movements
type StockMovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	FindByProduct(ctx context.Context, productID uuid.UUID, filter MovementFilter) ([]StockMovement, int64, error)
	// FindAllByProduct returns every movement of a product in date order
	FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]StockMovement, error)
	// SumByProduct returns the total inbound and outbound quantities
	SumByProduct(ctx context.Context, productID uuid.UUID) (inbound, outbound decimal.Decimal, err error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
