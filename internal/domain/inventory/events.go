package inventory

import (
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventTypeStockMovementRecorded is raised after a movement changed a product's stock
const EventTypeStockMovementRecorded = "StockMovementRecorded"

// StockMovementRecordedEvent is raised when a stock movement is recorded
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID       `json:"product_id"`
	Direction  Direction       `json:"direction"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reason     Reason          `json:"reason"`
	StockAfter decimal.Decimal `json:"stock_after"`
	Reference  string          `json:"reference,omitempty"`
}

// NewStockMovementRecordedEvent creates a new StockMovementRecordedEvent
func NewStockMovementRecordedEvent(m *StockMovement, stockAfter decimal.Decimal) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, AggregateTypeStockMovement, m.ID),
		ProductID:       m.ProductID,
		Direction:       m.Direction,
		Quantity:        m.Quantity,
		Reason:          m.Reason,
		StockAfter:      stockAfter,
		Reference:       m.Reference,
	}
}
