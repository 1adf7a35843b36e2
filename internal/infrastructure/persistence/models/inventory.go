package models

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockMovementModel is the persistence model for a StockMovement.
// Direction is stored as the is_inbound flag.
type StockMovementModel struct {
	BaseModel
	ProductID uuid.UUID        `gorm:"type:char(36);not null;index"`
	IsInbound bool             `gorm:"not null"`
	Quantity  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Reason    inventory.Reason `gorm:"type:varchar(20);not null"`
	Date      time.Time        `gorm:"not null;index"`
	Actor     string           `gorm:"type:varchar(100);not null"`
	Reference string           `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement.
func (m *StockMovementModel) ToDomain() *inventory.StockMovement {
	return &inventory.StockMovement{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		Direction:  inventory.DirectionFromInbound(m.IsInbound),
		Quantity:   m.Quantity,
		Reason:     m.Reason,
		Date:       m.Date,
		Actor:      m.Actor,
		Reference:  m.Reference,
	}
}

// StockMovementModelFromDomain creates a new persistence model from a domain StockMovement.
func StockMovementModelFromDomain(sm *inventory.StockMovement) *StockMovementModel {
	m := &StockMovementModel{
		ProductID: sm.ProductID,
		IsInbound: sm.Direction.IsInbound(),
		Quantity:  sm.Quantity,
		Reason:    sm.Reason,
		Date:      sm.Date,
		Actor:     sm.Actor,
		Reference: sm.Reference,
	}
	m.FromDomainBaseEntity(sm.BaseEntity)
	return m
}
