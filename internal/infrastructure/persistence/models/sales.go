package models

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemModel holds the columns shared by every document line
type LineItemModel struct {
	ID        uuid.UUID       `gorm:"type:char(36);primary_key"`
	ProductID uuid.UUID       `gorm:"type:char(36);not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// ToDomain converts the line columns to a domain LineItem
func (m *LineItemModel) ToDomain() sales.LineItem {
	return sales.LineItem{
		ID:        m.ID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Total:     m.Total,
	}
}

// FromDomainLineItem populates the line columns from a domain LineItem
func (m *LineItemModel) FromDomainLineItem(l sales.LineItem) {
	m.ID = l.ID
	m.ProductID = l.ProductID
	m.Quantity = l.Quantity
	m.UnitPrice = l.UnitPrice
	m.Total = l.Total
}

// QuoteModel is the persistence model for the Quote aggregate root.
type QuoteModel struct {
	AggregateModel
	CustomerID  uuid.UUID         `gorm:"type:char(36);not null;index"`
	QuoteNumber string            `gorm:"type:varchar(20);not null;uniqueIndex"`
	Date        time.Time         `gorm:"not null"`
	Status      sales.QuoteStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Items       []QuoteItemModel  `gorm:"foreignKey:QuoteID;references:ID"`
}

// TableName returns the table name for GORM
func (QuoteModel) TableName() string {
	return "quotes"
}

// ToDomain converts the persistence model to a domain Quote.
func (m *QuoteModel) ToDomain() *sales.Quote {
	q := &sales.Quote{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		QuoteNumber:       m.QuoteNumber,
		Date:              m.Date,
		Status:            m.Status,
		TotalAmount:       m.TotalAmount,
		Items:             make([]sales.QuoteItem, len(m.Items)),
	}
	for i := range m.Items {
		q.Items[i] = sales.QuoteItem{LineItem: m.Items[i].LineItemModel.ToDomain(), QuoteID: m.Items[i].QuoteID}
	}
	return q
}

// QuoteModelFromDomain creates a new persistence model from a domain Quote.
func QuoteModelFromDomain(q *sales.Quote) *QuoteModel {
	m := &QuoteModel{
		CustomerID:  q.CustomerID,
		QuoteNumber: q.QuoteNumber,
		Date:        q.Date,
		Status:      q.Status,
		TotalAmount: q.TotalAmount,
		Items:       make([]QuoteItemModel, len(q.Items)),
	}
	m.FromDomainAggregateRoot(q.BaseAggregateRoot)
	for i, item := range q.Items {
		m.Items[i].FromDomainLineItem(item.LineItem)
		m.Items[i].QuoteID = q.ID
	}
	return m
}

// QuoteItemModel is the persistence model for a QuoteItem.
type QuoteItemModel struct {
	LineItemModel
	QuoteID uuid.UUID `gorm:"type:char(36);not null;index"`
}

// TableName returns the table name for GORM
func (QuoteItemModel) TableName() string {
	return "quote_items"
}

// OrderModel is the persistence model for the Order aggregate root.
// quote_id is unique: a quote becomes at most one order.
type OrderModel struct {
	AggregateModel
	CustomerID  uuid.UUID         `gorm:"type:char(36);not null;index"`
	OrderNumber string            `gorm:"type:varchar(20);not null;uniqueIndex"`
	QuoteID     *uuid.UUID        `gorm:"type:char(36);uniqueIndex"`
	Status      sales.OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Date        time.Time         `gorm:"not null;index"`
	Items       []OrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *sales.Order {
	o := &sales.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		OrderNumber:       m.OrderNumber,
		QuoteID:           m.QuoteID,
		Status:            m.Status,
		TotalAmount:       m.TotalAmount,
		Date:              m.Date,
		Items:             make([]sales.OrderItem, len(m.Items)),
	}
	for i := range m.Items {
		o.Items[i] = sales.OrderItem{LineItem: m.Items[i].LineItemModel.ToDomain(), OrderID: m.Items[i].OrderID}
	}
	return o
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *sales.Order) *OrderModel {
	m := &OrderModel{
		CustomerID:  o.CustomerID,
		OrderNumber: o.OrderNumber,
		QuoteID:     o.QuoteID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Date:        o.Date,
		Items:       make([]OrderItemModel, len(o.Items)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for i, item := range o.Items {
		m.Items[i].FromDomainLineItem(item.LineItem)
		m.Items[i].OrderID = o.ID
	}
	return m
}

// OrderItemModel is the persistence model for an OrderItem.
type OrderItemModel struct {
	LineItemModel
	OrderID uuid.UUID `gorm:"type:char(36);not null;index"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}
