package models

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	AggregateModel
	SupplierID  uuid.UUID                      `gorm:"type:char(36);not null;index"`
	OrderNumber string                         `gorm:"type:varchar(20);not null;uniqueIndex"`
	Date        time.Time                      `gorm:"not null"`
	Status      purchasing.PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	TotalAmount decimal.Decimal                `gorm:"type:decimal(18,4);not null;default:0"`
	Items       []PurchaseOrderItemModel       `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	po := &purchasing.PurchaseOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SupplierID:        m.SupplierID,
		OrderNumber:       m.OrderNumber,
		Date:              m.Date,
		Status:            m.Status,
		TotalAmount:       m.TotalAmount,
		Items:             make([]purchasing.PurchaseOrderItem, len(m.Items)),
	}
	for i := range m.Items {
		po.Items[i] = purchasing.PurchaseOrderItem{
			LineItem:         m.Items[i].LineItemModel.ToDomain(),
			PurchaseOrderID:  m.Items[i].PurchaseOrderID,
			ReceivedQuantity: m.Items[i].ReceivedQuantity,
		}
	}
	return po
}

// PurchaseOrderModelFromDomain creates a new persistence model from a domain PurchaseOrder.
func PurchaseOrderModelFromDomain(po *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		SupplierID:  po.SupplierID,
		OrderNumber: po.OrderNumber,
		Date:        po.Date,
		Status:      po.Status,
		TotalAmount: po.TotalAmount,
		Items:       make([]PurchaseOrderItemModel, len(po.Items)),
	}
	m.FromDomainAggregateRoot(po.BaseAggregateRoot)
	for i, item := range po.Items {
		m.Items[i].FromDomainLineItem(item.LineItem)
		m.Items[i].PurchaseOrderID = po.ID
		m.Items[i].ReceivedQuantity = item.ReceivedQuantity
	}
	return m
}

// PurchaseOrderItemModel is the persistence model for a PurchaseOrderItem.
type PurchaseOrderItemModel struct {
	LineItemModel
	PurchaseOrderID  uuid.UUID       `gorm:"type:char(36);not null;index"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// GoodsReceiptModel is the persistence model for a GoodsReceipt.
type GoodsReceiptModel struct {
	BaseModel
	PurchaseOrderID uuid.UUID               `gorm:"type:char(36);not null;index"`
	ReceiptNumber   string                  `gorm:"type:varchar(20);not null;uniqueIndex"`
	Date            time.Time               `gorm:"not null"`
	ReceivedBy      string                  `gorm:"type:varchar(100);not null"`
	Items           []GoodsReceiptItemModel `gorm:"foreignKey:ReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (GoodsReceiptModel) TableName() string {
	return "goods_receipts"
}

// ToDomain converts the persistence model to a domain GoodsReceipt.
func (m *GoodsReceiptModel) ToDomain() *purchasing.GoodsReceipt {
	gr := &purchasing.GoodsReceipt{
		BaseEntity:      m.BaseModel.ToDomain(),
		PurchaseOrderID: m.PurchaseOrderID,
		ReceiptNumber:   m.ReceiptNumber,
		Date:            m.Date,
		ReceivedBy:      m.ReceivedBy,
		Items:           make([]purchasing.GoodsReceiptItem, len(m.Items)),
	}
	for i, item := range m.Items {
		gr.Items[i] = purchasing.GoodsReceiptItem{
			ID:               item.ID,
			ReceiptID:        item.ReceiptID,
			ProductID:        item.ProductID,
			QuantityReceived: item.QuantityReceived,
		}
	}
	return gr
}

// GoodsReceiptModelFromDomain creates a new persistence model from a domain GoodsReceipt.
func GoodsReceiptModelFromDomain(gr *purchasing.GoodsReceipt) *GoodsReceiptModel {
	m := &GoodsReceiptModel{
		PurchaseOrderID: gr.PurchaseOrderID,
		ReceiptNumber:   gr.ReceiptNumber,
		Date:            gr.Date,
		ReceivedBy:      gr.ReceivedBy,
		Items:           make([]GoodsReceiptItemModel, len(gr.Items)),
	}
	m.FromDomainBaseEntity(gr.BaseEntity)
	for i, item := range gr.Items {
		m.Items[i] = GoodsReceiptItemModel{
			ID:               item.ID,
			ReceiptID:        gr.ID,
			ProductID:        item.ProductID,
			QuantityReceived: item.QuantityReceived,
		}
	}
	return m
}

// GoodsReceiptItemModel is the persistence model for a GoodsReceiptItem.
type GoodsReceiptItemModel struct {
	ID               uuid.UUID       `gorm:"type:char(36);primary_key"`
	ReceiptID        uuid.UUID       `gorm:"type:char(36);not null;index"`
	ProductID        uuid.UUID       `gorm:"type:char(36);not null;index"`
	QuantityReceived decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (GoodsReceiptItemModel) TableName() string {
	return "goods_receipt_items"
}
