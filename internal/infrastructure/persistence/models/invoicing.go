package models

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/invoicing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	CustomerID    uuid.UUID               `gorm:"type:char(36);not null;index"`
	OrderID       *uuid.UUID              `gorm:"type:char(36);index"`
	InvoiceNumber string                  `gorm:"type:varchar(20);not null;uniqueIndex"`
	DateIssued    time.Time               `gorm:"not null;index"`
	DueDate       time.Time               `gorm:"not null;index"`
	Status        invoicing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	TotalAmount   decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	AmountPaid    decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	return &invoicing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		OrderID:           m.OrderID,
		InvoiceNumber:     m.InvoiceNumber,
		DateIssued:        m.DateIssued,
		DueDate:           m.DueDate,
		Status:            m.Status,
		TotalAmount:       m.TotalAmount,
		AmountPaid:        m.AmountPaid,
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(i *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		CustomerID:    i.CustomerID,
		OrderID:       i.OrderID,
		InvoiceNumber: i.InvoiceNumber,
		DateIssued:    i.DateIssued,
		DueDate:       i.DueDate,
		Status:        i.Status,
		TotalAmount:   i.TotalAmount,
		AmountPaid:    i.AmountPaid,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}

// PaymentModel is the persistence model for a Payment.
type PaymentModel struct {
	BaseModel
	InvoiceID uuid.UUID               `gorm:"type:char(36);not null;index"`
	Amount    decimal.Decimal         `gorm:"column:amount_paid;type:decimal(18,4);not null"`
	Method    invoicing.PaymentMethod `gorm:"type:varchar(20);not null"`
	DatePaid  time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *invoicing.Payment {
	return &invoicing.Payment{
		BaseEntity: m.BaseModel.ToDomain(),
		InvoiceID:  m.InvoiceID,
		Amount:     m.Amount,
		Method:     m.Method,
		DatePaid:   m.DatePaid,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *invoicing.Payment) *PaymentModel {
	m := &PaymentModel{
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    p.Method,
		DatePaid:  p.DatePaid,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
