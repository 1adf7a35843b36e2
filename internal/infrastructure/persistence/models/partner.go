package models

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer aggregate root.
// TaxID and Email are nullable so the unique indexes ignore absent values.
type CustomerModel struct {
	AggregateModel
	Name         string                 `gorm:"type:varchar(100);not null;index"`
	TaxID        *string                `gorm:"type:varchar(20);uniqueIndex"`
	Email        *string                `gorm:"type:varchar(254);uniqueIndex"`
	ContactName  string                 `gorm:"type:varchar(100)"`
	Phone        string                 `gorm:"type:varchar(20)"`
	Address      string                 `gorm:"type:text"`
	ClientType   partner.ClientType     `gorm:"type:varchar(30);not null;default:'construction_company'"`
	Status       partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	LastPurchase *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		TaxID:             m.TaxID,
		Email:             m.Email,
		ContactName:       m.ContactName,
		Phone:             m.Phone,
		Address:           m.Address,
		ClientType:        m.ClientType,
		Status:            m.Status,
		LastPurchase:      m.LastPurchase,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.TaxID = c.TaxID
	m.Email = c.Email
	m.ContactName = c.ContactName
	m.Phone = c.Phone
	m.Address = c.Address
	m.ClientType = c.ClientType
	m.Status = c.Status
	m.LastPurchase = c.LastPurchase
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// SupplierModel is the persistence model for the Supplier aggregate root.
type SupplierModel struct {
	AggregateModel
	Name        string                 `gorm:"type:varchar(100);not null;index"`
	TaxID       string                 `gorm:"type:varchar(20);not null;uniqueIndex"`
	ContactName string                 `gorm:"type:varchar(100)"`
	Phone       string                 `gorm:"type:varchar(20)"`
	Email       string                 `gorm:"type:varchar(254)"`
	Address     string                 `gorm:"type:text"`
	Category    string                 `gorm:"type:varchar(100)"`
	Status      partner.SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		TaxID:             m.TaxID,
		ContactName:       m.ContactName,
		Phone:             m.Phone,
		Email:             m.Email,
		Address:           m.Address,
		Category:          m.Category,
		Status:            m.Status,
	}
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		Name:        s.Name,
		TaxID:       s.TaxID,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		Category:    s.Category,
		Status:      s.Status,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
