package models

import (
	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for a product Category.
type CategoryModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Description: c.Description,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	Name            string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Unit            string          `gorm:"type:varchar(20);not null;default:'unidad'"`
	CategoryID      *uuid.UUID      `gorm:"type:char(36);index"`
	Price           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IsNew           bool            `gorm:"not null;default:false"`
	CurrentStock    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Description     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Unit:              m.Unit,
		CategoryID:        m.CategoryID,
		Price:             m.Price,
		DiscountPercent:   m.DiscountPercent,
		IsNew:             m.IsNew,
		CurrentStock:      m.CurrentStock,
		Description:       m.Description,
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Unit = p.Unit
	m.CategoryID = p.CategoryID
	m.Price = p.Price
	m.DiscountPercent = p.DiscountPercent
	m.IsNew = p.IsNew
	m.CurrentStock = p.CurrentStock
	m.Description = p.Description
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
