package partner

import (
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/partner"
	"github.com/google/uuid"
)

// CustomerInput carries the full record of a customer for create and update
type CustomerInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	TaxID       string `json:"tax_id" validate:"max=20"`
	Email       string `json:"email" validate:"omitempty,email,max=100"`
	ContactName string `json:"contact_name" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=20"`
	Address     string `json:"address" validate:"max=255"`
	ClientType  string `json:"client_type" validate:"omitempty,oneof=construction_company hardware_store general_public other"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive delinquent new"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	ClientType string `form:"client_type"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	TaxID        string     `json:"tax_id,omitempty"`
	Email        string     `json:"email,omitempty"`
	ContactName  string     `json:"contact_name"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	ClientType   string     `json:"client_type"`
	Status       string     `json:"status"`
	LastPurchase *time.Time `json:"last_purchase,omitempty"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SupplierInput carries the full record of a supplier
type SupplierInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	TaxID       string `json:"tax_id" validate:"required,max=20"`
	ContactName string `json:"contact_name" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=20"`
	Email       string `json:"email" validate:"omitempty,email,max=100"`
	Address     string `json:"address" validate:"max=255"`
	Category    string `json:"category" validate:"max=50"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	TaxID       string    `json:"tax_id"`
	ContactName string    `json:"contact_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (in CustomerInput) spec() partner.CustomerSpec {
	return partner.CustomerSpec{
		Name:        in.Name,
		TaxID:       in.TaxID,
		Email:       in.Email,
		ContactName: in.ContactName,
		Phone:       in.Phone,
		Address:     in.Address,
		ClientType:  partner.ClientType(in.ClientType),
		Status:      partner.CustomerStatus(in.Status),
	}
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:           c.ID,
		Name:         c.Name,
		ContactName:  c.ContactName,
		Phone:        c.Phone,
		Address:      c.Address,
		ClientType:   string(c.ClientType),
		Status:       string(c.Status),
		LastPurchase: c.LastPurchase,
		Version:      c.Version,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.TaxID != nil {
		resp.TaxID = *c.TaxID
	}
	if c.Email != nil {
		resp.Email = *c.Email
	}
	return resp
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		TaxID:       s.TaxID,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		Category:    s.Category,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
	}
}
