package partner

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
)

// SupplierStatus represents whether a supplier is currently used
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// IsValid returns true if the status is valid
func (s SupplierStatus) IsValid() bool {
	return s == SupplierStatusActive || s == SupplierStatusInactive
}

// Supplier is a vendor the store buys from
type Supplier struct {
	shared.BaseAggregateRoot
	Name        string
	TaxID       string
	ContactName string
	Phone       string
	Email       string
	Address     string
	Category    string
	Status      SupplierStatus
}

// SupplierSpec carries the editable fields of a supplier
type SupplierSpec struct {
	Name        string
	TaxID       string
	ContactName string
	Phone       string
	Email       string
	Address     string
	Category    string
	Status      SupplierStatus
}

// NewSupplier creates a supplier. Tax ID (RUC) is mandatory.
func NewSupplier(spec SupplierSpec) (*Supplier, error) {
	s := &Supplier{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := s.apply(spec); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces every editable field
func (s *Supplier) Update(spec SupplierSpec) error {
	if err := s.apply(spec); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	return nil
}

// IsActive reports whether purchase orders may be placed with the supplier
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

func (s *Supplier) apply(spec SupplierSpec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" || len(name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "supplier name must be 1-100 characters")
	}
	taxID := strings.TrimSpace(spec.TaxID)
	if taxID == "" || len(taxID) > 20 {
		return shared.NewValidationError("INVALID_TAX_ID", "supplier tax ID must be 1-20 characters")
	}
	status := spec.Status
	if status == "" {
		status = SupplierStatusActive
	}
	if !status.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("unknown supplier status %q", spec.Status))
	}
	email := strings.ToLower(strings.TrimSpace(spec.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("INVALID_EMAIL", "invalid email format")
		}
	}

	s.Name = name
	s.TaxID = taxID
	s.ContactName = strings.TrimSpace(spec.ContactName)
	s.Phone = strings.TrimSpace(spec.Phone)
	s.Email = email
	s.Address = strings.TrimSpace(spec.Address)
	s.Category = strings.TrimSpace(spec.Category)
	s.Status = status
	return nil
}
