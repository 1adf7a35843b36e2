package partner

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
)

// ClientType classifies a customer
type ClientType string

const (
	ClientTypeConstructionCompany ClientType = "construction_company"
	ClientTypeHardwareStore       ClientType = "hardware_store"
	ClientTypeGeneralPublic       ClientType = "general_public"
	ClientTypeOther               ClientType = "other"
)

// IsValid returns true if the client type is valid
func (t ClientType) IsValid() bool {
	switch t {
	case ClientTypeConstructionCompany, ClientTypeHardwareStore, ClientTypeGeneralPublic, ClientTypeOther:
		return true
	}
	return false
}

// CustomerStatus represents the standing of a customer
type CustomerStatus string

const (
	CustomerStatusActive     CustomerStatus = "active"
	CustomerStatusInactive   CustomerStatus = "inactive"
	CustomerStatusDelinquent CustomerStatus = "delinquent"
	CustomerStatusNew        CustomerStatus = "new"
)

// IsValid returns true if the status is valid
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusDelinquent, CustomerStatusNew:
		return true
	}
	return false
}

// Customer is a buyer of the store. TaxID and Email are optional but unique
// when present, so they are pointers and stored as NULL when absent.
type Customer struct {
	shared.BaseAggregateRoot
	Name         string
	TaxID        *string
	Email        *string
	ContactName  string
	Phone        string
	Address      string
	ClientType   ClientType
	Status       CustomerStatus
	LastPurchase *time.Time
}

// CustomerSpec carries the editable fields of a customer
type CustomerSpec struct {
	Name        string
	TaxID       string
	Email       string
	ContactName string
	Phone       string
	Address     string
	ClientType  ClientType
	Status      CustomerStatus
}

var phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

// NewCustomer creates a customer. Client type defaults to construction
// company and status to active.
func NewCustomer(spec CustomerSpec) (*Customer, error) {
	c := &Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.apply(spec); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces every editable field. LastPurchase is owned by the order
// workflow and is left alone.
func (c *Customer) Update(spec CustomerSpec) error {
	if err := c.apply(spec); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (c *Customer) apply(spec CustomerSpec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "customer name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "customer name cannot exceed 100 characters")
	}

	clientType := spec.ClientType
	if clientType == "" {
		clientType = ClientTypeConstructionCompany
	}
	if !clientType.IsValid() {
		return shared.NewValidationError("INVALID_CLIENT_TYPE", fmt.Sprintf("unknown client type %q", spec.ClientType))
	}
	status := spec.Status
	if status == "" {
		status = CustomerStatusActive
	}
	if !status.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("unknown customer status %q", spec.Status))
	}

	taxID := optional(spec.TaxID)
	if taxID != nil && len(*taxID) > 20 {
		return shared.NewValidationError("INVALID_TAX_ID", "tax ID cannot exceed 20 characters")
	}
	email := optional(strings.ToLower(spec.Email))
	if email != nil {
		if _, err := mail.ParseAddress(*email); err != nil {
			return shared.NewValidationError("INVALID_EMAIL", "invalid email format")
		}
	}
	phone := strings.TrimSpace(spec.Phone)
	if phone != "" && (len(phone) > 20 || !phonePattern.MatchString(phone)) {
		return shared.NewValidationError("INVALID_PHONE", "invalid phone number format")
	}

	c.Name = name
	c.TaxID = taxID
	c.Email = email
	c.ContactName = strings.TrimSpace(spec.ContactName)
	c.Phone = phone
	c.Address = strings.TrimSpace(spec.Address)
	c.ClientType = clientType
	c.Status = status
	return nil
}

// RecordPurchase moves LastPurchase forward to at. An order dated before
// the current LastPurchase leaves it unchanged, so the field always holds
// the latest order date regardless of the order in which orders are saved.
// Returns whether the field changed.
func (c *Customer) RecordPurchase(at time.Time) bool {
	if c.LastPurchase != nil && !at.After(*c.LastPurchase) {
		return false
	}
	t := at
	c.LastPurchase = &t
	c.UpdatedAt = time.Now()
	return true
}

// ResetLastPurchase sets LastPurchase to latest, the newest date among the
// customer's remaining orders, or nil when none is left. It is used when an
// order stops backing the current value. Returns whether the field changed.
func (c *Customer) ResetLastPurchase(latest *time.Time) bool {
	switch {
	case latest == nil && c.LastPurchase == nil:
		return false
	case latest != nil && c.LastPurchase != nil && latest.Equal(*c.LastPurchase):
		return false
	}
	if latest == nil {
		c.LastPurchase = nil
	} else {
		t := *latest
		c.LastPurchase = &t
	}
	c.UpdatedAt = time.Now()
	return true
}

// MarkDelinquent flags a customer with unpaid overdue invoices. Inactive
// customers keep their status. Returns whether the status changed.
func (c *Customer) MarkDelinquent() bool {
	if c.Status == CustomerStatusDelinquent || c.Status == CustomerStatusInactive {
		return false
	}
	c.Status = CustomerStatusDelinquent
	c.UpdatedAt = time.Now()
	return true
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
