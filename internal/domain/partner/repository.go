package partner

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerFilter narrows customer list queries
type CustomerFilter struct {
	shared.Filter
	Status     CustomerStatus
	ClientType ClientType
}

// CustomerRepository persists Customer aggregates
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// FindByIDForUpdate loads the customer and holds a row lock until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context, filter CustomerFilter) ([]Customer, int64, error)
	ExistsByTaxID(ctx context.Context, taxID string, excludeID *uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, customer *Customer) error
	SaveWithLock(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository persists Supplier aggregates
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, int64, error)
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)
	Create(ctx context.Context, supplier *Supplier) error
}
