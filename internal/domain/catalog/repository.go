package catalog

import (
	"context"

	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductFilter narrows product list queries
type ProductFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
	LowStock   bool
	OutOfStock bool
}

// StockCounts summarizes stock health across the catalog
type StockCounts struct {
	Total      int64
	OutOfStock int64
	LowStock   int64
}

// ProductRepository persists Product aggregates
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindByIDForUpdate loads the product and holds a row lock until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, product *Product) error
	// SaveWithLock updates the product if its version is unchanged since it
	// was loaded and bumps the version
	SaveWithLock(ctx context.Context, product *Product) error
	CountStock(ctx context.Context) (StockCounts, error)
}

// CategoryRepository persists categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, category *Category) error
}
