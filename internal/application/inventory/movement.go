package inventory

import (
	"context"

	appshared "github.com/22Jason22/ferremateriales/internal/application/shared"
	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
)

// ApplyMovement records a stock movement and moves the product's stock by
// it inside the caller's transaction. The product row is locked before the
// stock check, so concurrent movements on one product serialize. A movement
// that would leave the stock negative fails with a StockError and nothing
// is written.
//
// The returned product carries a StockMovementRecorded event for the caller
// to publish after commit.
func ApplyMovement(ctx context.Context, repos appshared.TransactionalRepositories, spec inventory.MovementSpec) (*catalog.Product, *inventory.StockMovement, error) {
	movement, err := inventory.NewStockMovement(spec)
	if err != nil {
		return nil, nil, err
	}
	product, err := repos.ProductRepo().FindByIDForUpdate(ctx, spec.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if err := product.ApplyStockChange(movement.Delta()); err != nil {
		return nil, nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, nil, err
	}
	if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
		return nil, nil, err
	}
	product.AddDomainEvent(inventory.NewStockMovementRecordedEvent(movement, product.CurrentStock))
	return product, movement, nil
}
