package inventory

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"testing/quick"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence"
	"github.com/22Jason22/ferremateriales/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	stock     *StockService
	products  *ProductService
	publisher *testutil.RecordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	repos := persistence.NewRepositories(db)
	scope := persistence.NewGormTransactionScope(db)
	publisher := testutil.NewRecordingPublisher()

	stock := NewStockService(repos, scope, zap.NewNop())
	stock.SetEventPublisher(publisher)
	products := NewProductService(repos, scope, zap.NewNop())
	products.SetEventPublisher(publisher)
	return &fixture{db: db, stock: stock, products: products, publisher: publisher}
}

func (f *fixture) createProduct(t *testing.T, name string, initial string) *ProductResponse {
	t.Helper()
	product, err := f.products.CreateProduct(context.Background(), CreateProductInput{
		Name:         name,
		Unit:         "bolsa",
		Price:        decimal.RequireFromString("25.50"),
		InitialStock: decimal.RequireFromString(initial),
		Actor:        "almacen",
	})
	require.NoError(t, err)
	return product
}

func movementInput(direction string, qty string) CreateStockMovementInput {
	reason := "sale"
	if direction == "in" {
		reason = "purchase"
	}
	return CreateStockMovementInput{
		Direction: direction,
		Quantity:  decimal.RequireFromString(qty),
		Reason:    reason,
		Date:      time.Now().UTC(),
		Actor:     "almacen",
	}
}

func TestStockService_CreateStockMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("out movements reduce stock until it runs out", func(t *testing.T) {
		f := newFixture(t)
		product := f.createProduct(t, "Cemento Portland", "10")

		recorded, err := f.stock.CreateStockMovement(ctx, product.ID, movementInput("out", "4"))
		require.NoError(t, err)
		assert.True(t, recorded.StockAfter.Equal(decimal.NewFromInt(6)))

		_, err = f.stock.CreateStockMovement(ctx, product.ID, movementInput("out", "10"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrStock))

		level, err := f.stock.GetStockLevel(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, level.CurrentStock.Equal(decimal.NewFromInt(6)), "stock = %s", level.CurrentStock)
		assert.True(t, level.Consistent)
		assert.Equal(t, int64(2), level.MovementCount)
	})

	t.Run("fractional quantities are kept", func(t *testing.T) {
		f := newFixture(t)
		product := f.createProduct(t, "Arena fina", "2.5")

		recorded, err := f.stock.CreateStockMovement(ctx, product.ID, movementInput("out", "0.75"))
		require.NoError(t, err)
		assert.Equal(t, "1.75", recorded.StockAfter.String())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newFixture(t)
		product := f.createProduct(t, "Ladrillo", "0")

		input := movementInput("sideways", "1")
		_, err := f.stock.CreateStockMovement(ctx, product.ID, input)
		assert.True(t, errors.Is(err, shared.ErrValidation))

		input = movementInput("in", "0")
		_, err = f.stock.CreateStockMovement(ctx, product.ID, input)
		assert.True(t, errors.Is(err, shared.ErrValidation))

		input = movementInput("in", "1.234")
		_, err = f.stock.CreateStockMovement(ctx, product.ID, input)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.stock.CreateStockMovement(ctx, uuid.New(), movementInput("in", "1"))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("publishes a movement event after commit", func(t *testing.T) {
		f := newFixture(t)
		product := f.createProduct(t, "Fierro 1/2", "0")

		_, err := f.stock.CreateStockMovement(ctx, product.ID, movementInput("in", "3"))
		require.NoError(t, err)
		events := f.publisher.Events()
		require.NotEmpty(t, events)
		last, ok := events[len(events)-1].(*inventory.StockMovementRecordedEvent)
		require.True(t, ok)
		assert.Equal(t, product.ID, last.ProductID)
		assert.True(t, last.StockAfter.Equal(decimal.NewFromInt(3)))
	})
}

func TestStockService_VerifyStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	product := f.createProduct(t, "Yeso", "8")

	level, err := f.stock.VerifyStock(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, level.Derived.Equal(decimal.NewFromInt(8)))

	require.NoError(t, f.db.Exec("UPDATE products SET current_stock = 99 WHERE id = ?", product.ID).Error)

	level, err = f.stock.VerifyStock(ctx, product.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConsistency))
	assert.False(t, level.Consistent)
}

func TestStockService_ListMovements(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	product := f.createProduct(t, "Clavos 2\"", "20")

	for i := 0; i < 3; i++ {
		_, err := f.stock.CreateStockMovement(ctx, product.ID, movementInput("out", "1"))
		require.NoError(t, err)
	}

	all, total, err := f.stock.ListMovements(ctx, product.ID, MovementListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)

	outs, total, err := f.stock.ListMovements(ctx, product.ID, MovementListFilter{Direction: "out", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, outs, 2)

	_, _, err = f.stock.ListMovements(ctx, product.ID, MovementListFilter{Reason: "theft"})
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, history, err := f.stock.MovementHistory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, "in", history[0].Direction)
	assert.Equal(t, "adjustment", history[0].Reason)
}

// Over random sequences of movements the stock maintained on the product
// equals the signed sum of the accepted movements, computed both in SQL and
// in memory, and rejected out movements change nothing.
func TestStockService_IncrementalMatchesReadTime(t *testing.T) {
	ctx := context.Background()

	property := func(seed int64) bool {
		f := newFixture(t)
		product := f.createProduct(t, "Producto "+uuid.NewString()[:8], "0")
		rng := rand.New(rand.NewSource(seed))

		expected := decimal.Zero
		for i := 0; i < 15; i++ {
			direction := "in"
			if rng.Intn(2) == 0 {
				direction = "out"
			}
			qty := decimal.New(int64(rng.Intn(800)+1), -2)
			_, err := f.stock.CreateStockMovement(ctx, product.ID, movementInput(direction, qty.String()))
			switch {
			case err == nil && direction == "in":
				expected = expected.Add(qty)
			case err == nil:
				expected = expected.Sub(qty)
			case direction == "out" && errors.Is(err, shared.ErrStock) && qty.GreaterThan(expected):
			default:
				t.Logf("unexpected result for %s %s with stock %s: %v", direction, qty, expected, err)
				return false
			}
		}

		level, err := f.stock.VerifyStock(ctx, product.ID)
		if err != nil {
			t.Logf("verify: %v", err)
			return false
		}
		_, history, err := f.stock.MovementHistory(ctx, product.ID)
		if err != nil {
			return false
		}
		inMemory := decimal.Zero
		for _, m := range history {
			if m.Direction == "in" {
				inMemory = inMemory.Add(m.Quantity)
			} else {
				inMemory = inMemory.Sub(m.Quantity)
			}
		}
		return level.CurrentStock.Equal(expected) &&
			level.Derived.Equal(expected) &&
			inMemory.Equal(expected) &&
			!expected.IsNegative()
	}

	require.NoError(t, quick.Check(property, &quick.Config{MaxCount: 20}))
}
