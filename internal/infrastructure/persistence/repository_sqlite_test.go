package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/22Jason22/ferremateriales/internal/domain/catalog"
	"github.com/22Jason22/ferremateriales/internal/domain/inventory"
	"github.com/22Jason22/ferremateriales/internal/domain/partner"
	"github.com/22Jason22/ferremateriales/internal/domain/sales"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createProduct(t *testing.T, db *gorm.DB, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(catalog.ProductSpec{Name: name, Unit: "saco", Price: decimal.RequireFromString("28.50")})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), product))
	return product
}

func createCustomer(t *testing.T, db *gorm.DB, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(partner.CustomerSpec{Name: name})
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Create(context.Background(), customer))
	return customer
}

func TestGormStockMovementRepository_FindByProduct(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormStockMovementRepository(db)
	product := createProduct(t, db, "Cemento Portland")

	post := func(direction inventory.Direction, reason inventory.Reason, qty string, at time.Time) {
		movement, err := inventory.NewStockMovement(inventory.MovementSpec{
			ProductID: product.ID,
			Direction: direction,
			Quantity:  decimal.RequireFromString(qty),
			Reason:    reason,
			Date:      at,
			Actor:     "almacen",
		})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, movement))
	}
	post(inventory.DirectionIn, inventory.ReasonPurchase, "100", testutil.Date(2024, 6, 1))
	post(inventory.DirectionOut, inventory.ReasonSale, "30", testutil.Date(2024, 6, 10))
	post(inventory.DirectionOut, inventory.ReasonDamage, "2.5", testutil.Date(2024, 6, 15).Add(15*time.Hour))
	post(inventory.DirectionIn, inventory.ReasonReturn, "4", testutil.Date(2024, 6, 16))

	t.Run("midnight DateTo covers the whole day", func(t *testing.T) {
		from := testutil.Date(2024, 6, 10)
		to := testutil.Date(2024, 6, 15)
		movements, total, err := repo.FindByProduct(ctx, product.ID, inventory.MovementFilter{
			Filter: shared.Filter{DateFrom: &from, DateTo: &to, OrderDir: "asc"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, movements, 2)
		assert.Equal(t, inventory.ReasonSale, movements[0].Reason)
		assert.Equal(t, inventory.ReasonDamage, movements[1].Reason)
	})

	t.Run("a DateTo with a time is exact", func(t *testing.T) {
		to := testutil.Date(2024, 6, 15).Add(12 * time.Hour)
		_, total, err := repo.FindByProduct(ctx, product.ID, inventory.MovementFilter{
			Filter: shared.Filter{DateTo: &to},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("direction and reason filters", func(t *testing.T) {
		movements, total, err := repo.FindByProduct(ctx, product.ID, inventory.MovementFilter{Direction: inventory.DirectionOut})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, m := range movements {
			assert.Equal(t, inventory.DirectionOut, m.Direction)
		}

		_, total, err = repo.FindByProduct(ctx, product.ID, inventory.MovementFilter{Reason: inventory.ReasonReturn})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("pages are stable", func(t *testing.T) {
		page1, total, err := repo.FindByProduct(ctx, product.ID, inventory.MovementFilter{
			Filter: shared.Filter{Page: 1, PageSize: 3, OrderDir: "asc"},
		})
		require.NoError(t, err)
		page2, _, err := repo.FindByProduct(ctx, product.ID, inventory.MovementFilter{
			Filter: shared.Filter{Page: 2, PageSize: 3, OrderDir: "asc"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, page1, 3)
		require.Len(t, page2, 1)
		assert.Equal(t, inventory.ReasonReturn, page2[0].Reason)
	})

	t.Run("sums and full history agree", func(t *testing.T) {
		inbound, outbound, err := repo.SumByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, inbound.Equal(decimal.NewFromInt(104)), inbound.String())
		assert.True(t, outbound.Equal(decimal.RequireFromString("32.5")), outbound.String())

		history, err := repo.FindAllByProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, history, 4)
		assert.True(t, inventory.StockLevel(history).Equal(inventory.StockLevelFromSums(inbound, outbound)))
	})

	t.Run("unknown sort field falls back to date", func(t *testing.T) {
		movements, _, err := repo.FindByProduct(ctx, product.ID, inventory.MovementFilter{
			Filter: shared.Filter{OrderBy: "actor; DROP TABLE stock_movements", OrderDir: "desc"},
		})
		require.NoError(t, err)
		require.Len(t, movements, 4)
		assert.Equal(t, inventory.ReasonReturn, movements[0].Reason)
	})
}

func TestGormOrderRepository_GenerateOrderNumber(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormOrderRepository(db)
	customer := createCustomer(t, db, "Constructora Andina")
	product := createProduct(t, db, "Varilla 3/8")
	year := time.Now().UTC().Year()

	createOrder := func(number string) {
		order, err := sales.NewOrder(sales.OrderSpec{
			CustomerID:  customer.ID,
			OrderNumber: number,
			Date:        testutil.Date(2024, 6, 1),
			Items: []sales.ItemSpec{{
				ProductID: product.ID,
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: decimal.RequireFromString("10.00"),
			}},
		})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, order))
	}

	first, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PED-%d-00001", year), first)

	createOrder("PED-2019-00077")
	next, err := repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, next, "numbers from earlier years do not advance the sequence")

	createOrder(fmt.Sprintf("PED-%d-00009", year))
	next, err = repo.GenerateOrderNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PED-%d-00010", year), next)

	exists, err := repo.ExistsByNumber(ctx, "PED-2019-00077")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormOrderRepository_Summary(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormOrderRepository(db)
	andina := createCustomer(t, db, "Constructora Andina")
	ferreteria := createCustomer(t, db, "Ferreteria El Tornillo")
	product := createProduct(t, db, "Cemento Portland")

	place := func(customerID uuid.UUID, number string, total string, at time.Time) {
		order, err := sales.NewOrder(sales.OrderSpec{
			CustomerID:  customerID,
			OrderNumber: number,
			Date:        at,
			Items: []sales.ItemSpec{{
				ProductID: product.ID,
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: decimal.RequireFromString(total),
			}},
		})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, order))
	}
	place(andina.ID, "PED-2024-00001", "120.50", testutil.Date(2024, 6, 1))
	place(andina.ID, "PED-2024-00002", "79.50", testutil.Date(2024, 6, 20))
	place(ferreteria.ID, "PED-2024-00003", "300.00", testutil.Date(2024, 6, 5))

	summary, err := repo.Summary(ctx, sales.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.OrderCount)
	assert.Equal(t, int64(3), summary.PendingCount)
	assert.Equal(t, int64(0), summary.DeliveredCount)
	assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("500.00")), summary.TotalAmount.String())

	to := testutil.Date(2024, 6, 10)
	summary, err = repo.Summary(ctx, sales.OrderFilter{
		Filter:     shared.Filter{DateTo: &to},
		CustomerID: &andina.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.OrderCount)
	assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("120.50")), summary.TotalAmount.String())

	count, err := repo.CountByCustomer(ctx, ferreteria.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
