package persistence_test

import (
	"context"
	"sync"
	"testing"
	"time"

	appinventory "github.com/22Jason22/ferremateriales/internal/application/inventory"
	appledger "github.com/22Jason22/ferremateriales/internal/application/ledger"
	"github.com/22Jason22/ferremateriales/internal/domain/shared"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/config"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/migration"
	"github.com/22Jason22/ferremateriales/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newPostgresDB starts a PostgreSQL container and applies the embedded
// migrations to it
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ferremateriales_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	database, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:       config.DriverPostgres,
		Host:         host,
		Port:         port.Int(),
		User:         "postgres",
		Password:     "postgres",
		DBName:       "ferremateriales_test",
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	migrator, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up())

	version, dirty, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
	assert.False(t, dirty)

	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

func TestPostgres_ConcurrentPostingsSerialize(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	service := appledger.NewLedgerService(
		persistence.NewRepositories(db), persistence.NewGormTransactionScope(db), zap.NewNop())

	account, err := service.CreateAccount(ctx, appledger.CreateAccountInput{Name: "Constructora Andina", AccountNumber: "CC-001"})
	require.NoError(t, err)

	post := func(kind string, amount string) error {
		_, err := service.CreateTransaction(ctx, account.ID, appledger.CreateTransactionInput{
			Type:   kind,
			Amount: decimal.RequireFromString(amount),
			Date:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		})
		return err
	}

	const credits = 20
	var wg sync.WaitGroup
	for i := 0; i < credits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, post("credit", "10.00"))
		}()
	}
	wg.Wait()

	balance, err := service.VerifyBalance(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Balance.Equal(decimal.NewFromInt(200)), balance.Balance.String())
	assert.True(t, balance.Consistent)

	// 200 covers exactly eight debits of 25
	var (
		mu        sync.Mutex
		accepted  int
		overdrawn int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := post("debit", "25.00")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case assert.ErrorIs(t, err, shared.ErrConflict):
				overdrawn++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, accepted)
	assert.Equal(t, 4, overdrawn)

	balance, err = service.VerifyBalance(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, balance.Balance.IsZero(), balance.Balance.String())
	assert.True(t, balance.Consistent)
}

func TestPostgres_ConcurrentStockMovementsNeverGoNegative(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	repos := persistence.NewRepositories(db)
	txScope := persistence.NewGormTransactionScope(db)
	products := appinventory.NewProductService(repos, txScope, zap.NewNop())
	stock := appinventory.NewStockService(repos, txScope, zap.NewNop())

	product, err := products.CreateProduct(ctx, appinventory.CreateProductInput{
		Name:         "Cemento Portland",
		Unit:         "saco",
		Price:        decimal.RequireFromString("28.50"),
		InitialStock: decimal.NewFromInt(30),
	})
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		refused  int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stock.CreateStockMovement(ctx, product.ID, appinventory.CreateStockMovementInput{
				Direction: "out",
				Quantity:  decimal.NewFromInt(4),
				Reason:    "sale",
				Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				Actor:     "mostrador",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case assert.ErrorIs(t, err, shared.ErrStock):
				refused++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 7, accepted)
	assert.Equal(t, 3, refused)

	level, err := stock.VerifyStock(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, level.CurrentStock.Equal(decimal.NewFromInt(2)), level.CurrentStock.String())
	assert.True(t, level.Consistent)
	assert.Equal(t, int64(8), level.MovementCount)
}

func TestPostgres_MigrationsRollBack(t *testing.T) {
	db := newPostgresDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	migrator, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, migrator.Steps(-1))
	version, _, err := migrator.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, db.Migrator().HasTable("invoices"))
	assert.True(t, db.Migrator().HasTable("accounts"))

	require.NoError(t, migrator.Up())
	assert.True(t, db.Migrator().HasTable("invoices"))
}
