package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/22Jason22/ferremateriales/internal/infrastructure/config"
	"github.com/22Jason22/ferremateriales/internal/testutil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newMockGormDB opens GORM with the postgres dialect over a sqlmock connection
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	m := testutil.NewMockDB(t)
	return m.DB, m.Mock, m.SqlDB
}

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	gormDB, mock, mockDB := newMockGormDB(t)
	return &Database{DB: gormDB, driver: config.DriverPostgres}, mock, mockDB
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{config.DriverPostgres, "postgres"},
		{"", "postgres"},
		{config.DriverSQLite, "sqlite"},
		{config.DriverMySQL, "mysql"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.driver, func(t *testing.T) {
			d, err := Dialector(&config.DatabaseConfig{Driver: tt.driver, Path: ":memory:"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	_, err := Dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestNewDatabase_SQLite(t *testing.T) {
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         ":memory:",
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	})
	require.NoError(t, err)

	require.NoError(t, db.Ping(context.Background()))
	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)

	require.NoError(t, db.Close())
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_EnsureSchema(t *testing.T) {
	t.Run("sqlite tables come from the models", func(t *testing.T) {
		db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
		require.NoError(t, err)
		defer db.Close()

		applied, err := db.EnsureSchema()
		require.NoError(t, err)
		assert.True(t, applied)
		for _, table := range []string{"accounts", "ledger_transactions", "stock_movements", "orders", "invoices"} {
			assert.True(t, db.DB.Migrator().HasTable(table), "missing table %s", table)
		}

		again, err := db.EnsureSchema()
		require.NoError(t, err)
		assert.True(t, again)
	})

	t.Run("postgres is left to the migrations", func(t *testing.T) {
		gormDB, mock, _ := newMockGormDB(t)
		db := &Database{DB: gormDB, driver: config.DriverPostgres}

		applied, err := db.EnsureSchema()
		require.NoError(t, err)
		assert.False(t, applied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
