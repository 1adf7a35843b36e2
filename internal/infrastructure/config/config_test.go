package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"FERRE_APP_NAME",
	"FERRE_APP_ENV",
	"FERRE_APP_PORT",
	"FERRE_DATABASE_DRIVER",
	"FERRE_DATABASE_HOST",
	"FERRE_DATABASE_PORT",
	"FERRE_DATABASE_USER",
	"FERRE_DATABASE_PASSWORD",
	"FERRE_DATABASE_DBNAME",
	"FERRE_DATABASE_SSLMODE",
	"FERRE_DATABASE_PATH",
	"FERRE_DATABASE_MAX_OPEN_CONNS",
	"FERRE_DATABASE_MAX_IDLE_CONNS",
	"FERRE_SCHEDULER_ENABLED",
	"FERRE_SCHEDULER_OVERDUE_INTERVAL",
	"FERRE_IDEMPOTENCY_TTL",
	"FERRE_REDIS_ENABLED",
}

// isolateEnv clears every config variable for the duration of the test
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		isolateEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ferremateriales", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "ferremateriales", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, time.Hour, cfg.Scheduler.OverdueInterval)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.False(t, cfg.Redis.Enabled)
		assert.True(t, cfg.Scheduler.Enabled)
		assert.True(t, cfg.Idempotency.Enabled)
	})

	t.Run("background sweep can be switched off", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_SCHEDULER_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Scheduler.Enabled)
		assert.True(t, cfg.Idempotency.Enabled)
	})

	t.Run("loads values from environment variables with FERRE prefix", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_APP_NAME", "test-app")
		t.Setenv("FERRE_APP_PORT", "9000")
		t.Setenv("FERRE_DATABASE_HOST", "testdb.local")
		t.Setenv("FERRE_DATABASE_PORT", "5433")
		t.Setenv("FERRE_DATABASE_USER", "testuser")
		t.Setenv("FERRE_DATABASE_DBNAME", "testdb")
		t.Setenv("FERRE_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("FERRE_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("FERRE_SCHEDULER_OVERDUE_INTERVAL", "15m")
		t.Setenv("FERRE_IDEMPOTENCY_TTL", "2h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 15*time.Minute, cfg.Scheduler.OverdueInterval)
		assert.Equal(t, 2*time.Hour, cfg.Idempotency.TTL)
	})

	t.Run("mysql driver defaults to port 3306", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_DATABASE_DRIVER", "MySQL")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DriverMySQL, cfg.Database.Driver)
		assert.Equal(t, 3306, cfg.Database.Port)
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver must be one of")
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("FERRE_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed database.max_open_conns")
	})

	t.Run("rejects sub-minute overdue interval", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_SCHEDULER_OVERDUE_INTERVAL", "10s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler.overdue_interval")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Run("requires database.password in production", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_APP_ENV", "production")
		t.Setenv("FERRE_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_APP_ENV", "production")
		t.Setenv("FERRE_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FERRE_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("refuses sqlite in production", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_APP_ENV", "production")
		t.Setenv("FERRE_DATABASE_DRIVER", "sqlite")
		t.Setenv("FERRE_DATABASE_PASSWORD", "secure-password")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlite is not allowed in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("FERRE_APP_ENV", "production")
		t.Setenv("FERRE_DATABASE_PASSWORD", "secure-password")
		t.Setenv("FERRE_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid postgres DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("mysql DSN uses tcp and parseTime", func(t *testing.T) {
		cfg := DatabaseConfig{
			Driver:   DriverMySQL,
			Host:     "db",
			Port:     3306,
			User:     "root",
			Password: "secret",
			DBName:   "ferre",
		}

		assert.Equal(t, "root:secret@tcp(db:3306)/ferre?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())
	})

	t.Run("sqlite DSN is the file path", func(t *testing.T) {
		cfg := DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"}
		assert.Equal(t, ":memory:", cfg.DSN())
	})
}
