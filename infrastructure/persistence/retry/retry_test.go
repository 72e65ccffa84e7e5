package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ordercore/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	c := DefaultConfig
	c.Enabled = true
	c.InitialDelay = time.Millisecond
	c.MaxDelay = 2 * time.Millisecond
	c.JitterEnabled = false
	return c
}

func TestIsRetryableError(t *testing.T) {
	cfg := fastConfig()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"mysql deadlock", &mysqlDriver.MySQLError{Number: 1213}, true},
		{"mysql lock wait", &mysqlDriver.MySQLError{Number: 1205}, true},
		{"mysql duplicate", &mysqlDriver.MySQLError{Number: 1062}, false},
		{"postgres serialization", &pgconn.PgError{Code: "40001"}, true},
		{"postgres deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"wrapped in persistence error", shared.NewPersistenceError("gorm", "save order", &pgconn.PgError{Code: "40P01"}), true},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"domain error", shared.ErrInvalidTransition, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableError(tt.err, cfg))
		})
	}
}

func TestIsRetryableErrorHonoursSwitches(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryOnDeadlock = false
	assert.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, cfg))

	cfg.RetryPredicate = func(err error) bool { return err.Error() == "custom" }
	assert.True(t, IsRetryableError(errors.New("custom"), cfg))
}

func TestExecuteWithRetry(t *testing.T) {
	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return fmt.Errorf("save: %w", &pgconn.PgError{Code: "40001"})
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			return shared.ErrInvalidInput
		})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Equal(t, 1, calls)
	})

	t.Run("disabled runs once", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), DefaultConfig, func(ctx context.Context) error {
			calls++
			return &mysqlDriver.MySQLError{Number: 1213}
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error after max attempts", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			return &mysqlDriver.MySQLError{Number: 1205}
		})
		var mysqlErr *mysqlDriver.MySQLError
		require.ErrorAs(t, err, &mysqlErr)
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := ExecuteWithRetry(ctx, fastConfig(), func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExponentialBackoff(t *testing.T) {
	cfg := Config{InitialDelay: 10 * time.Millisecond, MaxDelay: 35 * time.Millisecond, BackoffFactor: 2}
	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 10*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 20*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 35*time.Millisecond, ExponentialBackoffWithJitter(3, cfg))
}
