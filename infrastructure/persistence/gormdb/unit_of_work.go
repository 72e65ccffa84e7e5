package gormdb

import (
	"context"
	"fmt"

	"ordercore/infrastructure/persistence"
	"ordercore/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWork runs a function inside one database transaction.
// Repositories and OutboxPublisher built on the same *gorm.DB pick the
// transaction up from the context, so a state write and its outbox rows commit together.
type UnitOfWork struct {
	db          *gorm.DB
	retryConfig retry.Config
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		retryConfig: retry.DefaultConfig,
	}
}

// SetRetryConfig updates the retry configuration for this UnitOfWork
func (u *UnitOfWork) SetRetryConfig(config retry.Config) {
	u.retryConfig = config
}

// Execute begins a transaction, injects it into ctx and runs fn.
// Commits on success, rolls back on error or panic, and retries the whole
// attempt on retryable driver errors. A nested call joins the outer transaction.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if persistence.TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	executeOnce := func(ctx context.Context) error {
		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
				panic(r)
			}
		}()

		if err := fn(persistence.ContextWithTx(ctx, tx)); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}
