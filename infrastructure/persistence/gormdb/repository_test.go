package gormdb

import (
	"context"
	"errors"
	"testing"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/user"
	"ordercore/infrastructure/persistence"
	"ordercore/infrastructure/persistence/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository(t *testing.T) {
	repotest.RunOrderRepositorySuite(t, func(t *testing.T) order.Repository {
		return NewOrderRepository(newTestDB(t))
	})
}

func TestUserRepository(t *testing.T) {
	repotest.RunUserRepositorySuite(t, func(t *testing.T) user.Repository {
		return NewUserRepository(newTestDB(t))
	})
}

func TestOrderRepositoryReadsInsideTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	err := uow.Execute(ctx, func(ctx context.Context) error {
		require.NotNil(t, persistence.TxFromContext(ctx))
		for _, o := range repotest.Orders() {
			if _, err := repo.Save(ctx, o); err != nil {
				return err
			}
		}
		page, err := repo.List(ctx, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.TotalElements)
		assert.Len(t, page.Items, 2)
		return nil
	})
	require.NoError(t, err)

	_, found, err := repo.GetByID(ctx, "O5")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestOrderRepositoryRollsBackWithUnitOfWork(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	uow := NewUnitOfWork(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := repo.Save(ctx, repotest.Orders()[0]); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, found, err := repo.GetByID(ctx, "O1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOrderRepositoryWrapsDriverErrors(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	require.NoError(t, db.Migrator().DropTable("orders"))

	_, _, err := repo.GetByID(context.Background(), "O1")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrPersistence)

	var pe *shared.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "gorm", pe.Backend)
	assert.Equal(t, "get order", pe.Op)

	_, err = repo.List(context.Background(), 0, 10)
	assert.ErrorIs(t, err, shared.ErrPersistence)

	_, err = repo.Save(context.Background(), repotest.Orders()[0])
	assert.ErrorIs(t, err, shared.ErrPersistence)
}

func TestOrderRepositoryStoresNilListsAsNull(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	_, err := repo.Save(ctx, &order.Order{OrderID: "O9", Customer: user.Ref{UserID: "u-9"}, Tags: []string{}})
	require.NoError(t, err)

	var nulls int64
	require.NoError(t, db.Table("orders").Where("tags IS NULL AND shipping_address IS NULL").Count(&nulls).Error)
	assert.Equal(t, int64(1), nulls)
}
