package gormdb

import (
	"context"
	"errors"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/infrastructure/persistence"
	"ordercore/infrastructure/persistence/gormdb/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const backendName = "gorm"

// OrderRepository GORM implementation of order.Repository
// GORM usage specification: Association features are prohibited, each order is one row
type OrderRepository struct {
	db *gorm.DB
}

var _ order.Repository = (*OrderRepository)(nil)

// NewOrderRepository Create order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// getDB returns the transaction from context if available, otherwise the default db
func (r *OrderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *OrderRepository) List(ctx context.Context, page, size int) (*shared.Page[*order.Order], error) {
	return r.find(ctx, "list", nil, page, size)
}

func (r *OrderRepository) Query(ctx context.Context, f *order.QueryFilter, page, size int) (*shared.Page[*order.Order], error) {
	return r.find(ctx, "query", OrderScopes(f), page, size)
}

func (r *OrderRepository) find(ctx context.Context, op string, scopes []Scope, page, size int) (*shared.Page[*order.Order], error) {
	fetch := func(ctx context.Context, offset, limit int) ([]*order.Order, error) {
		var rows []po.OrderPO
		err := r.getDB(ctx).
			Scopes(scopes...).
			Order("order_id ASC").
			Offset(offset).
			Limit(limit).
			Find(&rows).Error
		if err != nil {
			return nil, shared.NewPersistenceError(backendName, op+" orders", err)
		}
		items := make([]*order.Order, len(rows))
		for i := range rows {
			items[i] = rows[i].ToDomain()
		}
		return items, nil
	}
	count := func(ctx context.Context) (int64, error) {
		var total int64
		if err := r.getDB(ctx).Model(&po.OrderPO{}).Scopes(scopes...).Count(&total).Error; err != nil {
			return 0, shared.NewPersistenceError(backendName, "count orders", err)
		}
		return total, nil
	}

	if persistence.TxFromContext(ctx) != nil {
		return shared.FetchPageSerial(ctx, page, size, fetch, count)
	}
	return shared.FetchPage(ctx, page, size, fetch, count)
}

// GetByID Find order by natural key
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, bool, error) {
	var row po.OrderPO
	err := r.getDB(ctx).Where("order_id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.NewPersistenceError(backendName, "get order", err)
	}
	return row.ToDomain(), true, nil
}

// Save upserts by order_id and returns the stored row.
// When called within UoW.Execute(), it uses the transaction from context,
// otherwise it opens its own so the write and the read-back are atomic.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) (*order.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	row := po.FromOrderDomain(o.WithDefaults())

	save := func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns(po.OrderUpdateColumns),
		}).Create(row).Error
		if err != nil {
			return err
		}
		return tx.Where("order_id = ?", row.OrderID).Take(row).Error
	}

	var err error
	if tx := persistence.TxFromContext(ctx); tx != nil {
		err = save(tx.WithContext(ctx))
	} else {
		err = r.db.WithContext(ctx).Transaction(save)
	}
	if err != nil {
		return nil, shared.NewPersistenceError(backendName, "save order", err)
	}
	return row.ToDomain(), nil
}
