package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ordercore/domain/order"
	"ordercore/domain/shared"
)

const backendName = "sql"

// OrderRepository order.Repository over the orders table
type OrderRepository struct {
	db      *sql.DB
	dialect Dialect
}

var _ order.Repository = (*OrderRepository)(nil)

func NewOrderRepository(db *sql.DB, dialect Dialect) *OrderRepository {
	return &OrderRepository{db: db, dialect: dialect}
}

func (r *OrderRepository) List(ctx context.Context, page, size int) (*shared.Page[*order.Order], error) {
	return r.find(ctx, Predicate{}, page, size)
}

func (r *OrderRepository) Query(ctx context.Context, f *order.QueryFilter, page, size int) (*shared.Page[*order.Order], error) {
	return r.find(ctx, CompileOrderFilter(r.dialect, f), page, size)
}

func (r *OrderRepository) find(ctx context.Context, p Predicate, page, size int) (*shared.Page[*order.Order], error) {
	fetch := func(ctx context.Context, offset, limit int) ([]*order.Order, error) {
		query, args := pageQuery(r.dialect, orderSelect, "order_id", p, offset, limit)
		return queryAll(ctx, r.db, "list orders", query, args, scanOrder)
	}
	count := func(ctx context.Context) (int64, error) {
		return countRows(ctx, r.db, "count orders", "SELECT COUNT(*) FROM orders"+p.Where(), p.Args)
	}
	return shared.FetchPage(ctx, page, size, fetch, count)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, bool, error) {
	row := r.db.QueryRowContext(ctx, orderSelect+" WHERE order_id = "+r.dialect.Placeholder(1), id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.NewPersistenceError(backendName, "get order", err)
	}
	return o, true, nil
}

// Save insert-on-conflict-update followed by a read-back in the same transaction
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) (*order.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	args, err := orderArgs(o.WithDefaults(), time.Now().UTC())
	if err != nil {
		return nil, shared.NewPersistenceError(backendName, "encode order", err)
	}

	var saved *order.Order
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.dialect.Upsert("orders", "order_id", orderColumns), args...); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
		row := tx.QueryRowContext(ctx, orderSelect+" WHERE order_id = "+r.dialect.Placeholder(1), o.OrderID)
		saved, err = scanOrder(row)
		return err
	})
	if err != nil {
		return nil, shared.NewPersistenceError(backendName, "save order", err)
	}
	return saved, nil
}
