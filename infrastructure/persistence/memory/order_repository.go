/*
Package memory in-process backend. It compiles filters into specifications and
evaluates them over a map, which makes it the reference for what every other
backend must return.
*/
package memory

import (
	"context"

	"ordercore/domain/order"
	"ordercore/domain/shared"
)

// OrderRepository in-memory order repository
type OrderRepository struct {
	store *store[*order.Order]
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{store: newStore((*order.Order).Clone)}
}

func (r *OrderRepository) List(ctx context.Context, page, size int) (*shared.Page[*order.Order], error) {
	return r.store.page(ctx, shared.And[*order.Order](), page, size)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, bool, error) {
	o, ok := r.store.get(id)
	return o, ok, nil
}

func (r *OrderRepository) Query(ctx context.Context, filter *order.QueryFilter, page, size int) (*shared.Page[*order.Order], error) {
	return r.store.page(ctx, OrderSpecification(filter), page, size)
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) (*order.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return r.store.upsert(o.WithDefaults()), nil
}

var _ order.Repository = (*OrderRepository)(nil)
