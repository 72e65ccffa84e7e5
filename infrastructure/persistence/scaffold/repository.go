// Package scaffold is the adapter a new backend starts from. Every call fails
// with shared.ErrNotImplemented until the binding logic is written.
package scaffold

import (
	"context"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/user"
)

// Repository fails every operation for entity type T
type Repository[T shared.Entity, F any] struct {
	adapter string
}

func (r *Repository[T, F]) fail(op string) error {
	return &shared.NotImplementedError{Adapter: r.adapter, Op: op}
}

func (r *Repository[T, F]) List(context.Context, int, int) (*shared.Page[T], error) {
	return nil, r.fail("list")
}

func (r *Repository[T, F]) GetByID(context.Context, string) (T, bool, error) {
	var zero T
	return zero, false, r.fail("getById")
}

func (r *Repository[T, F]) Query(context.Context, *F, int, int) (*shared.Page[T], error) {
	return nil, r.fail("query")
}

func (r *Repository[T, F]) Save(context.Context, T) (T, error) {
	var zero T
	return zero, r.fail("save")
}

// NewOrderRepository adapter names the backend in the error message
func NewOrderRepository(adapter string) *Repository[*order.Order, order.QueryFilter] {
	return &Repository[*order.Order, order.QueryFilter]{adapter: adapter}
}

func NewUserRepository(adapter string) *Repository[*user.User, user.QueryFilter] {
	return &Repository[*user.User, user.QueryFilter]{adapter: adapter}
}

var (
	_ order.Repository = (*Repository[*order.Order, order.QueryFilter])(nil)
	_ user.Repository  = (*Repository[*user.User, user.QueryFilter])(nil)
)
