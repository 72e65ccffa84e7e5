package mongo

import (
	"context"

	"ordercore/domain/order"
	"ordercore/domain/shared"

	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
)

// OrderRepository order.Repository over the orders collection
type OrderRepository struct {
	coll *driver.Collection
}

var _ order.Repository = (*OrderRepository)(nil)

func NewOrderRepository(db *driver.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(OrdersCollection)}
}

func (r *OrderRepository) List(ctx context.Context, page, size int) (*shared.Page[*order.Order], error) {
	return findPage(ctx, r.coll, "orderId", bson.D{}, page, size, (*orderDocument).toOrder)
}

func (r *OrderRepository) Query(ctx context.Context, f *order.QueryFilter, page, size int) (*shared.Page[*order.Order], error) {
	return findPage(ctx, r.coll, "orderId", OrderFilter(f), page, size, (*orderDocument).toOrder)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, bool, error) {
	doc, found, err := findOne[orderDocument](ctx, r.coll, "orderId", id)
	if err != nil || !found {
		return nil, false, err
	}
	return doc.toOrder(), true, nil
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) (*order.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	update, err := setUnset(fromOrder(o.WithDefaults()), optionalOrderFields)
	if err != nil {
		return nil, shared.NewPersistenceError(backendName, "encode order", err)
	}
	doc, err := upsert[orderDocument](ctx, r.coll, "orderId", o.OrderID, update)
	if err != nil {
		return nil, err
	}
	return doc.toOrder(), nil
}
