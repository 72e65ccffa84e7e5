package mongo

import (
	"context"

	"ordercore/domain/shared"
	"ordercore/domain/user"

	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
)

type UserRepository struct {
	coll *driver.Collection
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *driver.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

func (r *UserRepository) List(ctx context.Context, page, size int) (*shared.Page[*user.User], error) {
	return findPage(ctx, r.coll, "userId", bson.D{}, page, size, (*userDocument).toUser)
}

func (r *UserRepository) Query(ctx context.Context, f *user.QueryFilter, page, size int) (*shared.Page[*user.User], error) {
	return findPage(ctx, r.coll, "userId", UserFilter(f), page, size, (*userDocument).toUser)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, bool, error) {
	doc, found, err := findOne[userDocument](ctx, r.coll, "userId", id)
	if err != nil || !found {
		return nil, false, err
	}
	return doc.toUser(), true, nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	update, err := setUnset(fromUser(u), nil)
	if err != nil {
		return nil, shared.NewPersistenceError(backendName, "encode user", err)
	}
	doc, err := upsert[userDocument](ctx, r.coll, "userId", u.UserID, update)
	if err != nil {
		return nil, err
	}
	return doc.toUser(), nil
}
