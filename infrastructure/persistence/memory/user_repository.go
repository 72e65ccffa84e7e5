package memory

import (
	"context"

	"ordercore/domain/shared"
	"ordercore/domain/user"
)

// UserRepository in-memory user repository
type UserRepository struct {
	store *store[*user.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{store: newStore((*user.User).Clone)}
}

func (r *UserRepository) List(ctx context.Context, page, size int) (*shared.Page[*user.User], error) {
	return r.store.page(ctx, shared.And[*user.User](), page, size)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, bool, error) {
	u, ok := r.store.get(id)
	return u, ok, nil
}

func (r *UserRepository) Query(ctx context.Context, filter *user.QueryFilter, page, size int) (*shared.Page[*user.User], error) {
	return r.store.page(ctx, UserSpecification(filter), page, size)
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return r.store.upsert(u), nil
}

var _ user.Repository = (*UserRepository)(nil)
