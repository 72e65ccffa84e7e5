package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ordercore/domain/shared"
	"ordercore/domain/user"
)

type UserRepository struct {
	db      *sql.DB
	dialect Dialect
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB, dialect Dialect) *UserRepository {
	return &UserRepository{db: db, dialect: dialect}
}

func (r *UserRepository) List(ctx context.Context, page, size int) (*shared.Page[*user.User], error) {
	return r.find(ctx, Predicate{}, page, size)
}

func (r *UserRepository) Query(ctx context.Context, f *user.QueryFilter, page, size int) (*shared.Page[*user.User], error) {
	return r.find(ctx, CompileUserFilter(r.dialect, f), page, size)
}

func (r *UserRepository) find(ctx context.Context, p Predicate, page, size int) (*shared.Page[*user.User], error) {
	fetch := func(ctx context.Context, offset, limit int) ([]*user.User, error) {
		query, args := pageQuery(r.dialect, userSelect, "user_id", p, offset, limit)
		return queryAll(ctx, r.db, "list users", query, args, scanUser)
	}
	count := func(ctx context.Context) (int64, error) {
		return countRows(ctx, r.db, "count users", "SELECT COUNT(*) FROM users"+p.Where(), p.Args)
	}
	return shared.FetchPage(ctx, page, size, fetch, count)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, bool, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE user_id = "+r.dialect.Placeholder(1), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.NewPersistenceError(backendName, "get user", err)
	}
	return u, true, nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	var saved *user.User
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.dialect.Upsert("users", "user_id", userColumns), u.UserID, u.Email, now, now); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
		var err error
		saved, err = scanUser(tx.QueryRowContext(ctx, userSelect+" WHERE user_id = "+r.dialect.Placeholder(1), u.UserID))
		return err
	})
	if err != nil {
		return nil, shared.NewPersistenceError(backendName, "save user", err)
	}
	return saved, nil
}
