package gormdb

import (
	"context"
	"errors"

	"ordercore/domain/shared"
	"ordercore/domain/user"
	"ordercore/infrastructure/persistence"
	"ordercore/infrastructure/persistence/gormdb/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *UserRepository) List(ctx context.Context, page, size int) (*shared.Page[*user.User], error) {
	return r.find(ctx, nil, page, size)
}

func (r *UserRepository) Query(ctx context.Context, f *user.QueryFilter, page, size int) (*shared.Page[*user.User], error) {
	return r.find(ctx, UserScopes(f), page, size)
}

func (r *UserRepository) find(ctx context.Context, scopes []Scope, page, size int) (*shared.Page[*user.User], error) {
	fetch := func(ctx context.Context, offset, limit int) ([]*user.User, error) {
		var rows []po.UserPO
		err := r.getDB(ctx).Scopes(scopes...).Order("user_id ASC").Offset(offset).Limit(limit).Find(&rows).Error
		if err != nil {
			return nil, shared.NewPersistenceError(backendName, "find users", err)
		}
		items := make([]*user.User, len(rows))
		for i := range rows {
			items[i] = rows[i].ToDomain()
		}
		return items, nil
	}
	count := func(ctx context.Context) (int64, error) {
		var total int64
		if err := r.getDB(ctx).Model(&po.UserPO{}).Scopes(scopes...).Count(&total).Error; err != nil {
			return 0, shared.NewPersistenceError(backendName, "count users", err)
		}
		return total, nil
	}

	if persistence.TxFromContext(ctx) != nil {
		return shared.FetchPageSerial(ctx, page, size, fetch, count)
	}
	return shared.FetchPage(ctx, page, size, fetch, count)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, bool, error) {
	var row po.UserPO
	err := r.getDB(ctx).Where("user_id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.NewPersistenceError(backendName, "get user", err)
	}
	return row.ToDomain(), true, nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	row := po.FromUserDomain(u)

	save := func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(po.UserUpdateColumns),
		}).Create(row).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ?", row.UserID).Take(row).Error
	}

	var err error
	if tx := persistence.TxFromContext(ctx); tx != nil {
		err = save(tx.WithContext(ctx))
	} else {
		err = r.db.WithContext(ctx).Transaction(save)
	}
	if err != nil {
		return nil, shared.NewPersistenceError(backendName, "save user", err)
	}
	return row.ToDomain(), nil
}
