/*
Package factory builds the repository set for the configured backend.
Schema bootstrap happens here only when database.auto_migrate is set.
*/
package factory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ordercore/config"
	"ordercore/domain"
	"ordercore/infrastructure/persistence/gormdb"
	"ordercore/infrastructure/persistence/memory"
	"ordercore/infrastructure/persistence/mongo"
	"ordercore/infrastructure/persistence/scaffold"
	"ordercore/infrastructure/persistence/sqlstore"
	"ordercore/pkg/logger"

	driver "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Backend a repository set plus the handles the composition root needs
type Backend struct {
	Type         string
	Repositories *domain.Repositories

	// Gorm is set only for the gorm backend; the outbox and unit of work run on it
	Gorm *gorm.DB

	closers []func(context.Context) error
	ping    func(context.Context) error
}

// Ping checks the connection; backends without one always succeed
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close releases every pool opened by New
func (b *Backend) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// New connects to the backend named by cfg.Database.Type
func New(ctx context.Context, cfg *config.Config) (*Backend, error) {
	b := &Backend{Type: cfg.Database.Type}

	var err error
	switch cfg.Database.Type {
	case config.DatabaseMemory:
		b.Repositories, err = domain.NewRepositories(memory.NewOrderRepository(), memory.NewUserRepository())
	case config.DatabaseGorm:
		err = b.openGorm(ctx, cfg)
	case config.DatabaseSQL:
		err = b.openSQL(ctx, cfg)
	case config.DatabaseMongo:
		err = b.openMongo(ctx, cfg)
	case config.DatabaseScaffold:
		b.Repositories, err = domain.NewRepositories(
			scaffold.NewOrderRepository(cfg.Database.Dialect),
			scaffold.NewUserRepository(cfg.Database.Dialect),
		)
	default:
		err = fmt.Errorf("unknown database type %q", cfg.Database.Type)
	}
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}

	logger.Info("Repository set ready", zap.String("backend", b.Type))
	return b, nil
}

func (b *Backend) openGorm(ctx context.Context, cfg *config.Config) error {
	d := cfg.Database
	gc := &gormdb.Config{
		Dialect:         d.Dialect,
		Host:            d.Host,
		Port:            d.Port,
		Username:        d.Username,
		Password:        d.Password,
		Database:        d.Database,
		DSN:             d.DSN,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
		LogLevel:        d.LogLevel,
	}
	db, err := gc.Connect(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	b.closers = append(b.closers, closeSQL(sqlDB))
	b.ping = sqlDB.PingContext

	if d.AutoMigrate {
		if err := gormdb.AutoMigrate(db.WithContext(ctx)); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}

	b.Gorm = db
	b.Repositories, err = domain.NewRepositories(gormdb.NewOrderRepository(db), gormdb.NewUserRepository(db))
	return err
}

func (b *Backend) openSQL(ctx context.Context, cfg *config.Config) error {
	d := cfg.Database
	db, dialect, err := sqlstore.Open(ctx, sqlstore.Config{
		Dialect:         d.Dialect,
		DSN:             d.DSN,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	b.closers = append(b.closers, closeSQL(db))
	b.ping = db.PingContext

	if d.AutoMigrate {
		if err := sqlstore.ApplySchema(ctx, db, dialect); err != nil {
			return err
		}
	}

	b.Repositories, err = domain.NewRepositories(
		sqlstore.NewOrderRepository(db, dialect),
		sqlstore.NewUserRepository(db, dialect),
	)
	return err
}

func (b *Backend) openMongo(ctx context.Context, cfg *config.Config) error {
	mc := &mongo.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
	}
	client, db, err := mc.Connect(ctx)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, disconnectMongo(client))
	b.ping = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	if cfg.Database.AutoMigrate {
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return err
		}
	}

	b.Repositories, err = domain.NewRepositories(mongo.NewOrderRepository(db), mongo.NewUserRepository(db))
	return err
}

func closeSQL(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}

func disconnectMongo(c *driver.Client) func(context.Context) error {
	return c.Disconnect
}
