package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"ordercore/pkg/logger"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed schema/*.sql
var schemaFS embed.FS

type Config struct {
	Dialect         string        `mapstructure:"dialect" json:"dialect"`
	DSN             string        `mapstructure:"dsn" json:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" json:"conn_max_lifetime"`
}

// Open opens and pings the pool for the configured dialect
func Open(ctx context.Context, cfg Config) (*sql.DB, Dialect, error) {
	dialect, err := ParseDialect(cfg.Dialect)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, "", fmt.Errorf("sql dsn is required")
	}

	db, err := sql.Open(dialect.DriverName(), cfg.DSN)
	if err != nil {
		return nil, "", fmt.Errorf("open %s db: %w", dialect, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s db: %w", dialect, err)
	}

	logger.Info("SQL store connected", zap.String("dialect", string(dialect)))
	return db, dialect, nil
}

// ApplySchema creates the tables and indexes if they are missing.
// Only the composition root calls it, and only in development.
func ApplySchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	content, err := schemaFS.ReadFile("schema/" + string(dialect) + ".sql")
	if err != nil {
		return fmt.Errorf("read %s schema: %w", dialect, err)
	}
	for _, stmt := range strings.Split(string(content), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply %s schema: %w", dialect, err)
		}
	}
	return nil
}
