package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"ordercore/domain/shared"
)

// pageQuery appends the stable ordering and LIMIT/OFFSET after the predicate arguments
func pageQuery(d Dialect, base, key string, p Predicate, offset, limit int) (string, []any) {
	n := len(p.Args)
	query := fmt.Sprintf("%s%s ORDER BY %s ASC LIMIT %s OFFSET %s",
		base, p.Where(), key, d.Placeholder(n+1), d.Placeholder(n+2))
	args := append(append([]any{}, p.Args...), limit, offset)
	return query, args
}

func queryAll[T any](ctx context.Context, db *sql.DB, op, query string, args []any, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shared.NewPersistenceError(backendName, op, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, shared.NewPersistenceError(backendName, op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.NewPersistenceError(backendName, op, err)
	}
	return items, nil
}

func countRows(ctx context.Context, db *sql.DB, op, query string, args []any) (int64, error) {
	var total int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, shared.NewPersistenceError(backendName, op, err)
	}
	return total, nil
}

// withTx commits when fn succeeds, otherwise rolls back
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
