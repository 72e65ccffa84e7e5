// Package sqlstore implements the repositories on database/sql with a
// hand-built query compiler. Postgres (pgx), SQLite (modernc) and MySQL are supported.
package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect SQL differences between the supported engines
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
	MySQL    Dialect = "mysql"
)

// ParseDialect accepts the configured dialect name
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(name))); d {
	case Postgres, SQLite, MySQL:
		return d, nil
	case "postgresql", "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", name)
	}
}

// DriverName database/sql driver registered for the dialect
func (d Dialect) DriverName() string {
	switch d {
	case Postgres:
		return "pgx"
	case SQLite:
		return "sqlite"
	default:
		return "mysql"
	}
}

// Placeholder n is 1-based
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Upsert insert-on-conflict-update keyed on key; every other column is overwritten
func (d Dialect) Upsert(table, key string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = d.Placeholder(i + 1)
	}

	var sets []string
	for _, c := range columns {
		if c == key || c == "created_at" {
			continue
		}
		if d == MySQL {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", c, c))
		} else {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if d == MySQL {
		return insert + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s", insert, key, strings.Join(sets, ", "))
}
