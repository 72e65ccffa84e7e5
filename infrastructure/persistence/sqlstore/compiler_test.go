package sqlstore

import (
	"testing"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileOrderFilterPostgres(t *testing.T) {
	lo := 50.0
	f := &order.QueryFilter{
		Customer:     shared.In(user.Ref{UserID: "u-1"}, user.Ref{UserID: "u-2"}),
		DiscountCode: shared.Contains("50%_off"),
		TotalAmount:  shared.Between(&lo, nil),
		CurrentState: shared.Eq(order.StateShipped),
	}

	p := CompileOrderFilter(Postgres, f)

	assert.Equal(t,
		"customer_user_id IN ($1, $2) AND LOWER(discount_code) LIKE $3 ESCAPE '!' AND total_amount >= $4 AND current_state = $5",
		p.SQL)
	assert.Equal(t, []any{"u-1", "u-2", "%50!%!_off%", 50.0, "shipped"}, p.Args)
}

func TestCompileOrderFilterSQLitePlaceholders(t *testing.T) {
	p := CompileOrderFilter(SQLite, &order.QueryFilter{OrderID: &shared.BaseFilter[string]{Eq: ptr("O1"), In: []string{"O1", "O2"}}})
	assert.Equal(t, "order_id = ? AND order_id IN (?, ?)", p.SQL)
	assert.Equal(t, []any{"O1", "O1", "O2"}, p.Args)
}

func TestCompileEmptyFilters(t *testing.T) {
	assert.Equal(t, Predicate{}, CompileOrderFilter(Postgres, nil))
	assert.Equal(t, Predicate{}, CompileOrderFilter(Postgres, &order.QueryFilter{}))
	assert.Equal(t, Predicate{}, CompileUserFilter(SQLite, &user.QueryFilter{Email: shared.Contains("")}))
	assert.Equal(t, "", Predicate{}.Where())
}

func TestPageQueryNumbersLimitAfterPredicate(t *testing.T) {
	p := CompileUserFilter(Postgres, &user.QueryFilter{UserID: shared.Eq("u-1")})
	query, args := pageQuery(Postgres, userSelect, "user_id", p, 40, 20)

	assert.Equal(t, "SELECT user_id, email FROM users WHERE user_id = $1 ORDER BY user_id ASC LIMIT $2 OFFSET $3", query)
	assert.Equal(t, []any{"u-1", 20, 40}, args)
}

func TestDialectUpsert(t *testing.T) {
	cols := []string{"user_id", "email", "created_at", "updated_at"}

	assert.Equal(t,
		"INSERT INTO users (user_id, email, created_at, updated_at) VALUES ($1, $2, $3, $4) ON CONFLICT (user_id) DO UPDATE SET email = excluded.email, updated_at = excluded.updated_at",
		Postgres.Upsert("users", "user_id", cols))
	assert.Equal(t,
		"INSERT INTO users (user_id, email, created_at, updated_at) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE email = VALUES(email), updated_at = VALUES(updated_at)",
		MySQL.Upsert("users", "user_id", cols))
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"postgres": Postgres, "PostgreSQL": Postgres, "sqlite": SQLite, "mysql": MySQL} {
		got, err := ParseDialect(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDialect("oracle")
	assert.Error(t, err)
}

func ptr[T any](v T) *T { return &v }
