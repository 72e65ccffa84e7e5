package gormdb

import (
	"testing"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/user"
	"ordercore/infrastructure/persistence/gormdb/po"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func dryRun(t *testing.T, scopes []Scope) (string, []any) {
	t.Helper()
	db := newTestDB(t)
	stmt := db.Session(&gorm.Session{DryRun: true}).
		Scopes(scopes...).
		Find(&[]po.OrderPO{}).
		Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%50!%!_off%", ContainsPattern("50%_OFF"))
	assert.Equal(t, "%a!!b%", ContainsPattern("a!b"))
	assert.Equal(t, "%v1.2%", ContainsPattern("V1.2"))
}

func TestOrderScopesEmpty(t *testing.T) {
	assert.Empty(t, OrderScopes(nil))
	assert.Empty(t, OrderScopes(&order.QueryFilter{}))
	assert.Empty(t, OrderScopes(&order.QueryFilter{DiscountCode: &shared.BaseFilter[string]{In: []string{}}}))
}

func TestOrderScopesSQL(t *testing.T) {
	amount := 100.0
	filter := &order.QueryFilter{
		Customer:     shared.In(user.Ref{UserID: "u-1"}, user.Ref{UserID: "u-2"}),
		DiscountCode: shared.Contains("50%"),
		TotalAmount:  shared.Between(&amount, nil),
		CurrentState: shared.Eq(order.StateApproved),
	}

	sql, vars := dryRun(t, OrderScopes(filter))

	assert.Contains(t, sql, "customer_user_id IN (?,?)")
	assert.Contains(t, sql, "LOWER(discount_code) LIKE ? ESCAPE '!'")
	assert.Contains(t, sql, "total_amount >= ?")
	assert.Contains(t, sql, "current_state = ?")
	assert.Contains(t, sql, " AND ")
	assert.Equal(t, []any{"u-1", "u-2", "%50!%%", 100.0, "approved"}, vars)
}

func TestUserScopesSQL(t *testing.T) {
	filter := &user.QueryFilter{Email: shared.Contains("Example.COM"), UserID: shared.Eq("u-1")}

	db := newTestDB(t)
	stmt := db.Session(&gorm.Session{DryRun: true}).Scopes(UserScopes(filter)...).Find(&[]po.UserPO{}).Statement

	assert.Contains(t, stmt.SQL.String(), "LOWER(email) LIKE ? ESCAPE '!'")
	assert.Contains(t, stmt.SQL.String(), "user_id = ?")
	assert.Equal(t, []any{"%example.com%", "u-1"}, stmt.Vars)
}
