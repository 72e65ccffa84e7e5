package sqlstore

import (
	"strings"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/user"
)

// Predicate compiled WHERE body and its positional arguments.
// An empty SQL means no constraint.
type Predicate struct {
	SQL  string
	Args []any
}

// Where " WHERE ..." or "" for an empty predicate
func (p Predicate) Where() string {
	if p.SQL == "" {
		return ""
	}
	return " WHERE " + p.SQL
}

type builder struct {
	dialect Dialect
	clauses []string
	args    []any
}

func (b *builder) next() string {
	return b.dialect.Placeholder(len(b.args) + 1)
}

func (b *builder) add(clause string, args ...any) {
	b.clauses = append(b.clauses, clause)
	b.args = append(b.args, args...)
}

func (b *builder) eq(column string, v any) {
	b.add(column+" = "+b.next(), v)
}

func (b *builder) in(column string, values []any) {
	ph := make([]string, len(values))
	for i := range values {
		ph[i] = b.dialect.Placeholder(len(b.args) + i + 1)
	}
	b.add(column+" IN ("+strings.Join(ph, ", ")+")", values...)
}

func (b *builder) cmp(column, op string, v any) {
	b.add(column+" "+op+" "+b.next(), v)
}

func (b *builder) contains(column, s string) {
	b.add("LOWER("+column+") LIKE "+b.next()+" ESCAPE '!'", containsPattern(s))
}

func (b *builder) text(column string, f *shared.BaseFilter[string]) {
	if f == nil {
		return
	}
	if f.Eq != nil {
		b.eq(column, *f.Eq)
	}
	if f.HasIn() {
		b.in(column, toAny(f.In))
	}
	if v, ok := f.ContainsValue(); ok {
		b.contains(column, v)
	}
}

func (b *builder) build() Predicate {
	return Predicate{SQL: strings.Join(b.clauses, " AND "), Args: b.args}
}

// CompileOrderFilter compiles an order filter for dialect d
func CompileOrderFilter(d Dialect, f *order.QueryFilter) Predicate {
	if f.IsEmpty() {
		return Predicate{}
	}
	b := &builder{dialect: d}

	if c := f.Customer; c != nil {
		if c.Eq != nil {
			b.eq("customer_user_id", c.Eq.UserID)
		}
		if c.HasIn() {
			b.in("customer_user_id", toAny(user.IDs(c.In)))
		}
	}
	b.text("discount_code", f.DiscountCode)
	b.text("order_id", f.OrderID)
	b.text("shipping_carrier", f.ShippingCarrier)
	b.text("shipping_tracking_number", f.ShippingTrackingNumber)
	if a := f.TotalAmount; a != nil {
		if a.Eq != nil {
			b.eq("total_amount", *a.Eq)
		}
		if a.HasIn() {
			b.in("total_amount", toAny(a.In))
		}
		if a.Gte != nil {
			b.cmp("total_amount", ">=", *a.Gte)
		}
		if a.Lte != nil {
			b.cmp("total_amount", "<=", *a.Lte)
		}
	}
	if s := f.CurrentState; s != nil {
		if s.Eq != nil {
			b.eq("current_state", string(*s.Eq))
		}
		if s.HasIn() {
			states := make([]any, len(s.In))
			for i, v := range s.In {
				states[i] = string(v)
			}
			b.in("current_state", states)
		}
	}
	return b.build()
}

// CompileUserFilter compiles a user filter for dialect d
func CompileUserFilter(d Dialect, f *user.QueryFilter) Predicate {
	if f.IsEmpty() {
		return Predicate{}
	}
	b := &builder{dialect: d}
	b.text("email", f.Email)
	b.text("user_id", f.UserID)
	return b.build()
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
