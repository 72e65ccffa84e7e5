package gormdb

import (
	"strings"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/user"

	"gorm.io/gorm"
)

// Scope a query fragment applied with db.Scopes
type Scope = func(*gorm.DB) *gorm.DB

// OrderScopes compiles an order filter into AND-ed where clauses
func OrderScopes(f *order.QueryFilter) []Scope {
	if f.IsEmpty() {
		return nil
	}

	var scopes []Scope
	if f.Customer != nil {
		if f.Customer.Eq != nil {
			scopes = append(scopes, where("customer_user_id = ?", f.Customer.Eq.UserID))
		}
		if f.Customer.HasIn() {
			scopes = append(scopes, where("customer_user_id IN ?", user.IDs(f.Customer.In)))
		}
	}
	scopes = append(scopes, textScopes("discount_code", f.DiscountCode)...)
	scopes = append(scopes, textScopes("order_id", f.OrderID)...)
	scopes = append(scopes, textScopes("shipping_carrier", f.ShippingCarrier)...)
	scopes = append(scopes, textScopes("shipping_tracking_number", f.ShippingTrackingNumber)...)
	scopes = append(scopes, orderedScopes("total_amount", f.TotalAmount)...)
	if s := f.CurrentState; s != nil {
		if s.Eq != nil {
			scopes = append(scopes, where("current_state = ?", string(*s.Eq)))
		}
		if s.HasIn() {
			states := make([]string, len(s.In))
			for i, v := range s.In {
				states[i] = string(v)
			}
			scopes = append(scopes, where("current_state IN ?", states))
		}
	}
	return scopes
}

// UserScopes compiles a user filter into AND-ed where clauses
func UserScopes(f *user.QueryFilter) []Scope {
	if f.IsEmpty() {
		return nil
	}
	var scopes []Scope
	scopes = append(scopes, textScopes("email", f.Email)...)
	scopes = append(scopes, textScopes("user_id", f.UserID)...)
	return scopes
}

func where(query string, args ...any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// textScopes NULL columns never satisfy eq, in or LIKE, matching the other backends
func textScopes(column string, f *shared.BaseFilter[string]) []Scope {
	if f == nil {
		return nil
	}
	var scopes []Scope
	if f.Eq != nil {
		scopes = append(scopes, where(column+" = ?", *f.Eq))
	}
	if f.HasIn() {
		scopes = append(scopes, where(column+" IN ?", f.In))
	}
	if v, ok := f.ContainsValue(); ok {
		scopes = append(scopes, where("LOWER("+column+") LIKE ? ESCAPE '!'", ContainsPattern(v)))
	}
	return scopes
}

func orderedScopes(column string, f *shared.BaseFilter[float64]) []Scope {
	if f == nil {
		return nil
	}
	var scopes []Scope
	if f.Eq != nil {
		scopes = append(scopes, where(column+" = ?", *f.Eq))
	}
	if f.HasIn() {
		scopes = append(scopes, where(column+" IN ?", f.In))
	}
	if f.Gte != nil {
		scopes = append(scopes, where(column+" >= ?", *f.Gte))
	}
	if f.Lte != nil {
		scopes = append(scopes, where(column+" <= ?", *f.Lte))
	}
	return scopes
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ContainsPattern lower-cases s, escapes LIKE wildcards with '!' and wraps it in %...%
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
