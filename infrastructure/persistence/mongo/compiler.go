package mongo

import (
	"regexp"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/user"

	"go.mongodb.org/mongo-driver/bson"
)

// OrderFilter compiles an order filter into a query document.
// Every predicate becomes one $and clause; an empty filter is the empty document.
func OrderFilter(f *order.QueryFilter) bson.D {
	if f.IsEmpty() {
		return bson.D{}
	}

	var clauses bson.A
	if f.Customer != nil {
		if f.Customer.Eq != nil {
			clauses = append(clauses, bson.D{{Key: "customer.userId", Value: f.Customer.Eq.UserID}})
		}
		if f.Customer.HasIn() {
			clauses = append(clauses, bson.D{{Key: "customer.userId", Value: bson.D{{Key: "$in", Value: user.IDs(f.Customer.In)}}}})
		}
	}
	clauses = append(clauses, textClauses("discountCode", f.DiscountCode)...)
	clauses = append(clauses, textClauses("orderId", f.OrderID)...)
	clauses = append(clauses, textClauses("shippingCarrier", f.ShippingCarrier)...)
	clauses = append(clauses, textClauses("shippingTrackingNumber", f.ShippingTrackingNumber)...)
	clauses = append(clauses, orderedClauses("totalAmount", f.TotalAmount)...)
	if s := f.CurrentState; s != nil {
		if s.Eq != nil {
			clauses = append(clauses, bson.D{{Key: "currentState", Value: string(*s.Eq)}})
		}
		if s.HasIn() {
			states := make([]string, len(s.In))
			for i, v := range s.In {
				states[i] = string(v)
			}
			clauses = append(clauses, bson.D{{Key: "currentState", Value: bson.D{{Key: "$in", Value: states}}}})
		}
	}
	return and(clauses)
}

// UserFilter compiles a user filter into a query document
func UserFilter(f *user.QueryFilter) bson.D {
	if f.IsEmpty() {
		return bson.D{}
	}
	var clauses bson.A
	clauses = append(clauses, textClauses("email", f.Email)...)
	clauses = append(clauses, textClauses("userId", f.UserID)...)
	return and(clauses)
}

func and(clauses bson.A) bson.D {
	if len(clauses) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

func textClauses(field string, f *shared.BaseFilter[string]) bson.A {
	if f == nil {
		return nil
	}
	var clauses bson.A
	if f.Eq != nil {
		clauses = append(clauses, bson.D{{Key: field, Value: *f.Eq}})
	}
	if f.HasIn() {
		clauses = append(clauses, bson.D{{Key: field, Value: bson.D{{Key: "$in", Value: f.In}}}})
	}
	if v, ok := f.ContainsValue(); ok {
		clauses = append(clauses, bson.D{{Key: field, Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(v)},
			{Key: "$options", Value: "i"},
		}}})
	}
	return clauses
}

func orderedClauses(field string, f *shared.BaseFilter[float64]) bson.A {
	if f == nil {
		return nil
	}
	var clauses bson.A
	if f.Eq != nil {
		clauses = append(clauses, bson.D{{Key: field, Value: *f.Eq}})
	}
	if f.HasIn() {
		clauses = append(clauses, bson.D{{Key: field, Value: bson.D{{Key: "$in", Value: f.In}}}})
	}
	if f.Gte != nil {
		clauses = append(clauses, bson.D{{Key: field, Value: bson.D{{Key: "$gte", Value: *f.Gte}}}})
	}
	if f.Lte != nil {
		clauses = append(clauses, bson.D{{Key: field, Value: bson.D{{Key: "$lte", Value: *f.Lte}}}})
	}
	return clauses
}
