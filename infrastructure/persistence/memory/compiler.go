package memory

import (
	"cmp"
	"context"
	"slices"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/user"
)

// OrderSpecification compiles an order filter into an in-memory predicate
func OrderSpecification(f *order.QueryFilter) shared.Specification[*order.Order] {
	if f.IsEmpty() {
		return shared.And[*order.Order]()
	}

	var parts []shared.Specification[*order.Order]
	parts = append(parts, refSpecs(f.Customer, func(o *order.Order) string { return o.Customer.UserID })...)
	parts = append(parts, textSpecs(f.DiscountCode, func(o *order.Order) *string { return o.DiscountCode })...)
	parts = append(parts, textSpecs(f.OrderID, func(o *order.Order) *string { return &o.OrderID })...)
	parts = append(parts, textSpecs(f.ShippingCarrier, func(o *order.Order) *string { return o.ShippingCarrier })...)
	parts = append(parts, textSpecs(f.ShippingTrackingNumber, func(o *order.Order) *string { return o.ShippingTrackingNumber })...)
	parts = append(parts, orderedSpecs(f.TotalAmount, func(o *order.Order) float64 { return o.TotalAmount })...)
	parts = append(parts, equalitySpecs(f.CurrentState, func(o *order.Order) order.State { return o.CurrentState })...)
	return shared.And(parts...)
}

// UserSpecification compiles a user filter into an in-memory predicate
func UserSpecification(f *user.QueryFilter) shared.Specification[*user.User] {
	if f.IsEmpty() {
		return shared.And[*user.User]()
	}

	var parts []shared.Specification[*user.User]
	parts = append(parts, textSpecs(f.Email, func(u *user.User) *string { return &u.Email })...)
	parts = append(parts, textSpecs(f.UserID, func(u *user.User) *string { return &u.UserID })...)
	return shared.And(parts...)
}

// refSpecs eq compares the referenced key; in is an OR of equalities
func refSpecs[T any](f *shared.BaseFilter[user.Ref], key func(T) string) []shared.Specification[T] {
	if f == nil {
		return nil
	}
	var specs []shared.Specification[T]
	if f.Eq != nil {
		want := f.Eq.UserID
		specs = append(specs, shared.SpecFunc[T](func(_ context.Context, e T) bool { return key(e) == want }))
	}
	if f.HasIn() {
		var anyOf []shared.Specification[T]
		for _, ref := range f.In {
			want := ref.UserID
			anyOf = append(anyOf, shared.SpecFunc[T](func(_ context.Context, e T) bool { return key(e) == want }))
		}
		specs = append(specs, shared.Or(anyOf...))
	}
	return specs
}

// textSpecs absent optional values (nil) never match a predicate
func textSpecs[T any](f *shared.BaseFilter[string], get func(T) *string) []shared.Specification[T] {
	if f == nil {
		return nil
	}
	var specs []shared.Specification[T]
	if f.Eq != nil {
		want := *f.Eq
		specs = append(specs, shared.SpecFunc[T](func(_ context.Context, e T) bool {
			v := get(e)
			return v != nil && *v == want
		}))
	}
	if f.HasIn() {
		values := slices.Clone(f.In)
		specs = append(specs, shared.SpecFunc[T](func(_ context.Context, e T) bool {
			v := get(e)
			return v != nil && slices.Contains(values, *v)
		}))
	}
	if needle, ok := f.ContainsValue(); ok {
		specs = append(specs, shared.SpecFunc[T](func(_ context.Context, e T) bool {
			v := get(e)
			return v != nil && shared.ContainsFold(*v, needle)
		}))
	}
	return specs
}

func orderedSpecs[T any, V cmp.Ordered](f *shared.BaseFilter[V], get func(T) V) []shared.Specification[T] {
	if f == nil {
		return nil
	}
	specs := equalitySpecs(f, get)
	if f.Gte != nil {
		lo := *f.Gte
		specs = append(specs, shared.SpecFunc[T](func(_ context.Context, e T) bool { return get(e) >= lo }))
	}
	if f.Lte != nil {
		hi := *f.Lte
		specs = append(specs, shared.SpecFunc[T](func(_ context.Context, e T) bool { return get(e) <= hi }))
	}
	return specs
}

func equalitySpecs[T any, V comparable](f *shared.BaseFilter[V], get func(T) V) []shared.Specification[T] {
	if f == nil {
		return nil
	}
	var specs []shared.Specification[T]
	if f.Eq != nil {
		want := *f.Eq
		specs = append(specs, shared.SpecFunc[T](func(_ context.Context, e T) bool { return get(e) == want }))
	}
	if f.HasIn() {
		values := slices.Clone(f.In)
		specs = append(specs, shared.SpecFunc[T](func(_ context.Context, e T) bool { return slices.Contains(values, get(e)) }))
	}
	return specs
}
