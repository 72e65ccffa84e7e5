/*
Package repotest backend-independent behaviour checks. Every repository
implementation runs the same suites so that filtering, ordering and paging never
diverge between backends.
*/
package repotest

import (
	"context"
	"fmt"
	"testing"

	"ordercore/domain/order"
	"ordercore/domain/shared"
	"ordercore/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// Orders fixture set: five orders across two customers with distinct codes, amounts and states
func Orders() []*order.Order {
	return []*order.Order{
		{OrderID: "O1", Customer: user.Ref{UserID: "u-1"}, TotalAmount: 123.45, DiscountCode: ptr("TEST"), CurrentState: order.StateCreated,
			Tags: []string{"priority"}, ShippingAddress: &order.Address{Line1: "1 Main St", City: "Springfield", CountryCode: "US"}},
		{OrderID: "O2", Customer: user.Ref{UserID: "u-1"}, TotalAmount: 10, DiscountCode: ptr("50%_OFF"), CurrentState: order.StateApproved,
			ShippingCarrier: ptr("DHL Express")},
		{OrderID: "O3", Customer: user.Ref{UserID: "u-2"}, TotalAmount: 99.99, DiscountCode: ptr("50XXOFF"), CurrentState: order.StateApproved},
		{OrderID: "O4", Customer: user.Ref{UserID: "u-2"}, TotalAmount: 250, DiscountCode: ptr("v1.2"), CurrentState: order.StateShipped,
			ShippingCarrier: ptr("UPS"), ShippingTrackingNumber: ptr("1Z999"), ShippingPackageIDs: []string{"p-1", "p-2"}},
		{OrderID: "O5", Customer: user.Ref{UserID: "u-3"}, TotalAmount: 0, CurrentState: order.StateCreated},
	}
}

func seedOrders(t *testing.T, repo order.Repository) {
	t.Helper()
	for _, o := range Orders() {
		_, err := repo.Save(context.Background(), o)
		require.NoError(t, err)
	}
}

func ids(items []*order.Order) []string {
	out := make([]string, len(items))
	for i, o := range items {
		out[i] = o.OrderID
	}
	return out
}

// RunOrderRepositorySuite newRepo must return an empty repository on every call
func RunOrderRepositorySuite(t *testing.T, newRepo func(t *testing.T) order.Repository) {
	ctx := context.Background()

	t.Run("GetByID unknown returns absent", func(t *testing.T) {
		repo := newRepo(t)
		o, found, err := repo.GetByID(ctx, "unknown-id")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, o)
	})

	t.Run("Save round-trips every field", func(t *testing.T) {
		repo := newRepo(t)
		for _, want := range Orders() {
			saved, err := repo.Save(ctx, want)
			require.NoError(t, err)
			assert.Equal(t, want, saved)

			got, found, err := repo.GetByID(ctx, want.OrderID)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, want, got)
		}
	})

	t.Run("Save applies the created default", func(t *testing.T) {
		repo := newRepo(t)
		saved, err := repo.Save(ctx, &order.Order{OrderID: "N1", Customer: user.Ref{UserID: "u-9"}, TotalAmount: 1})
		require.NoError(t, err)
		assert.Equal(t, order.StateCreated, saved.CurrentState)
		assert.Nil(t, saved.DiscountCode)
		assert.Nil(t, saved.ShippingAddress)
	})

	t.Run("Save is an idempotent upsert", func(t *testing.T) {
		repo := newRepo(t)
		o := Orders()[0]

		first, err := repo.Save(ctx, o)
		require.NoError(t, err)
		second, err := repo.Save(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		page, err := repo.Query(ctx, &order.QueryFilter{OrderID: shared.Eq(o.OrderID)}, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.TotalElements)
	})

	t.Run("Save updates in place", func(t *testing.T) {
		repo := newRepo(t)
		o := Orders()[0]
		_, err := repo.Save(ctx, o)
		require.NoError(t, err)

		o.TotalAmount = 7.5
		o.DiscountCode = nil
		o.CurrentState = order.StateApproved
		updated, err := repo.Save(ctx, o)
		require.NoError(t, err)
		assert.Equal(t, 7.5, updated.TotalAmount)
		assert.Nil(t, updated.DiscountCode)
		assert.Equal(t, order.StateApproved, updated.CurrentState)

		all, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, all.TotalElements)
	})

	t.Run("Save rejects invalid orders", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Save(ctx, &order.Order{OrderID: "", Customer: user.Ref{UserID: "u-1"}})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("List pages by natural key", func(t *testing.T) {
		repo := newRepo(t)
		seedOrders(t, repo)

		page, err := repo.List(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"O3", "O4"}, ids(page.Items))
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 2, page.Size)
		assert.EqualValues(t, 5, page.TotalElements)
		assert.Equal(t, 3, page.TotalPages)

		again, err := repo.List(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, page, again)

		last, err := repo.List(ctx, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"O5"}, ids(last.Items))

		beyond, err := repo.List(ctx, 9, 2)
		require.NoError(t, err)
		assert.Empty(t, beyond.Items)
		assert.EqualValues(t, 5, beyond.TotalElements)
	})

	t.Run("List normalizes paging", func(t *testing.T) {
		repo := newRepo(t)
		seedOrders(t, repo)

		page, err := repo.List(ctx, -5, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, page.Page)
		assert.Equal(t, shared.DefaultPageSize, page.Size)
		assert.Len(t, page.Items, 5)
	})

	queryCases := []struct {
		name   string
		filter *order.QueryFilter
		want   []string
	}{
		{"nil filter matches all", nil, []string{"O1", "O2", "O3", "O4", "O5"}},
		{"empty filter matches all", &order.QueryFilter{}, []string{"O1", "O2", "O3", "O4", "O5"}},
		{"empty in is absent", &order.QueryFilter{OrderID: shared.In[string]()}, []string{"O1", "O2", "O3", "O4", "O5"}},
		{"discount code eq", &order.QueryFilter{DiscountCode: shared.Eq("TEST")}, []string{"O1"}},
		{"order id in", &order.QueryFilter{OrderID: shared.In("O2", "O5", "missing")}, []string{"O2", "O5"}},
		{"customer eq", &order.QueryFilter{Customer: shared.Eq(user.Ref{UserID: "u-2"})}, []string{"O3", "O4"}},
		{"customer in expands to OR", &order.QueryFilter{Customer: shared.In(user.Ref{UserID: "u-1"}, user.Ref{UserID: "u-3"})}, []string{"O1", "O2", "O5"}},
		{"state in", &order.QueryFilter{CurrentState: shared.In(order.StateShipped, order.StateCreated)}, []string{"O1", "O4", "O5"}},
		{"two fields combine with AND", &order.QueryFilter{
			Customer:     shared.Eq(user.Ref{UserID: "u-1"}),
			CurrentState: shared.Eq(order.StateApproved),
		}, []string{"O2"}},
		{"contains is case-insensitive", &order.QueryFilter{DiscountCode: shared.Contains("test")}, []string{"O1"}},
		{"contains treats wildcards literally", &order.QueryFilter{DiscountCode: shared.Contains("%_")}, []string{"O2"}},
		{"contains treats regex metacharacters literally", &order.QueryFilter{DiscountCode: shared.Contains("1.2")}, []string{"O4"}},
		{"contains dot does not match any char", &order.QueryFilter{DiscountCode: shared.Contains("50.")}, nil},
		{"contains on carrier", &order.QueryFilter{ShippingCarrier: shared.Contains("express")}, []string{"O2"}},
		{"tracking number eq", &order.QueryFilter{ShippingTrackingNumber: shared.Eq("1Z999")}, []string{"O4"}},
		{"amount gte", &order.QueryFilter{TotalAmount: shared.Between(ptr(99.99), nil)}, []string{"O1", "O3", "O4"}},
		{"amount closed range", &order.QueryFilter{TotalAmount: shared.Between(ptr(10.0), ptr(123.45))}, []string{"O1", "O2", "O3"}},
		{"amount eq", &order.QueryFilter{TotalAmount: shared.Eq(123.45)}, []string{"O1"}},
		{"amount in", &order.QueryFilter{TotalAmount: shared.In(0.0, 250.0)}, []string{"O4", "O5"}},
		{"eq and in on one field combine with AND", &order.QueryFilter{OrderID: &shared.BaseFilter[string]{Eq: ptr("O1"), In: []string{"O2"}}}, nil},
	}

	for _, tc := range queryCases {
		t.Run(fmt.Sprintf("Query %s", tc.name), func(t *testing.T) {
			repo := newRepo(t)
			seedOrders(t, repo)

			page, err := repo.Query(ctx, tc.filter, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tc.want, nilIfEmpty(ids(page.Items)))
			assert.EqualValues(t, len(tc.want), page.TotalElements)
		})
	}

	t.Run("Query round-trip", func(t *testing.T) {
		repo := newRepo(t)
		seedOrders(t, repo)

		page, err := repo.Query(ctx, &order.QueryFilter{DiscountCode: shared.Eq("TEST")}, 0, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, 123.45, page.Items[0].TotalAmount)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("Query count and items share the predicate", func(t *testing.T) {
		repo := newRepo(t)
		seedOrders(t, repo)

		page, err := repo.Query(ctx, &order.QueryFilter{CurrentState: shared.Eq(order.StateApproved)}, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"O2"}, ids(page.Items))
		assert.EqualValues(t, 2, page.TotalElements)
		assert.Equal(t, 2, page.TotalPages)
	})
}

// RunUserRepositorySuite newRepo must return an empty repository on every call
func RunUserRepositorySuite(t *testing.T, newRepo func(t *testing.T) user.Repository) {
	ctx := context.Background()
	users := func() []*user.User {
		return []*user.User{
			{UserID: "u-1", Email: "alice@example.com"},
			{UserID: "u-2", Email: "bob@example.org"},
			{UserID: "u-3", Email: "carol_smith@example.com"},
		}
	}
	seed := func(t *testing.T, repo user.Repository) {
		t.Helper()
		for _, u := range users() {
			_, err := repo.Save(ctx, u)
			require.NoError(t, err)
		}
	}
	userIDs := func(items []*user.User) []string {
		out := make([]string, len(items))
		for i, u := range items {
			out[i] = u.UserID
		}
		return nilIfEmpty(out)
	}

	t.Run("GetByID unknown returns absent", func(t *testing.T) {
		repo := newRepo(t)
		u, found, err := repo.GetByID(ctx, "unknown-id")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, u)
	})

	t.Run("Save upserts by userId", func(t *testing.T) {
		repo := newRepo(t)
		seed(t, repo)

		saved, err := repo.Save(ctx, &user.User{UserID: "u-1", Email: "alice@new.example.com"})
		require.NoError(t, err)
		assert.Equal(t, "alice@new.example.com", saved.Email)

		got, found, err := repo.GetByID(ctx, "u-1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, saved, got)

		page, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 3, page.TotalElements)
		assert.Equal(t, []string{"u-1", "u-2", "u-3"}, userIDs(page.Items))
	})

	cases := []struct {
		name   string
		filter *user.QueryFilter
		want   []string
	}{
		{"email contains", &user.QueryFilter{Email: shared.Contains("EXAMPLE.COM")}, []string{"u-1", "u-3"}},
		{"email contains underscore literally", &user.QueryFilter{Email: shared.Contains("l_s")}, []string{"u-3"}},
		{"user id in", &user.QueryFilter{UserID: shared.In("u-2", "u-3")}, []string{"u-2", "u-3"}},
		{"email eq and id eq", &user.QueryFilter{Email: shared.Eq("bob@example.org"), UserID: shared.Eq("u-1")}, nil},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("Query %s", tc.name), func(t *testing.T) {
			repo := newRepo(t)
			seed(t, repo)

			page, err := repo.Query(ctx, tc.filter, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tc.want, userIDs(page.Items))
			assert.EqualValues(t, len(tc.want), page.TotalElements)
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
