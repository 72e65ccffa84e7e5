package sqlstore

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"ordercore/domain/order"
	"ordercore/domain/user"
)

type scanner interface {
	Scan(dest ...any) error
}

var orderColumns = []string{
	"order_id", "customer_user_id", "total_amount", "discount_code", "tags", "shipping_address",
	"current_state", "approved_by_user_id", "approval_notes", "approval_reason",
	"shipping_carrier", "shipping_tracking_number", "shipping_package_ids", "created_at", "updated_at",
}

var orderSelect = "SELECT " + strings.Join(orderColumns[:13], ", ") + " FROM orders"

type addressJSON struct {
	Line1       string `json:"line1"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

func orderArgs(o *order.Order, now time.Time) ([]any, error) {
	tags, err := jsonColumn(o.Tags)
	if err != nil {
		return nil, err
	}
	notes, err := jsonColumn(o.ApprovalNotes)
	if err != nil {
		return nil, err
	}
	packages, err := jsonColumn(o.ShippingPackageIDs)
	if err != nil {
		return nil, err
	}
	var address sql.NullString
	if a := o.ShippingAddress; a != nil {
		raw, err := json.Marshal(addressJSON{Line1: a.Line1, City: a.City, CountryCode: a.CountryCode})
		if err != nil {
			return nil, err
		}
		address = sql.NullString{String: string(raw), Valid: true}
	}
	return []any{
		o.OrderID, o.Customer.UserID, o.TotalAmount, o.DiscountCode, tags, address,
		string(o.CurrentState), o.ApprovedByUserID, notes, o.ApprovalReason,
		o.ShippingCarrier, o.ShippingTrackingNumber, packages, now, now,
	}, nil
}

func scanOrder(s scanner) (*order.Order, error) {
	var (
		o               order.Order
		customer, state string
		tags, address   sql.NullString
		notes, packages sql.NullString
	)
	err := s.Scan(
		&o.OrderID, &customer, &o.TotalAmount, &o.DiscountCode, &tags, &address,
		&state, &o.ApprovedByUserID, &notes, &o.ApprovalReason,
		&o.ShippingCarrier, &o.ShippingTrackingNumber, &packages,
	)
	if err != nil {
		return nil, err
	}
	o.Customer = user.Ref{UserID: customer}
	o.CurrentState = order.State(state)

	if o.Tags, err = stringsColumn(tags); err != nil {
		return nil, err
	}
	if o.ApprovalNotes, err = stringsColumn(notes); err != nil {
		return nil, err
	}
	if o.ShippingPackageIDs, err = stringsColumn(packages); err != nil {
		return nil, err
	}
	if address.Valid {
		var a addressJSON
		if err := json.Unmarshal([]byte(address.String), &a); err != nil {
			return nil, err
		}
		o.ShippingAddress = &order.Address{Line1: a.Line1, City: a.City, CountryCode: a.CountryCode}
	}
	return &o, nil
}

var userColumns = []string{"user_id", "email", "created_at", "updated_at"}

const userSelect = "SELECT user_id, email FROM users"

func scanUser(s scanner) (*user.User, error) {
	var u user.User
	if err := s.Scan(&u.UserID, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

// jsonColumn empty lists are stored as NULL
func jsonColumn(values []string) (sql.NullString, error) {
	if len(values) == 0 {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func stringsColumn(v sql.NullString) ([]string, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
