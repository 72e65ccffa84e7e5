package mongo

import (
	"time"

	"ordercore/domain/order"
	"ordercore/domain/user"
)

// Collection names
const (
	OrdersCollection = "orders"
	UsersCollection  = "users"
)

type userRefDocument struct {
	UserID string `bson:"userId"`
}

type addressDocument struct {
	Line1       string `bson:"line1"`
	City        string `bson:"city"`
	CountryCode string `bson:"countryCode"`
}

// orderDocument stored shape of an order; absent optionals are omitted, never null
type orderDocument struct {
	OrderID                string           `bson:"orderId"`
	Customer               userRefDocument  `bson:"customer"`
	TotalAmount            float64          `bson:"totalAmount"`
	DiscountCode           *string          `bson:"discountCode,omitempty"`
	Tags                   []string         `bson:"tags,omitempty"`
	ShippingAddress        *addressDocument `bson:"shippingAddress,omitempty"`
	CurrentState           string           `bson:"currentState"`
	ApprovedByUserID       *string          `bson:"approvedByUserId,omitempty"`
	ApprovalNotes          []string         `bson:"approvalNotes,omitempty"`
	ApprovalReason         *string          `bson:"approvalReason,omitempty"`
	ShippingCarrier        *string          `bson:"shippingCarrier,omitempty"`
	ShippingTrackingNumber *string          `bson:"shippingTrackingNumber,omitempty"`
	ShippingPackageIDs     []string         `bson:"shippingPackageIds,omitempty"`
	UpdatedAt              time.Time        `bson:"updatedAt"`
}

// optionalOrderFields are $unset on save when the domain value is absent
var optionalOrderFields = []string{
	"discountCode", "tags", "shippingAddress", "approvedByUserId", "approvalNotes",
	"approvalReason", "shippingCarrier", "shippingTrackingNumber", "shippingPackageIds",
}

func fromOrder(o *order.Order) *orderDocument {
	d := &orderDocument{
		OrderID:                o.OrderID,
		Customer:               userRefDocument{UserID: o.Customer.UserID},
		TotalAmount:            o.TotalAmount,
		DiscountCode:           o.DiscountCode,
		Tags:                   o.Tags,
		CurrentState:           string(o.CurrentState),
		ApprovedByUserID:       o.ApprovedByUserID,
		ApprovalNotes:          o.ApprovalNotes,
		ApprovalReason:         o.ApprovalReason,
		ShippingCarrier:        o.ShippingCarrier,
		ShippingTrackingNumber: o.ShippingTrackingNumber,
		ShippingPackageIDs:     o.ShippingPackageIDs,
		UpdatedAt:              time.Now().UTC(),
	}
	if a := o.ShippingAddress; a != nil {
		d.ShippingAddress = &addressDocument{Line1: a.Line1, City: a.City, CountryCode: a.CountryCode}
	}
	return d
}

func (d *orderDocument) toOrder() *order.Order {
	o := &order.Order{
		OrderID:                d.OrderID,
		Customer:               user.Ref{UserID: d.Customer.UserID},
		TotalAmount:            d.TotalAmount,
		DiscountCode:           d.DiscountCode,
		Tags:                   nilIfEmpty(d.Tags),
		CurrentState:           order.State(d.CurrentState),
		ApprovedByUserID:       d.ApprovedByUserID,
		ApprovalNotes:          nilIfEmpty(d.ApprovalNotes),
		ApprovalReason:         d.ApprovalReason,
		ShippingCarrier:        d.ShippingCarrier,
		ShippingTrackingNumber: d.ShippingTrackingNumber,
		ShippingPackageIDs:     nilIfEmpty(d.ShippingPackageIDs),
	}
	if a := d.ShippingAddress; a != nil {
		o.ShippingAddress = &order.Address{Line1: a.Line1, City: a.City, CountryCode: a.CountryCode}
	}
	if o.CurrentState == "" {
		o.CurrentState = order.StateCreated
	}
	return o
}

type userDocument struct {
	UserID    string    `bson:"userId"`
	Email     string    `bson:"email"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func fromUser(u *user.User) *userDocument {
	return &userDocument{UserID: u.UserID, Email: u.Email, UpdatedAt: time.Now().UTC()}
}

func (d *userDocument) toUser() *user.User {
	return &user.User{UserID: d.UserID, Email: d.Email}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
