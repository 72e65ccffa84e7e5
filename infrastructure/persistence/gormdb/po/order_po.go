package po

import (
	"time"

	"ordercore/domain/order"
	"ordercore/domain/user"
)

// OrderPO Order persistence object
// Note: Only used for database mapping, does not contain any business logic
// List-valued and nested attributes are stored as JSON text
type OrderPO struct {
	OrderID                string     `gorm:"column:order_id;primaryKey;size:64"`
	CustomerUserID         string     `gorm:"column:customer_user_id;size:64;index;not null"`
	TotalAmount            float64    `gorm:"column:total_amount;not null"`
	DiscountCode           *string    `gorm:"column:discount_code;size:128"`
	Tags                   []string   `gorm:"column:tags;type:text;serializer:json"`
	ShippingAddress        *AddressPO `gorm:"column:shipping_address;type:text;serializer:json"`
	CurrentState           string     `gorm:"column:current_state;size:20;index;not null;default:created"`
	ApprovedByUserID       *string    `gorm:"column:approved_by_user_id;size:64"`
	ApprovalNotes          []string   `gorm:"column:approval_notes;type:text;serializer:json"`
	ApprovalReason         *string    `gorm:"column:approval_reason;size:512"`
	ShippingCarrier        *string    `gorm:"column:shipping_carrier;size:128"`
	ShippingTrackingNumber *string    `gorm:"column:shipping_tracking_number;size:128"`
	ShippingPackageIDs     []string   `gorm:"column:shipping_package_ids;type:text;serializer:json"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// AddressPO JSON shape of a shipping address
type AddressPO struct {
	Line1       string `json:"line1"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

// TableName Specify table name
func (OrderPO) TableName() string {
	return "orders"
}

// OrderUpdateColumns columns overwritten when an upsert hits an existing order_id.
// created_at keeps its original value.
var OrderUpdateColumns = []string{
	"customer_user_id", "total_amount", "discount_code", "tags", "shipping_address",
	"current_state", "approved_by_user_id", "approval_notes", "approval_reason",
	"shipping_carrier", "shipping_tracking_number", "shipping_package_ids", "updated_at",
}

// FromOrderDomain Convert domain model to persistence object
func FromOrderDomain(o *order.Order) *OrderPO {
	p := &OrderPO{
		OrderID:                o.OrderID,
		CustomerUserID:         o.Customer.UserID,
		TotalAmount:            o.TotalAmount,
		DiscountCode:           o.DiscountCode,
		Tags:                   nilIfEmpty(o.Tags),
		CurrentState:           string(o.CurrentState),
		ApprovedByUserID:       o.ApprovedByUserID,
		ApprovalNotes:          nilIfEmpty(o.ApprovalNotes),
		ApprovalReason:         o.ApprovalReason,
		ShippingCarrier:        o.ShippingCarrier,
		ShippingTrackingNumber: o.ShippingTrackingNumber,
		ShippingPackageIDs:     nilIfEmpty(o.ShippingPackageIDs),
	}
	if a := o.ShippingAddress; a != nil {
		p.ShippingAddress = &AddressPO{Line1: a.Line1, City: a.City, CountryCode: a.CountryCode}
	}
	return p
}

// ToDomain Convert persistence object to domain model
func (p *OrderPO) ToDomain() *order.Order {
	o := &order.Order{
		OrderID:                p.OrderID,
		Customer:               user.Ref{UserID: p.CustomerUserID},
		TotalAmount:            p.TotalAmount,
		DiscountCode:           p.DiscountCode,
		Tags:                   nilIfEmpty(p.Tags),
		CurrentState:           order.State(p.CurrentState),
		ApprovedByUserID:       p.ApprovedByUserID,
		ApprovalNotes:          nilIfEmpty(p.ApprovalNotes),
		ApprovalReason:         p.ApprovalReason,
		ShippingCarrier:        p.ShippingCarrier,
		ShippingTrackingNumber: p.ShippingTrackingNumber,
		ShippingPackageIDs:     nilIfEmpty(p.ShippingPackageIDs),
	}
	if a := p.ShippingAddress; a != nil {
		o.ShippingAddress = &order.Address{Line1: a.Line1, City: a.City, CountryCode: a.CountryCode}
	}
	return o
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
