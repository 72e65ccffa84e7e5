package order

import (
	"ordercore/domain/shared"
	"ordercore/domain/user"
)

// QueryFilter filterable order fields; nil fields do not constrain.
// Customer supports eq/in, text fields eq/in/contains, TotalAmount eq/in/gte/lte, CurrentState eq/in.
type QueryFilter struct {
	Customer               *shared.BaseFilter[user.Ref] `json:"customer,omitempty"`
	DiscountCode           *shared.BaseFilter[string]   `json:"discountCode,omitempty"`
	OrderID                *shared.BaseFilter[string]   `json:"orderId,omitempty"`
	ShippingCarrier        *shared.BaseFilter[string]   `json:"shippingCarrier,omitempty"`
	ShippingTrackingNumber *shared.BaseFilter[string]   `json:"shippingTrackingNumber,omitempty"`
	TotalAmount            *shared.BaseFilter[float64]  `json:"totalAmount,omitempty"`
	CurrentState           *shared.BaseFilter[State]    `json:"currentState,omitempty"`
}

// IsEmpty reports whether the filter matches every order
func (f *QueryFilter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.Customer.IsEmpty() &&
		f.DiscountCode.IsEmpty() &&
		f.OrderID.IsEmpty() &&
		f.ShippingCarrier.IsEmpty() &&
		f.ShippingTrackingNumber.IsEmpty() &&
		f.TotalAmount.IsEmpty() &&
		f.CurrentState.IsEmpty()
}
