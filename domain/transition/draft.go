package transition

import (
	"slices"

	"ordercore/domain/order"
)

// ApproveDraft approval record awaiting enrichment.
// Object, FromState and ToState come from the persisted read and cannot be changed.
type ApproveDraft struct {
	order   *order.Order
	payload order.ApproveTransition
}

// Order persisted order after the transition
func (d *ApproveDraft) Order() *order.Order { return d.order.Clone() }

func (d *ApproveDraft) ApprovedBy(userID string) *ApproveDraft {
	d.payload.ApprovedByUserID = userID
	return d
}

func (d *ApproveDraft) NoteCount(n int) *ApproveDraft {
	d.payload.NoteCount = n
	return d
}

func (d *ApproveDraft) Reason(reason string) *ApproveDraft {
	d.payload.Reason = reason
	return d
}

// Build finalizes the draft into the event payload
func (d *ApproveDraft) Build() order.ApproveTransition {
	return d.payload
}

// ShipDraft shipment record awaiting enrichment
type ShipDraft struct {
	order   *order.Order
	payload order.ShipTransition
}

// Order persisted order after the transition
func (d *ShipDraft) Order() *order.Order { return d.order.Clone() }

func (d *ShipDraft) Carrier(carrier string) *ShipDraft {
	d.payload.Carrier = carrier
	return d
}

func (d *ShipDraft) TrackingNumber(number string) *ShipDraft {
	d.payload.TrackingNumber = number
	return d
}

func (d *ShipDraft) PackageIDs(ids ...string) *ShipDraft {
	d.payload.PackageIDs = slices.Clone(ids)
	return d
}

// Build finalizes the draft into the event payload
func (d *ShipDraft) Build() order.ShipTransition {
	p := d.payload
	p.PackageIDs = slices.Clone(d.payload.PackageIDs)
	return p
}
