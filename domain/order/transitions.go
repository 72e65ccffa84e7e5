package order

// ApproveTransition payload of a completed approval
type ApproveTransition struct {
	Object           Ref    `json:"object"`
	FromState        State  `json:"fromState"`
	ToState          State  `json:"toState"`
	ApprovedByUserID string `json:"approvedByUserId,omitempty"`
	NoteCount        int    `json:"noteCount"`
	Reason           string `json:"reason,omitempty"`
}

// ShipTransition payload of a completed shipment
type ShipTransition struct {
	Object         Ref      `json:"object"`
	FromState      State    `json:"fromState"`
	ToState        State    `json:"toState"`
	Carrier        string   `json:"carrier,omitempty"`
	TrackingNumber string   `json:"trackingNumber,omitempty"`
	PackageIDs     []string `json:"packageIds,omitempty"`
}
