package user

import "ordercore/domain/shared"

// QueryFilter filterable user fields; nil fields do not constrain
type QueryFilter struct {
	Email  *shared.BaseFilter[string] `json:"email,omitempty"`
	UserID *shared.BaseFilter[string] `json:"userId,omitempty"`
}

// IsEmpty reports whether the filter matches every user
func (f *QueryFilter) IsEmpty() bool {
	return f == nil || (f.Email.IsEmpty() && f.UserID.IsEmpty())
}
