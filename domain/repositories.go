/*
Package domain bundles the per-entity repositories into the single handle
passed to action handlers and the transition engine.
*/
package domain

import (
	"errors"

	"ordercore/domain/order"
	"ordercore/domain/user"
)

// Repositories repository set: one repository per entity type, all on the same backend
type Repositories struct {
	Orders order.Repository
	Users  user.Repository
}

// NewRepositories Create a repository set; both repositories are required
func NewRepositories(orders order.Repository, users user.Repository) (*Repositories, error) {
	if orders == nil {
		return nil, errors.New("order repository is required")
	}
	if users == nil {
		return nil, errors.New("user repository is required")
	}
	return &Repositories{Orders: orders, Users: users}, nil
}
