package user

import "ordercore/domain/shared"

// Repository User repository, one implementation per backend
type Repository interface {
	shared.Repository[*User, QueryFilter]
}
