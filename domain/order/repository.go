package order

import "ordercore/domain/shared"

// Repository Order repository, one implementation per backend
type Repository interface {
	shared.Repository[*Order, QueryFilter]
}
