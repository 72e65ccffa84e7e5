package shared

import "context"

// Repository contract shared by every entity and backend.
// Save is the only write path: an upsert keyed by the entity's natural key.
type Repository[T Entity, F any] interface {
	// List returns one page of the unfiltered collection
	List(ctx context.Context, page, size int) (*Page[T], error)

	// GetByID point lookup; found is false when no row matches, which is not an error
	GetByID(ctx context.Context, id string) (entity T, found bool, err error)

	// Query is List scoped by the compiled filter; a nil filter matches everything
	Query(ctx context.Context, filter *F, page, size int) (*Page[T], error)

	// Save upserts and returns the persisted representation
	Save(ctx context.Context, entity T) (T, error)
}
