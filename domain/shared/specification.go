package shared

import "context"

// Specification in-memory predicate over an entity.
// Relational and document backends compile filters into native predicates instead.
type Specification[T any] interface {
	IsSatisfiedBy(ctx context.Context, entity T) bool
}

// SpecFunc adapts a plain function to Specification
type SpecFunc[T any] func(ctx context.Context, entity T) bool

func (f SpecFunc[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return f(ctx, entity)
}

// AndSpecification satisfied when every part is; empty matches everything
type AndSpecification[T any] struct {
	Parts []Specification[T]
}

func (spec AndSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	for _, p := range spec.Parts {
		if !p.IsSatisfiedBy(ctx, entity) {
			return false
		}
	}
	return true
}

// And combines specifications with logical AND
func And[T any](parts ...Specification[T]) Specification[T] {
	return AndSpecification[T]{Parts: parts}
}

// OrSpecification satisfied when any part is; empty matches nothing
type OrSpecification[T any] struct {
	Parts []Specification[T]
}

func (spec OrSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	for _, p := range spec.Parts {
		if p.IsSatisfiedBy(ctx, entity) {
			return true
		}
	}
	return false
}

// Or combines specifications with logical OR
func Or[T any](parts ...Specification[T]) Specification[T] {
	return OrSpecification[T]{Parts: parts}
}

// NotSpecification negates the inner specification
type NotSpecification[T any] struct {
	Spec Specification[T]
}

func (spec NotSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return !spec.Spec.IsSatisfiedBy(ctx, entity)
}

// Not negates a specification
func Not[T any](inner Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: inner}
}
