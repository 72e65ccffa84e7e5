package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"ordercore/domain/shared"
)

// store map-backed collection keyed by natural key.
// Values are cloned on the way in and out so callers never alias stored records.
type store[T shared.Entity] struct {
	mu    sync.RWMutex
	rows  map[string]T
	clone func(T) T
}

func newStore[T shared.Entity](clone func(T) T) *store[T] {
	return &store[T]{rows: make(map[string]T), clone: clone}
}

func (s *store[T]) get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.clone(v), true
}

// upsert replaces the row with the same natural key, or inserts it
func (s *store[T]) upsert(v T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[v.NaturalKey()] = s.clone(v)
	return s.clone(v)
}

// matching rows satisfying spec, sorted by natural key ascending
func (s *store[T]) matching(ctx context.Context, spec shared.Specification[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.rows))
	for _, v := range s.rows {
		if spec.IsSatisfiedBy(ctx, v) {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b T) int { return strings.Compare(a.NaturalKey(), b.NaturalKey()) })
	return out
}

func (s *store[T]) page(ctx context.Context, spec shared.Specification[T], page, size int) (*shared.Page[T], error) {
	fetch := func(ctx context.Context, offset, limit int) ([]T, error) {
		rows := s.matching(ctx, spec)
		if offset >= len(rows) {
			return nil, nil
		}
		end := min(offset+limit, len(rows))
		items := make([]T, 0, end-offset)
		for _, v := range rows[offset:end] {
			items = append(items, s.clone(v))
		}
		return items, nil
	}
	count := func(ctx context.Context) (int64, error) {
		return int64(len(s.matching(ctx, spec))), nil
	}
	return shared.FetchPage(ctx, page, size, fetch, count)
}
