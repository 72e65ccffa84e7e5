package shared

import "strings"

// BaseFilter per-field predicate set.
// Predicates inside one filter combine with AND, values inside In combine with OR.
// Contains applies to text fields only, Gte/Lte to ordered fields only;
// compilers ignore the predicates a field does not support.
type BaseFilter[T any] struct {
	Eq       *T      `json:"eq,omitempty"`
	In       []T     `json:"in,omitempty"`
	Contains *string `json:"contains,omitempty"`
	Gte      *T      `json:"gte,omitempty"`
	Lte      *T      `json:"lte,omitempty"`
}

// HasIn reports a non-empty membership list. An empty list is not "match all", it is absent.
func (f *BaseFilter[T]) HasIn() bool {
	return f != nil && len(f.In) > 0
}

// ContainsValue returns the substring to match; empty input is treated as absent
func (f *BaseFilter[T]) ContainsValue() (string, bool) {
	if f == nil || f.Contains == nil || *f.Contains == "" {
		return "", false
	}
	return *f.Contains, true
}

// IsEmpty reports whether the filter constrains nothing
func (f *BaseFilter[T]) IsEmpty() bool {
	if f == nil {
		return true
	}
	_, hasContains := f.ContainsValue()
	return f.Eq == nil && !f.HasIn() && !hasContains && f.Gte == nil && f.Lte == nil
}

// Eq builds an equality filter
func Eq[T any](v T) *BaseFilter[T] {
	return &BaseFilter[T]{Eq: &v}
}

// In builds a membership filter
func In[T any](values ...T) *BaseFilter[T] {
	return &BaseFilter[T]{In: values}
}

// Contains builds a case-insensitive substring filter
func Contains(s string) *BaseFilter[string] {
	return &BaseFilter[string]{Contains: &s}
}

// Between builds a closed range filter; pass nil for an open bound
func Between[T any](gte, lte *T) *BaseFilter[T] {
	return &BaseFilter[T]{Gte: gte, Lte: lte}
}

// ContainsFold case-insensitive substring test used by in-memory matching
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
