package shared

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// DefaultPageSize applied when the requested size is missing or invalid
const DefaultPageSize = 20

// Page one slice of a result ordered by natural key ascending
type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NormalizePage clamps raw paging input.
// Non-finite or negative page becomes 0; non-finite or non-positive size becomes DefaultPageSize.
// Fractions are truncated, never rounded.
func NormalizePage(page, size float64) (int, int) {
	p := 0
	if !math.IsNaN(page) && !math.IsInf(page, 0) && page >= 0 {
		p = clampInt(math.Trunc(page))
	}

	s := DefaultPageSize
	if !math.IsNaN(size) && !math.IsInf(size, 0) && size > 0 {
		if t := clampInt(math.Trunc(size)); t >= 1 {
			s = t
		}
	}
	return p, s
}

func clampInt(v float64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// TotalPages ceil(total/size), 0 when size is not positive
func TotalPages(totalElements int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((totalElements + int64(size) - 1) / int64(size))
}

// Offset index of the first row of a normalized page
func Offset(page, size int) int {
	return page * size
}

// NewPage assembles a page and derives TotalPages
func NewPage[T any](items []T, page, size int, totalElements int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: totalElements,
		TotalPages:    TotalPages(totalElements, size),
	}
}

// FetchPage runs the page fetch and the count concurrently and waits for both.
// Both callbacks must use the same predicate so items and totals agree.
func FetchPage[T any](
	ctx context.Context,
	page, size int,
	fetch func(ctx context.Context, offset, limit int) ([]T, error),
	count func(ctx context.Context) (int64, error),
) (*Page[T], error) {
	page, size = NormalizePage(float64(page), float64(size))

	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = fetch(gctx, Offset(page, size), size)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewPage(items, page, size, total), nil
}

// FetchPageSerial FetchPage without concurrency, for handles that cannot run two
// statements at once (an open transaction pinned to one connection)
func FetchPageSerial[T any](
	ctx context.Context,
	page, size int,
	fetch func(ctx context.Context, offset, limit int) ([]T, error),
	count func(ctx context.Context) (int64, error),
) (*Page[T], error) {
	page, size = NormalizePage(float64(page), float64(size))

	items, err := fetch(ctx, Offset(page, size), size)
	if err != nil {
		return nil, err
	}
	total, err := count(ctx)
	if err != nil {
		return nil, err
	}
	return NewPage(items, page, size, total), nil
}
