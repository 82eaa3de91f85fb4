package listing

import (
	"errors"
	"fmt"
)

// ErrPageOutOfRange is returned when a page lies outside [1, TotalPages].
var ErrPageOutOfRange = errors.New("page out of range")

// Page is one slice of a paginated list
//
// swagger:model
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// TotalPages is ceil(count/size); zero for an empty list.
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Paginate returns items[(page-1)*size : page*size]. Page 1 of an empty list
// is valid and has no items; any other page beyond TotalPages is an error.
func Paginate[T any](items []T, page, size int) (Page[T], error) {
	if size <= 0 {
		return Page[T]{}, fmt.Errorf("invalid page size %d", size)
	}

	total := TotalPages(len(items), size)
	if page < 1 || (page > total && page != 1) {
		return Page[T]{}, fmt.Errorf("page %d of %d: %w", page, total, ErrPageOutOfRange)
	}

	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	out := make([]T, 0, end-start)
	out = append(out, items[start:end]...)

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		TotalItems: len(items),
		TotalPages: total,
	}, nil
}
