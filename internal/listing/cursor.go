package listing

import (
	"errors"

	"github.com/kahvecikaan/stockroom/internal/domain"
)

// Cursor is the search query and current page of one list view. Changing the
// query always moves the cursor back to the first page in the same step.
type Cursor struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
}

// NewCursor starts at the first page with no query.
func NewCursor() Cursor {
	return Cursor{Page: 1}
}

// WithQuery returns a cursor for q on page 1. An unchanged query keeps the page.
func (c Cursor) WithQuery(q string) Cursor {
	if q == c.Query && c.Page >= 1 {
		return c
	}
	return Cursor{Query: q, Page: 1}
}

// WithPage returns a cursor on page n for the same query.
func (c Cursor) WithPage(n int) Cursor {
	return Cursor{Query: c.Query, Page: n}
}

// Apply filters products by the cursor query and returns the current page.
// When the page no longer exists for the filtered list, the cursor is reset
// to page 1 and the returned cursor reflects that.
func (c Cursor) Apply(products domain.Products, size int) (Page[domain.Product], Cursor, error) {
	filtered := Filter(products, c.Query)

	page, err := Paginate(filtered, c.Page, size)
	if errors.Is(err, ErrPageOutOfRange) {
		c.Page = 1
		page, err = Paginate(filtered, 1, size)
	}
	if err != nil {
		return Page[domain.Product]{}, c, err
	}
	return page, c, nil
}
