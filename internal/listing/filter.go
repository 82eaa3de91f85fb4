// Package listing narrows and pages product lists for display.
package listing

import (
	"strings"

	"github.com/kahvecikaan/stockroom/internal/domain"
)

// Filter returns the products whose name, code or location contains query,
// ignoring case. A blank query returns products unchanged.
func Filter(products domain.Products, query string) domain.Products {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return products
	}

	matched := domain.Products{}
	for _, p := range products {
		if matches(p, q) {
			matched = append(matched, p)
		}
	}
	return matched
}

func matches(p domain.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Code), q) ||
		strings.Contains(strings.ToLower(p.Location), q)
}
