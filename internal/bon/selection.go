package bon

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kahvecikaan/stockroom/internal/domain"
)

// Selection errors. A refused transition returns the selection unchanged
// together with one of these.
var (
	ErrOutOfStock      = errors.New("product has no available stock")
	ErrNotSelected     = errors.New("product is not selected")
	ErrAtMaximum       = errors.New("quantity already at available maximum")
	ErrAtMinimum       = errors.New("quantity already at minimum of 1")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Entry is one selected product. Code, name and unit are snapshotted when
// the product is selected; Available is the last known stock.
//
// swagger:model
type Entry struct {
	ProductID int    `json:"product_id"`
	Code      string `json:"kode_barang"`
	Name      string `json:"nama_komponen"`
	Unit      string `json:"satuan"`
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
}

// Selection is the set of products picked for one bon. It is immutable:
// every transition returns a new Selection and leaves the receiver intact.
type Selection struct {
	entries map[int]Entry
	order   []int
}

// NewSelection returns an empty selection.
func NewSelection() Selection {
	return Selection{}
}

func (s Selection) clone() Selection {
	c := Selection{
		entries: make(map[int]Entry, len(s.entries)+1),
		order:   make([]int, len(s.order), len(s.order)+1),
	}
	for id, e := range s.entries {
		c.entries[id] = e
	}
	copy(c.order, s.order)
	return c
}

func (s Selection) with(e Entry) Selection {
	c := s.clone()
	c.entries[e.ProductID] = e
	return c
}

// Has reports whether the product is selected.
func (s Selection) Has(productID int) bool {
	_, ok := s.entries[productID]
	return ok
}

// Get returns the entry for a product.
func (s Selection) Get(productID int) (Entry, bool) {
	e, ok := s.entries[productID]
	return e, ok
}

// Len is the number of selected products.
func (s Selection) Len() int {
	return len(s.order)
}

// TotalQuantity is the sum of requested quantities.
func (s Selection) TotalQuantity() int {
	total := 0
	for _, e := range s.entries {
		total += e.Quantity
	}
	return total
}

// Entries returns the entries in the order they were selected.
func (s Selection) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Toggle selects the product with quantity 1, or deselects it when it is
// already selected. Products without stock cannot be selected.
func (s Selection) Toggle(p domain.Product) (Selection, error) {
	if s.Has(p.ID) {
		return s.Remove(p.ID), nil
	}
	if p.Quantity <= 0 {
		return s, ErrOutOfStock
	}

	c := s.with(Entry{
		ProductID: p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Unit:      p.Unit,
		Quantity:  1,
		Available: p.Quantity,
	})
	c.order = append(c.order, p.ID)
	return c, nil
}

// SetQuantity sets the requested quantity, lowering it to the available
// stock when it asks for more.
func (s Selection) SetQuantity(productID, quantity int) (Selection, error) {
	e, ok := s.entries[productID]
	if !ok {
		return s, ErrNotSelected
	}
	if quantity < 1 {
		return s, ErrInvalidQuantity
	}
	e.Quantity = clamp(quantity, e.Available)
	return s.with(e), nil
}

// EditQuantity applies a raw quantity edit from a form field. Empty or
// non-numeric input resets the quantity to 1.
func (s Selection) EditQuantity(productID int, raw string) (Selection, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		n = 1
	}
	return s.SetQuantity(productID, n)
}

// Increment raises the quantity by one up to the available stock.
func (s Selection) Increment(productID int) (Selection, error) {
	e, ok := s.entries[productID]
	if !ok {
		return s, ErrNotSelected
	}
	if e.Quantity >= e.Available {
		return s, ErrAtMaximum
	}
	e.Quantity++
	return s.with(e), nil
}

// Decrement lowers the quantity by one, never below 1.
func (s Selection) Decrement(productID int) (Selection, error) {
	e, ok := s.entries[productID]
	if !ok {
		return s, ErrNotSelected
	}
	if e.Quantity <= 1 {
		return s, ErrAtMinimum
	}
	e.Quantity--
	return s.with(e), nil
}

// Remove deletes the entry; removing an unselected product is a no-op.
func (s Selection) Remove(productID int) Selection {
	if !s.Has(productID) {
		return s
	}
	c := s.clone()
	delete(c.entries, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return c
}

// Rebase records the latest known stock for every entry. Requested
// quantities are left as they are; a quantity that is now too high is
// reported when the bon is submitted.
func (s Selection) Rebase(products domain.Products) Selection {
	if s.Len() == 0 {
		return s
	}
	c := s.clone()
	for id, e := range c.entries {
		p, ok := products.ByID(id)
		if !ok {
			e.Available = 0
		} else {
			e.Available = p.Quantity
		}
		c.entries[id] = e
	}
	return c
}

// Clear ends the session by dropping all entries.
func (s Selection) Clear() Selection {
	return Selection{}
}

// Items converts the selection into record lines.
func (s Selection) Items() []Item {
	items := make([]Item, 0, s.Len())
	for _, e := range s.Entries() {
		items = append(items, Item{
			ProductID:   e.ProductID,
			ProductName: e.Name,
			Code:        e.Code,
			Quantity:    e.Quantity,
			Unit:        e.Unit,
		})
	}
	return items
}

func clamp(q, available int) int {
	if q > available {
		q = available
	}
	if q < 1 {
		q = 1
	}
	return q
}
