// Package bon builds and submits withdrawal receipts ("bon") for components
// taken out of inventory.
package bon

import "github.com/go-openapi/strfmt"

// Item is one line of a withdrawal record
//
// swagger:model
type Item struct {
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name"`
	Code        string `json:"kode_barang"`
	Quantity    int    `json:"quantity"`
	Unit        string `json:"satuan"`
}

// Record is a submitted withdrawal receipt. Once stored it is never modified.
//
// swagger:model
type Record struct {
	// Assigned by the inventory API, or locally when the record was kept in
	// the fallback store
	ID int64 `json:"id,omitempty"`

	// Name of the person taking the components
	//
	// required: true
	Requester string `json:"nama_pengebon"`

	// Stated purpose of the withdrawal
	//
	// required: true
	Purpose string `json:"purpose"`

	// required: true
	Items []Item `json:"items"`

	Date      strfmt.DateTime  `json:"date"`
	CreatedAt *strfmt.DateTime `json:"created_at,omitempty"`
}

// TotalQuantity sums the quantities of all items.
func (r Record) TotalQuantity() int {
	total := 0
	for _, it := range r.Items {
		total += it.Quantity
	}
	return total
}

// Origin tells where a record ended up.
type Origin string

const (
	OriginServer Origin = "server"
	OriginLocal  Origin = "local"
)
