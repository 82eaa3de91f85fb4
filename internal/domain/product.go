package domain

import "github.com/go-openapi/strfmt"

// Product represents one inventory line item as served by the inventory API
//
// swagger:model
type Product struct {
	// The ID of the component
	//
	// required: true
	// min: 1
	// example: 1
	ID int `json:"id"`

	// The component code (SKU)
	//
	// required: true
	// example: ESP32-01
	Code string `json:"kode_barang" validate:"required,kode"`

	// The component name
	//
	// required: true
	// example: Sensor DHT22
	Name string `json:"nama_komponen" validate:"required"`

	// Optional image as a data URI
	//
	// required: false
	Image *string `json:"gambar" validate:"omitempty,datauri"`

	// Unit of measure label
	//
	// required: true
	// example: pcs
	Unit string `json:"satuan" validate:"required"`

	// Current quantity in stock
	//
	// required: true
	// min: 0
	// example: 12
	Quantity int `json:"jumlah" validate:"gte=0"`

	// Storage location
	//
	// required: false
	// example: Rak A-3
	Location string `json:"lokasi_simpan"`

	// Minimum stock threshold
	//
	// required: true
	// min: 0
	MinStock int `json:"stok_min" validate:"gte=0"`

	// Maximum stock threshold
	//
	// required: true
	// min: 0
	MaxStock int `json:"stok_max" validate:"gte=0"`

	CreatedAt strfmt.DateTime `json:"created_at"`
	UpdatedAt strfmt.DateTime `json:"updated_at"`
}

// Products is a collection of Product
type Products []Product

// ByID returns the product with the given id.
func (ps Products) ByID(id int) (Product, bool) {
	for _, p := range ps {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
