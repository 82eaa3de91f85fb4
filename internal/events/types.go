package events

// ProductsRefreshed is published after a product list was fetched.
type ProductsRefreshed struct {
	Total     int `json:"total"`
	LowStock  int `json:"low_stock"`
	Adequate  int `json:"adequate"`
	Overstock int `json:"overstock"`
}

// ProductChanged is published after a product write went through.
type ProductChanged struct {
	ProductID int    `json:"product_id"`
	Action    string `json:"action"`
}

// Product write actions
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// BonSubmitted is published after a bon was stored on the server or locally.
type BonSubmitted struct {
	BonID         int64  `json:"bon_id"`
	Origin        string `json:"origin"`
	Items         int    `json:"items"`
	TotalQuantity int    `json:"total_quantity"`
}
