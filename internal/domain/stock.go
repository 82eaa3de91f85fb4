package domain

// StockClass is the derived stock level of a product. It is never stored.
type StockClass int

const (
	Adequate StockClass = iota
	LowStock
	Overstock
)

func (c StockClass) String() string {
	switch c {
	case LowStock:
		return "low_stock"
	case Overstock:
		return "overstock"
	default:
		return "adequate"
	}
}

// MarshalText lets the class appear as its name in JSON payloads.
func (c StockClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Classify compares the quantity against the product thresholds.
// The low boundary is inclusive and the high boundary is exclusive; the rules
// are applied in this order even when MinStock > MaxStock.
func Classify(p Product) StockClass {
	switch {
	case p.Quantity <= p.MinStock:
		return LowStock
	case p.Quantity > p.MaxStock:
		return Overstock
	default:
		return Adequate
	}
}

// Partition splits products into disjoint classes, keeping input order.
type Partition struct {
	LowStock  Products `json:"low_stock"`
	Adequate  Products `json:"adequate"`
	Overstock Products `json:"overstock"`
}

func PartitionProducts(ps Products) Partition {
	part := Partition{
		LowStock:  Products{},
		Adequate:  Products{},
		Overstock: Products{},
	}
	for _, p := range ps {
		switch Classify(p) {
		case LowStock:
			part.LowStock = append(part.LowStock, p)
		case Overstock:
			part.Overstock = append(part.Overstock, p)
		default:
			part.Adequate = append(part.Adequate, p)
		}
	}
	return part
}

// Section returns the products of a single class.
func (p Partition) Section(c StockClass) Products {
	switch c {
	case LowStock:
		return p.LowStock
	case Overstock:
		return p.Overstock
	default:
		return p.Adequate
	}
}

// Summary holds the dashboard stat card counts
//
// swagger:model
type Summary struct {
	Total     int `json:"total"`
	LowStock  int `json:"low_stock"`
	Adequate  int `json:"adequate"`
	Overstock int `json:"overstock"`
}

func Summarize(ps Products) Summary {
	s := Summary{Total: len(ps)}
	for _, p := range ps {
		switch Classify(p) {
		case LowStock:
			s.LowStock++
		case Overstock:
			s.Overstock++
		default:
			s.Adequate++
		}
	}
	return s
}

// ParseSection maps the analytics section names used by the dashboard.
func ParseSection(s string) (StockClass, bool) {
	switch s {
	case "low-stock", "low_stock":
		return LowStock, true
	case "overstock":
		return Overstock, true
	case "adequate":
		return Adequate, true
	}
	return Adequate, false
}
