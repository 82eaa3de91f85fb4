package service

import (
	"context"
	"sync"

	"github.com/kahvecikaan/stockroom/internal/bon"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/inventory"
	"github.com/kahvecikaan/stockroom/internal/session"
)

// fakeInventory stands in for the inventory API client and counts calls.
type fakeInventory struct {
	mu       sync.Mutex
	products domain.Products
	listErr  error
	attempt  bon.Attempt
	lists    int
	delivers []bon.Record
	deleted  []int
}

func (f *fakeInventory) ListProducts(ctx context.Context, sess session.Session) (domain.Products, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !sess.Active() {
		return domain.Products{}, inventory.ErrNoSession
	}
	f.lists++
	if f.listErr != nil {
		return domain.Products{}, f.listErr
	}
	out := make(domain.Products, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeInventory) GetProduct(ctx context.Context, sess session.Session, id int) (domain.Product, error) {
	p, ok := f.products.ByID(id)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeInventory) CreateProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error) {
	p.ID = len(f.products) + 100
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeInventory) UpdateProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = p
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (f *fakeInventory) DeleteProduct(ctx context.Context, sess session.Session, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeInventory) DeliverBon(ctx context.Context, sess session.Session, endpoint bon.Endpoint, rec bon.Record) bon.Attempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivers = append(f.delivers, rec)
	a := f.attempt
	if a.Outcome == bon.Delivered && a.Record.ID == 0 {
		rec.ID = int64(len(f.delivers))
		a.Record = rec
	}
	return a
}

func testProducts() domain.Products {
	return domain.Products{
		{ID: 1, Code: "SNS-01", Name: "Sensor DHT22", Location: "Rak A", Quantity: 2, MinStock: 5, MaxStock: 20},
		{ID: 2, Code: "RLY-01", Name: "Relay 5V", Location: "Rak B", Quantity: 10, MinStock: 5, MaxStock: 20},
		{ID: 3, Code: "LED-01", Name: "LED Merah", Location: "Laci 1", Quantity: 150, MinStock: 10, MaxStock: 100},
		{ID: 4, Code: "ESP-01", Name: "ESP32", Location: "Rak A", Quantity: 0, MinStock: 3, MaxStock: 15},
		{ID: 5, Code: "RES-01", Name: "Resistor 1k", Location: "Laci 2", Quantity: 60, MinStock: 10, MaxStock: 500},
	}
}
