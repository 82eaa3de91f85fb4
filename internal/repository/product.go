package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/session"
)

// ProductSource fetches the authoritative product list.
type ProductSource interface {
	ListProducts(ctx context.Context, sess session.Session) (domain.Products, error)
}

// ProductStore caches the product list fetched for one session. A failed
// refresh keeps the last list that was fetched successfully.
type ProductStore struct {
	source  ProductSource
	session session.Session
	logger  hclog.Logger

	mutex     sync.RWMutex
	products  domain.Products
	fetchedAt time.Time
}

func NewProductStore(source ProductSource, sess session.Session, logger hclog.Logger) *ProductStore {
	return &ProductStore{
		source:   source,
		session:  sess,
		logger:   logger,
		products: domain.Products{},
	}
}

// Refresh replaces the cached list with a fresh copy from the source.
func (s *ProductStore) Refresh(ctx context.Context) error {
	products, err := s.source.ListProducts(ctx, s.session)
	if err != nil {
		s.logger.Error("Unable to refresh products", "session", s.session, "error", err)
		return err
	}

	s.mutex.Lock()
	s.products = products
	s.fetchedAt = time.Now()
	s.mutex.Unlock()

	s.logger.Debug("Products refreshed", "count", len(products))
	return nil
}

// Products returns a copy of the cached list.
func (s *ProductStore) Products() domain.Products {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make(domain.Products, len(s.products))
	copy(out, s.products)
	return out
}

// Loaded reports whether any refresh has succeeded.
func (s *ProductStore) Loaded() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return !s.fetchedAt.IsZero()
}

// GetByID returns the cached product with the given id.
func (s *ProductStore) GetByID(id int) (domain.Product, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	p, ok := s.products.ByID(id)
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

// Available returns the currently known quantity of a product.
func (s *ProductStore) Available(id int) (int, bool) {
	p, err := s.GetByID(id)
	if err != nil {
		return 0, false
	}
	return p.Quantity, true
}

// Session is the session the store fetches with.
func (s *ProductStore) Session() session.Session {
	return s.session
}
