package service

import (
	"context"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/events"
	"github.com/kahvecikaan/stockroom/internal/listing"
	"github.com/kahvecikaan/stockroom/internal/repository"
	"github.com/kahvecikaan/stockroom/internal/session"
)

// ProductAPI is the part of the inventory API the dashboard reads and writes.
type ProductAPI interface {
	repository.ProductSource
	GetProduct(ctx context.Context, sess session.Session, id int) (domain.Product, error)
	CreateProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, sess session.Session, id int) error
}

// ClassifiedProduct is a product with its derived stock class
//
// swagger:model
type ClassifiedProduct struct {
	domain.Product
	Class domain.StockClass `json:"stock_class"`
}

// ProductPage is one page of the component list
//
// swagger:model
type ProductPage struct {
	listing.Page[ClassifiedProduct]
	Query string `json:"query"`
}

// SectionView is one analytics section (low stock or overstock)
//
// swagger:model
type SectionView struct {
	Section string `json:"section"`
	// Number of products in the section before the search is applied
	Count int                          `json:"count"`
	Query string                       `json:"query"`
	Page  listing.Page[domain.Product] `json:"page"`
}

type DashboardService interface {
	Stats(ctx context.Context, sess session.Session) (domain.Summary, error)
	ListProducts(ctx context.Context, sess session.Session, cursor listing.Cursor) (ProductPage, error)
	Section(ctx context.Context, sess session.Session, class domain.StockClass, cursor listing.Cursor) (SectionView, error)
	GetProduct(ctx context.Context, sess session.Session, id int) (domain.Product, error)
	AddProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, sess session.Session, id int) error
}

type dashboardService struct {
	api      ProductAPI
	eventBus *events.EventBus[any]
	logger   hclog.Logger
	pageSize int
}

func NewDashboardService(
	api ProductAPI,
	eventBus *events.EventBus[any],
	logger hclog.Logger,
	pageSize int) DashboardService {
	if pageSize <= 0 {
		pageSize = 8
	}
	return &dashboardService{
		api:      api,
		eventBus: eventBus,
		logger:   logger,
		pageSize: pageSize,
	}
}

// load fetches a fresh product list for the request. The store is scoped to
// this call, mirroring a page view that discards its copy on navigation.
func (s *dashboardService) load(ctx context.Context, sess session.Session) (domain.Products, error) {
	store := repository.NewProductStore(s.api, sess, s.logger.Named("store"))
	if err := store.Refresh(ctx); err != nil {
		return nil, err
	}

	products := store.Products()
	sum := domain.Summarize(products)
	s.eventBus.Publish(events.ProductsRefreshed{
		Total:     sum.Total,
		LowStock:  sum.LowStock,
		Adequate:  sum.Adequate,
		Overstock: sum.Overstock,
	})
	return products, nil
}

func (s *dashboardService) Stats(ctx context.Context, sess session.Session) (domain.Summary, error) {
	s.logger.Debug("Getting dashboard stats")

	products, err := s.load(ctx, sess)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(products), nil
}

func (s *dashboardService) ListProducts(ctx context.Context, sess session.Session, cursor listing.Cursor) (ProductPage, error) {
	s.logger.Debug("Listing products", "query", cursor.Query, "page", cursor.Page)

	products, err := s.load(ctx, sess)
	if err != nil {
		return ProductPage{}, err
	}

	page, cursor, err := cursor.Apply(products, s.pageSize)
	if err != nil {
		return ProductPage{}, err
	}

	items := make([]ClassifiedProduct, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, ClassifiedProduct{Product: p, Class: domain.Classify(p)})
	}

	return ProductPage{
		Page: listing.Page[ClassifiedProduct]{
			Items:      items,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalItems: page.TotalItems,
			TotalPages: page.TotalPages,
		},
		Query: cursor.Query,
	}, nil
}

func (s *dashboardService) Section(ctx context.Context, sess session.Session, class domain.StockClass, cursor listing.Cursor) (SectionView, error) {
	s.logger.Debug("Getting analytics section", "section", class, "query", cursor.Query)

	products, err := s.load(ctx, sess)
	if err != nil {
		return SectionView{}, err
	}

	section := domain.PartitionProducts(products).Section(class)
	page, cursor, err := cursor.Apply(section, s.pageSize)
	if err != nil {
		return SectionView{}, err
	}

	return SectionView{
		Section: class.String(),
		Count:   len(section),
		Query:   cursor.Query,
		Page:    page,
	}, nil
}

func (s *dashboardService) GetProduct(ctx context.Context, sess session.Session, id int) (domain.Product, error) {
	s.logger.Debug("Getting product by ID", "id", id)

	product, err := s.api.GetProduct(ctx, sess, id)
	if err != nil {
		s.logger.Error("Unable to get the product by ID", "id", id, "error", err)
		return domain.Product{}, err
	}
	return product, nil
}

func (s *dashboardService) AddProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error) {
	s.logger.Debug("Adding new product", "name", p.Name)

	stored, err := s.api.CreateProduct(ctx, sess, p)
	if err != nil {
		s.logger.Error("Unable to add product", "name", p.Name, "error", err)
		return domain.Product{}, err
	}

	s.eventBus.Publish(events.ProductChanged{ProductID: stored.ID, Action: events.ActionCreated})
	return stored, nil
}

func (s *dashboardService) UpdateProduct(ctx context.Context, sess session.Session, p domain.Product) (domain.Product, error) {
	s.logger.Debug("Updating product", "id", p.ID)

	stored, err := s.api.UpdateProduct(ctx, sess, p)
	if err != nil {
		s.logger.Error("Unable to update product", "id", p.ID, "error", err)
		return domain.Product{}, err
	}

	s.eventBus.Publish(events.ProductChanged{ProductID: p.ID, Action: events.ActionUpdated})
	return stored, nil
}

func (s *dashboardService) DeleteProduct(ctx context.Context, sess session.Session, id int) error {
	s.logger.Debug("Deleting product", "id", id)

	if err := s.api.DeleteProduct(ctx, sess, id); err != nil {
		s.logger.Error("Unable to delete product", "id", id, "error", err)
		return err
	}

	s.eventBus.Publish(events.ProductChanged{ProductID: id, Action: events.ActionDeleted})
	return nil
}
