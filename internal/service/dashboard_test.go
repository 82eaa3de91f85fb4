package service

import (
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/events"
	"github.com/kahvecikaan/stockroom/internal/inventory"
	"github.com/kahvecikaan/stockroom/internal/listing"
	"github.com/kahvecikaan/stockroom/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(api *fakeInventory, pageSize int) (DashboardService, *events.EventBus[any]) {
	bus := events.NewEventBus[any]()
	return NewDashboardService(api, bus, hclog.NewNullLogger(), pageSize), bus
}

func TestDashboardStats(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, bus := newTestDashboard(api, 8)
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	sum, err := svc.Stats(context.Background(), session.WithToken("tok"))
	require.NoError(t, err)

	assert.Equal(t, domain.Summary{Total: 5, LowStock: 2, Adequate: 2, Overstock: 1}, sum)
	assert.Equal(t, events.ProductsRefreshed{Total: 5, LowStock: 2, Adequate: 2, Overstock: 1}, <-sub)
}

func TestDashboardStatsWithoutSession(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, _ := newTestDashboard(api, 8)

	_, err := svc.Stats(context.Background(), session.None())
	assert.ErrorIs(t, err, inventory.ErrNoSession)
	assert.Equal(t, 0, api.lists)
}

func TestDashboardListProducts(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, _ := newTestDashboard(api, 2)
	ctx := context.Background()
	sess := session.WithToken("tok")

	page, err := svc.ListProducts(ctx, sess, listing.NewCursor().WithPage(2))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Page)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Items[0].ID)
	assert.Equal(t, domain.Overstock, page.Items[0].Class)
	assert.Equal(t, domain.LowStock, page.Items[1].Class)

	page, err = svc.ListProducts(ctx, sess, listing.NewCursor().WithQuery("rak a"))
	require.NoError(t, err)
	assert.Equal(t, "rak a", page.Query)
	assert.Equal(t, 2, page.TotalItems)

	// a page past the end falls back to the first page
	page, err = svc.ListProducts(ctx, sess, listing.NewCursor().WithPage(9))
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page.Page)
}

func TestDashboardSection(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, _ := newTestDashboard(api, 8)
	ctx := context.Background()
	sess := session.WithToken("tok")

	view, err := svc.Section(ctx, sess, domain.LowStock, listing.NewCursor())
	require.NoError(t, err)
	assert.Equal(t, "low_stock", view.Section)
	assert.Equal(t, 2, view.Count)
	require.Len(t, view.Page.Items, 2)
	assert.Equal(t, 1, view.Page.Items[0].ID)
	assert.Equal(t, 4, view.Page.Items[1].ID)

	view, err = svc.Section(ctx, sess, domain.LowStock, listing.NewCursor().WithQuery("esp"))
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	require.Len(t, view.Page.Items, 1)
	assert.Equal(t, 4, view.Page.Items[0].ID)
}

func TestDashboardProductWrites(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, bus := newTestDashboard(api, 8)
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)
	ctx := context.Background()
	sess := session.WithToken("tok")

	created, err := svc.AddProduct(ctx, sess, domain.Product{Code: "CAP-01", Name: "Kapasitor", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, events.ProductChanged{ProductID: created.ID, Action: events.ActionCreated}, <-sub)

	created.Quantity = 7
	_, err = svc.UpdateProduct(ctx, sess, created)
	require.NoError(t, err)
	assert.Equal(t, events.ProductChanged{ProductID: created.ID, Action: events.ActionUpdated}, <-sub)

	require.NoError(t, svc.DeleteProduct(ctx, sess, 3))
	assert.Equal(t, []int{3}, api.deleted)
	assert.Equal(t, events.ProductChanged{ProductID: 3, Action: events.ActionDeleted}, <-sub)

	_, err = svc.UpdateProduct(ctx, sess, domain.Product{ID: 999})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.GetProduct(ctx, sess, 999)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
