package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/bon"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/events"
	"github.com/kahvecikaan/stockroom/internal/fallback"
	"github.com/kahvecikaan/stockroom/internal/inventory"
	"github.com/kahvecikaan/stockroom/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBonService(api *fakeInventory) (*bonService, *fallback.BonLog, *events.EventBus[any]) {
	bus := events.NewEventBus[any]()
	local := fallback.NewBonLog(fallback.NewMemory(), hclog.NewNullLogger())
	svc := NewBonService(api, local, bus, hclog.NewNullLogger(), 3).(*bonService)
	return svc, local, bus
}

func strPtr(s string) *string { return &s }

func TestBonDraftSubmitDelivered(t *testing.T) {
	api := &fakeInventory{products: testProducts(), attempt: bon.Attempt{Outcome: bon.Delivered}}
	svc, local, bus := newTestBonService(api)
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)
	ctx := context.Background()

	view, err := svc.Open(ctx, session.WithToken("tok"))
	require.NoError(t, err)
	assert.True(t, view.ProductsLoaded)
	assert.Empty(t, view.Warning)
	assert.Empty(t, view.Entries)

	_, err = svc.Toggle(view.ID, 2)
	require.NoError(t, err)
	_, err = svc.Toggle(view.ID, 5)
	require.NoError(t, err)
	_, err = svc.Increment(view.ID, 2)
	require.NoError(t, err)
	view, err = svc.SetQuantity(view.ID, 5, "12")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, 14, view.TotalQuantity)

	_, err = svc.UpdateForm(view.ID, FormPatch{Requester: strPtr("Budi"), Purpose: strPtr("praktikum")})
	require.NoError(t, err)

	receipt, err := svc.Submit(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, bon.OriginServer, receipt.Origin)
	require.Len(t, api.delivers, 1)
	assert.Equal(t, "Budi", api.delivers[0].Requester)
	assert.Len(t, api.delivers[0].Items, 2)

	ev := <-sub
	assert.Equal(t, events.BonSubmitted{BonID: 1, Origin: "server", Items: 2, TotalQuantity: 14}, ev)

	view, err = svc.Draft(view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Count)
	assert.Equal(t, bon.Form{}, view.Form)

	stored, err := local.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBonDraftWithoutSession(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, local, _ := newTestBonService(api)
	ctx := context.Background()

	view, err := svc.Open(ctx, session.None())
	require.NoError(t, err)
	assert.False(t, view.ProductsLoaded)
	assert.NotEmpty(t, view.Warning)

	// nothing is known about stock, so nothing can be picked
	_, err = svc.Toggle(view.ID, 2)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.UpdateForm(view.ID, FormPatch{Requester: strPtr("Budi"), Purpose: strPtr("praktikum")})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, view.ID)
	var verr *bon.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, bon.KindIncomplete, verr.Kind)
	assert.Empty(t, api.delivers)

	stored, err := local.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestBonDraftNetworkFailureStoresLocally(t *testing.T) {
	api := &fakeInventory{
		products: testProducts(),
		attempt:  bon.Attempt{Outcome: bon.NetworkFailed, Err: errors.New("connection refused")},
	}
	svc, local, _ := newTestBonService(api)
	ctx := context.Background()

	view, err := svc.Open(ctx, session.WithToken("tok"))
	require.NoError(t, err)
	_, err = svc.Toggle(view.ID, 2)
	require.NoError(t, err)
	_, err = svc.UpdateForm(view.ID, FormPatch{Requester: strPtr("Sari"), Purpose: strPtr("riset")})
	require.NoError(t, err)

	receipt, err := svc.Submit(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, bon.OriginLocal, receipt.Origin)
	assert.NotZero(t, receipt.Record.ID)

	stored, err := svc.LocalBons(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Sari", stored[0].Requester)

	fromLog, err := local.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, fromLog)
}

func TestBonDraftValidationKeepsSelection(t *testing.T) {
	api := &fakeInventory{products: testProducts(), attempt: bon.Attempt{Outcome: bon.Delivered}}
	svc, _, _ := newTestBonService(api)
	ctx := context.Background()

	view, err := svc.Open(ctx, session.WithToken("tok"))
	require.NoError(t, err)
	_, err = svc.Toggle(view.ID, 2)
	require.NoError(t, err)
	_, err = svc.SetQuantity(view.ID, 2, "8")
	require.NoError(t, err)
	_, err = svc.UpdateForm(view.ID, FormPatch{Requester: strPtr("Budi"), Purpose: strPtr("praktikum")})
	require.NoError(t, err)

	// stock dropped elsewhere before the refresh
	api.products[1].Quantity = 3
	view, err = svc.Refresh(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Entries[0].Available)
	assert.Equal(t, 8, view.Entries[0].Quantity)

	_, err = svc.Submit(ctx, view.ID)
	var verr *bon.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, bon.KindInsufficientStock, verr.Kind)
	assert.Empty(t, api.delivers)

	view, err = svc.Draft(view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, "Budi", view.Form.Requester)
}

func TestBonDraftRefusals(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, _, _ := newTestBonService(api)

	view, err := svc.Open(context.Background(), session.WithToken("tok"))
	require.NoError(t, err)

	_, err = svc.Toggle(view.ID, 4)
	assert.ErrorIs(t, err, bon.ErrOutOfStock)

	_, err = svc.Increment(view.ID, 2)
	assert.ErrorIs(t, err, bon.ErrNotSelected)

	_, err = svc.Toggle(view.ID, 1)
	require.NoError(t, err)
	_, err = svc.Increment(view.ID, 1)
	require.NoError(t, err)
	view, err = svc.Increment(view.ID, 1)
	assert.ErrorIs(t, err, bon.ErrAtMaximum)
	assert.Equal(t, 2, view.Entries[0].Quantity)

	_, err = svc.Decrement(view.ID, 1)
	require.NoError(t, err)
	_, err = svc.Decrement(view.ID, 1)
	assert.ErrorIs(t, err, bon.ErrAtMinimum)

	view, err = svc.SetQuantity(view.ID, 1, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, view.Entries[0].Quantity)

	view, err = svc.Toggle(view.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Count)

	view, err = svc.Remove(view.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Count)
}

func TestBonDraftProducts(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, _, _ := newTestBonService(api)

	view, err := svc.Open(context.Background(), session.WithToken("tok"))
	require.NoError(t, err)
	_, err = svc.Toggle(view.ID, 5)
	require.NoError(t, err)

	page, err := svc.Products(view.ID, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Page)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.False(t, page.Items[0].Selected)
	assert.True(t, page.Items[1].Selected)
	assert.Equal(t, 1, page.Items[1].SelectedQuantity)

	// the cursor is kept between calls
	page, err = svc.Products(view.ID, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Page)

	// a new query goes back to the first page
	page, err = svc.Products(view.ID, strPtr("laci"), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page.Page)
	assert.Equal(t, "laci", page.Query)
	assert.Equal(t, 2, page.TotalItems)
}

func TestBonDraftLifecycle(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, _, _ := newTestBonService(api)

	_, err := svc.Draft("missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	view, err := svc.Open(context.Background(), session.WithToken("tok"))
	require.NoError(t, err)

	require.NoError(t, svc.Close(view.ID))
	assert.ErrorIs(t, svc.Close(view.ID), ErrDraftNotFound)

	_, err = svc.Toggle(view.ID, 1)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestBonDraftExpires(t *testing.T) {
	api := &fakeInventory{products: testProducts()}
	svc, _, _ := newTestBonService(api)
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	old, err := svc.Open(context.Background(), session.WithToken("tok"))
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = svc.Open(context.Background(), session.WithToken("tok"))
	require.NoError(t, err)

	_, err = svc.Draft(old.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSubmitSingle(t *testing.T) {
	api := &fakeInventory{products: testProducts(), attempt: bon.Attempt{Outcome: bon.Delivered}}
	svc, _, _ := newTestBonService(api)
	ctx := context.Background()
	sess := session.WithToken("tok")
	form := bon.Form{Requester: "Budi", Purpose: "praktikum"}

	receipt, err := svc.SubmitSingle(ctx, sess, SingleBon{Form: form, ProductID: 3, Quantity: 20})
	require.NoError(t, err)
	assert.Equal(t, bon.OriginServer, receipt.Origin)
	require.Len(t, api.delivers, 1)
	assert.Equal(t, "LED Merah", api.delivers[0].Items[0].ProductName)

	_, err = svc.SubmitSingle(ctx, sess, SingleBon{Form: form, ProductID: 1, Quantity: 3})
	var verr *bon.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, bon.KindInsufficientStock, verr.Kind)

	_, err = svc.SubmitSingle(ctx, sess, SingleBon{Form: form, ProductID: 42, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.SubmitSingle(ctx, session.None(), SingleBon{Form: form, ProductID: 3, Quantity: 1})
	assert.ErrorIs(t, err, inventory.ErrNoSession)
	assert.Len(t, api.delivers, 1)
}
