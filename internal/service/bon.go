package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/bon"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/events"
	"github.com/kahvecikaan/stockroom/internal/listing"
	"github.com/kahvecikaan/stockroom/internal/repository"
	"github.com/kahvecikaan/stockroom/internal/session"
)

// ErrDraftNotFound is returned when a draft id is unknown or has expired.
var ErrDraftNotFound = errors.New("bon draft not found")

// draftIdleTimeout is how long an untouched draft is kept.
const draftIdleTimeout = time.Hour

// BonAPI is the part of the inventory API used to build and deliver bons.
type BonAPI interface {
	repository.ProductSource
	bon.Deliverer
}

// LocalBons is the fallback log of bons the inventory API did not take.
type LocalBons interface {
	bon.FallbackStore
	List(ctx context.Context) ([]bon.Record, error)
}

// FormPatch updates the header fields of a draft. Nil fields are left as they are.
//
// swagger:model
type FormPatch struct {
	Requester *string `json:"nama_pengebon,omitempty"`
	Purpose   *string `json:"purpose,omitempty"`
}

// DraftView is the client-facing state of a bon draft
//
// swagger:model
type DraftView struct {
	ID            string      `json:"id"`
	Form          bon.Form    `json:"form"`
	Entries       []bon.Entry `json:"entries"`
	Count         int         `json:"count"`
	TotalQuantity int         `json:"total_quantity"`
	// False until the draft's product list was fetched once
	ProductsLoaded bool `json:"products_loaded"`
	// Message of the last failed product refresh
	Warning string `json:"warning,omitempty"`
}

// PickerProduct is a product row in the draft's product picker
type PickerProduct struct {
	domain.Product
	Selected         bool `json:"selected"`
	SelectedQuantity int  `json:"selected_quantity,omitempty"`
}

// PickerPage is one page of the draft's product picker
//
// swagger:model
type PickerPage struct {
	listing.Page[PickerProduct]
	Query string `json:"query"`
}

// SingleBon is a one-item bon submitted without a draft
//
// swagger:model
type SingleBon struct {
	bon.Form
	// required: true
	ProductID int `json:"product_id"`
	// required: true
	Quantity int `json:"quantity"`
}

type BonService interface {
	Open(ctx context.Context, sess session.Session) (DraftView, error)
	Draft(id string) (DraftView, error)
	Close(id string) error
	UpdateForm(id string, patch FormPatch) (DraftView, error)
	Products(id string, query *string, page int) (PickerPage, error)
	Refresh(ctx context.Context, id string) (DraftView, error)
	Toggle(id string, productID int) (DraftView, error)
	SetQuantity(id string, productID int, raw string) (DraftView, error)
	Increment(id string, productID int) (DraftView, error)
	Decrement(id string, productID int) (DraftView, error)
	Remove(id string, productID int) (DraftView, error)
	Submit(ctx context.Context, id string) (bon.Receipt, error)
	SubmitSingle(ctx context.Context, sess session.Session, req SingleBon) (bon.Receipt, error)
	LocalBons(ctx context.Context) ([]bon.Record, error)
}

// draft is one bon-building session. Its mutex serializes every operation
// on it, including a submission that is waiting on the network.
type draft struct {
	mutex     sync.Mutex
	id        string
	store     *repository.ProductStore
	pipeline  *bon.Pipeline
	selection bon.Selection
	form      bon.Form
	cursor    listing.Cursor
	warning   string
	lastUsed  time.Time
}

func (d *draft) view() DraftView {
	entries := d.selection.Entries()
	if entries == nil {
		entries = []bon.Entry{}
	}
	return DraftView{
		ID:             d.id,
		Form:           d.form,
		Entries:        entries,
		Count:          d.selection.Len(),
		TotalQuantity:  d.selection.TotalQuantity(),
		ProductsLoaded: d.store.Loaded(),
		Warning:        d.warning,
	}
}

func (d *draft) refresh(ctx context.Context) error {
	if err := d.store.Refresh(ctx); err != nil {
		d.warning = err.Error()
		return err
	}
	d.warning = ""
	d.selection = d.selection.Rebase(d.store.Products())
	return nil
}

type bonService struct {
	api      BonAPI
	local    LocalBons
	eventBus *events.EventBus[any]
	logger   hclog.Logger
	pageSize int
	now      func() time.Time

	mutex  sync.Mutex
	drafts map[string]*draft
}

func NewBonService(
	api BonAPI,
	local LocalBons,
	eventBus *events.EventBus[any],
	logger hclog.Logger,
	pageSize int) BonService {
	if pageSize <= 0 {
		pageSize = 3
	}
	return &bonService{
		api:      api,
		local:    local,
		eventBus: eventBus,
		logger:   logger,
		pageSize: pageSize,
		now:      time.Now,
		drafts:   make(map[string]*draft),
	}
}

// Open starts a draft for the session and loads its product list. A failed
// load leaves the draft open with an empty list and a warning.
func (s *bonService) Open(ctx context.Context, sess session.Session) (DraftView, error) {
	d := &draft{
		id:        uuid.NewString(),
		store:     repository.NewProductStore(s.api, sess, s.logger.Named("store")),
		selection: bon.NewSelection(),
		cursor:    listing.NewCursor(),
	}
	d.pipeline = bon.NewPipeline(sess, s.api, s.local, d.store, s.logger.Named("pipeline"))

	if err := d.refresh(ctx); err != nil {
		s.logger.Warn("Draft opened without products", "draft", d.id, "error", err)
	}

	view := d.view()

	s.mutex.Lock()
	s.prune()
	d.lastUsed = s.now()
	s.drafts[d.id] = d
	s.mutex.Unlock()

	s.logger.Debug("Draft opened", "draft", d.id, "session", sess)
	return view, nil
}

// prune drops drafts that were not used for draftIdleTimeout. Callers hold s.mutex.
func (s *bonService) prune() {
	cutoff := s.now().Add(-draftIdleTimeout)
	for id, d := range s.drafts {
		if d.lastUsed.Before(cutoff) {
			delete(s.drafts, id)
			s.logger.Debug("Draft expired", "draft", id)
		}
	}
}

// acquire returns the draft locked. The caller must unlock it.
func (s *bonService) acquire(id string) (*draft, error) {
	s.mutex.Lock()
	d, ok := s.drafts[id]
	if ok {
		d.lastUsed = s.now()
	}
	s.mutex.Unlock()

	if !ok {
		return nil, ErrDraftNotFound
	}
	d.mutex.Lock()
	return d, nil
}

func (s *bonService) Draft(id string) (DraftView, error) {
	d, err := s.acquire(id)
	if err != nil {
		return DraftView{}, err
	}
	defer d.mutex.Unlock()

	return d.view(), nil
}

// Close destroys the draft and everything selected in it.
func (s *bonService) Close(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.drafts[id]; !ok {
		return ErrDraftNotFound
	}
	delete(s.drafts, id)
	s.logger.Debug("Draft closed", "draft", id)
	return nil
}

func (s *bonService) UpdateForm(id string, patch FormPatch) (DraftView, error) {
	d, err := s.acquire(id)
	if err != nil {
		return DraftView{}, err
	}
	defer d.mutex.Unlock()

	if patch.Requester != nil {
		d.form.Requester = *patch.Requester
	}
	if patch.Purpose != nil {
		d.form.Purpose = *patch.Purpose
	}
	return d.view(), nil
}

// Products returns a page of the draft's product picker. A non-nil query
// replaces the search and goes back to page 1; page 0 keeps the current page.
func (s *bonService) Products(id string, query *string, page int) (PickerPage, error) {
	d, err := s.acquire(id)
	if err != nil {
		return PickerPage{}, err
	}
	defer d.mutex.Unlock()

	cursor := d.cursor
	if query != nil {
		cursor = cursor.WithQuery(*query)
	}
	if page > 0 {
		cursor = cursor.WithPage(page)
	}

	result, cursor, err := cursor.Apply(d.store.Products(), s.pageSize)
	if err != nil {
		return PickerPage{}, err
	}
	d.cursor = cursor

	items := make([]PickerProduct, 0, len(result.Items))
	for _, p := range result.Items {
		row := PickerProduct{Product: p}
		if e, ok := d.selection.Get(p.ID); ok {
			row.Selected = true
			row.SelectedQuantity = e.Quantity
		}
		items = append(items, row)
	}

	return PickerPage{
		Page: listing.Page[PickerProduct]{
			Items:      items,
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalItems: result.TotalItems,
			TotalPages: result.TotalPages,
		},
		Query: cursor.Query,
	}, nil
}

// Refresh reloads the draft's products. On failure the last list and the
// selection are kept and the error is returned.
func (s *bonService) Refresh(ctx context.Context, id string) (DraftView, error) {
	d, err := s.acquire(id)
	if err != nil {
		return DraftView{}, err
	}
	defer d.mutex.Unlock()

	if err := d.refresh(ctx); err != nil {
		return d.view(), err
	}
	return d.view(), nil
}

// update applies a selection transition. A refused transition leaves the
// draft unchanged and returns the refusal.
func (s *bonService) update(id string, fn func(d *draft) (bon.Selection, error)) (DraftView, error) {
	d, err := s.acquire(id)
	if err != nil {
		return DraftView{}, err
	}
	defer d.mutex.Unlock()

	next, err := fn(d)
	if err != nil {
		return d.view(), err
	}
	d.selection = next
	return d.view(), nil
}

func (s *bonService) Toggle(id string, productID int) (DraftView, error) {
	return s.update(id, func(d *draft) (bon.Selection, error) {
		if d.selection.Has(productID) {
			return d.selection.Remove(productID), nil
		}
		p, err := d.store.GetByID(productID)
		if err != nil {
			return d.selection, err
		}
		return d.selection.Toggle(p)
	})
}

func (s *bonService) SetQuantity(id string, productID int, raw string) (DraftView, error) {
	return s.update(id, func(d *draft) (bon.Selection, error) {
		return d.selection.EditQuantity(productID, raw)
	})
}

func (s *bonService) Increment(id string, productID int) (DraftView, error) {
	return s.update(id, func(d *draft) (bon.Selection, error) {
		return d.selection.Increment(productID)
	})
}

func (s *bonService) Decrement(id string, productID int) (DraftView, error) {
	return s.update(id, func(d *draft) (bon.Selection, error) {
		return d.selection.Decrement(productID)
	})
}

func (s *bonService) Remove(id string, productID int) (DraftView, error) {
	return s.update(id, func(d *draft) (bon.Selection, error) {
		return d.selection.Remove(productID), nil
	})
}

// Submit runs the submission pipeline for the draft. The selection and the
// form are cleared only when the bon was stored somewhere.
func (s *bonService) Submit(ctx context.Context, id string) (bon.Receipt, error) {
	d, err := s.acquire(id)
	if err != nil {
		return bon.Receipt{}, err
	}
	defer d.mutex.Unlock()

	receipt, err := d.pipeline.Submit(ctx, d.form, d.selection)
	if err != nil {
		return bon.Receipt{}, err
	}

	d.selection = d.selection.Clear()
	d.form = bon.Form{}
	s.published(receipt)
	return receipt, nil
}

// SubmitSingle submits a one-item bon. The product list is fetched for the
// session first so the quantity is checked against current stock.
func (s *bonService) SubmitSingle(ctx context.Context, sess session.Session, req SingleBon) (bon.Receipt, error) {
	store := repository.NewProductStore(s.api, sess, s.logger.Named("store"))
	if err := store.Refresh(ctx); err != nil {
		return bon.Receipt{}, err
	}

	p, err := store.GetByID(req.ProductID)
	if err != nil {
		return bon.Receipt{}, err
	}

	item := bon.Item{
		ProductID:   p.ID,
		ProductName: p.Name,
		Code:        p.Code,
		Quantity:    req.Quantity,
		Unit:        p.Unit,
	}

	pipeline := bon.NewPipeline(sess, s.api, s.local, store, s.logger.Named("pipeline"))
	receipt, err := pipeline.SubmitSingle(ctx, req.Form, item)
	if err != nil {
		return bon.Receipt{}, err
	}

	s.published(receipt)
	return receipt, nil
}

func (s *bonService) published(receipt bon.Receipt) {
	s.eventBus.Publish(events.BonSubmitted{
		BonID:         receipt.Record.ID,
		Origin:        string(receipt.Origin),
		Items:         len(receipt.Record.Items),
		TotalQuantity: receipt.Record.TotalQuantity(),
	})
}

func (s *bonService) LocalBons(ctx context.Context) ([]bon.Record, error) {
	return s.local.List(ctx)
}
