package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/bon"
	"github.com/kahvecikaan/stockroom/internal/service"
	"github.com/kahvecikaan/stockroom/internal/session"
)

type BonHandler struct {
	bonService service.BonService
	logger     hclog.Logger
}

func NewBonHandler(bs service.BonService, log hclog.Logger) *BonHandler {
	return &BonHandler{
		bonService: bs,
		logger:     log,
	}
}

// QuantityEdit carries the raw text of a quantity field. A JSON number is
// accepted as well as a string.
//
// swagger:model
type QuantityEdit struct {
	Quantity json.RawMessage `json:"quantity"`
}

// Raw returns the edit as the text a user typed.
func (q QuantityEdit) Raw() string {
	var s string
	if err := json.Unmarshal(q.Quantity, &s); err == nil {
		return s
	}
	return string(q.Quantity)
}

// OpenDraft handles POST /drafts
//
// swagger:route POST /drafts bons openDraft
//
// Opens a bon draft and loads the product list for the caller's session.
//
// Responses:
//
//	201: draftResponse
func (h *BonHandler) OpenDraft(w http.ResponseWriter, r *http.Request) {
	view, err := h.bonService.Open(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", "/drafts/"+view.ID)
	writeJSON(w, http.StatusCreated, view)
}

// GetDraft handles GET /drafts/{id}
//
// swagger:route GET /drafts/{id} bons getDraft
//
// Returns the selection and form of a draft.
//
// Responses:
//
//	200: draftResponse
//	404: errorResponse
func (h *BonHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.bonService.Draft(mux.Vars(r)["id"]))
}

// UpdateDraft handles PATCH /drafts/{id}
//
// swagger:route PATCH /drafts/{id} bons updateDraft
//
// Sets the requester name and purpose of a draft.
//
// Responses:
//
//	200: draftResponse
//	400: errorResponse
//	404: errorResponse
func (h *BonHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var patch service.FormPatch
	if err := decodeBody(w, r, &patch); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respond(w, r)(h.bonService.UpdateForm(mux.Vars(r)["id"], patch))
}

// CloseDraft handles DELETE /drafts/{id}
//
// swagger:route DELETE /drafts/{id} bons closeDraft
//
// Discards a draft and its selection.
//
// Responses:
//
//	204: noContentResponse
//	404: errorResponse
func (h *BonHandler) CloseDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.bonService.Close(mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DraftProducts handles GET /drafts/{id}/products
//
// swagger:route GET /drafts/{id}/products bons draftProducts
//
// Returns a page of the draft's product picker. The search and page are
// remembered by the draft; a new search starts at page 1.
//
// Responses:
//
//	200: pickerResponse
//	400: errorResponse
//	404: errorResponse
func (h *BonHandler) DraftProducts(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var query *string
	if values, ok := r.URL.Query()["q"]; ok {
		query = &values[0]
	}

	result, err := h.bonService.Products(mux.Vars(r)["id"], query, page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RefreshDraft handles POST /drafts/{id}/refresh
//
// swagger:route POST /drafts/{id}/refresh bons refreshDraft
//
// Reloads the draft's product list. On failure the last list is kept.
//
// Responses:
//
//	200: draftResponse
//	401: errorResponse
//	404: errorResponse
//	502: errorResponse
func (h *BonHandler) RefreshDraft(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r)(h.bonService.Refresh(r.Context(), mux.Vars(r)["id"]))
}

// ToggleItem handles POST /drafts/{id}/items/{pid}/toggle
//
// swagger:route POST /drafts/{id}/items/{pid}/toggle bons toggleItem
//
// Selects a product with quantity 1 or deselects it.
//
// Responses:
//
//	200: draftResponse
//	404: errorResponse
//	409: errorResponse
func (h *BonHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	h.item(w, r, h.bonService.Toggle)
}

// SetItemQuantity handles PUT /drafts/{id}/items/{pid}
//
// swagger:route PUT /drafts/{id}/items/{pid} bons setItemQuantity
//
// Sets the quantity from the raw text of the quantity field. Empty or
// non-numeric text resets it to 1; values above the stock are lowered.
//
// Responses:
//
//	200: draftResponse
//	400: errorResponse
//	404: errorResponse
//	409: errorResponse
func (h *BonHandler) SetItemQuantity(w http.ResponseWriter, r *http.Request) {
	var edit QuantityEdit
	if err := decodeBody(w, r, &edit); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.item(w, r, func(id string, productID int) (service.DraftView, error) {
		return h.bonService.SetQuantity(id, productID, edit.Raw())
	})
}

// IncrementItem handles POST /drafts/{id}/items/{pid}/increment
//
// swagger:route POST /drafts/{id}/items/{pid}/increment bons incrementItem
//
// Responses:
//
//	200: draftResponse
//	404: errorResponse
//	409: errorResponse
func (h *BonHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	h.item(w, r, h.bonService.Increment)
}

// DecrementItem handles POST /drafts/{id}/items/{pid}/decrement
//
// swagger:route POST /drafts/{id}/items/{pid}/decrement bons decrementItem
//
// Responses:
//
//	200: draftResponse
//	404: errorResponse
//	409: errorResponse
func (h *BonHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	h.item(w, r, h.bonService.Decrement)
}

// RemoveItem handles DELETE /drafts/{id}/items/{pid}
//
// swagger:route DELETE /drafts/{id}/items/{pid} bons removeItem
//
// Responses:
//
//	200: draftResponse
//	404: errorResponse
func (h *BonHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.item(w, r, h.bonService.Remove)
}

// SubmitDraft handles POST /drafts/{id}/submit
//
// swagger:route POST /drafts/{id}/submit bons submitDraft
//
// Submits the draft as one withdrawal. When the inventory API cannot take
// it the record is kept locally and 202 is returned.
//
// Responses:
//
//	201: receiptResponse
//	202: receiptResponse
//	404: errorResponse
//	422: bonValidationResponse
//	500: errorResponse
func (h *BonHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.bonService.Submit(r.Context(), mux.Vars(r)["id"])
	h.receipt(w, r, receipt, err)
}

// SubmitSingle handles POST /bon
//
// swagger:route POST /bon bons submitSingle
//
// Submits a withdrawal of a single product.
//
// Responses:
//
//	201: receiptResponse
//	202: receiptResponse
//	400: errorResponse
//	401: errorResponse
//	404: errorResponse
//	422: bonValidationResponse
func (h *BonHandler) SubmitSingle(w http.ResponseWriter, r *http.Request) {
	var req service.SingleBon
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	receipt, err := h.bonService.SubmitSingle(r.Context(), session.FromContext(r.Context()), req)
	h.receipt(w, r, receipt, err)
}

// LocalBons handles GET /bons/local
//
// swagger:route GET /bons/local bons localBons
//
// Lists withdrawals kept locally because the inventory API could not take them.
//
// Responses:
//
//	200: recordsResponse
//	500: errorResponse
func (h *BonHandler) LocalBons(w http.ResponseWriter, r *http.Request) {
	records, err := h.bonService.LocalBons(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *BonHandler) respond(w http.ResponseWriter, r *http.Request) func(service.DraftView, error) {
	return func(view service.DraftView, err error) {
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (h *BonHandler) item(w http.ResponseWriter, r *http.Request, fn func(id string, productID int) (service.DraftView, error)) {
	productID, err := pathInt(r, "pid")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.respond(w, r)(fn(mux.Vars(r)["id"], productID))
}

func (h *BonHandler) receipt(w http.ResponseWriter, r *http.Request, receipt bon.Receipt, err error) {
	switch {
	case err != nil:
		writeError(w, r, h.logger, err)
	case receipt.Origin == bon.OriginLocal:
		writeJSON(w, http.StatusAccepted, receipt)
	default:
		writeJSON(w, http.StatusCreated, receipt)
	}
}
