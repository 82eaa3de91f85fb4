package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/listing"
	"github.com/kahvecikaan/stockroom/internal/service"
	"github.com/kahvecikaan/stockroom/internal/session"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           hclog.Logger
}

func NewDashboardHandler(ds service.DashboardService, log hclog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: ds,
		logger:           log,
	}
}

// Health handles GET /health
//
// swagger:route GET /health health health
//
// Reports that the service is up.
//
// Responses:
//
//	200: healthResponse
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Stats handles GET /dashboard/stats
//
// swagger:route GET /dashboard/stats dashboard dashboardStats
//
// Returns the number of products per stock class.
//
// Responses:
//
//	200: statsResponse
//	401: errorResponse
//	502: errorResponse
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sum, err := h.dashboardService.Stats(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GetProducts handles GET /products
//
// swagger:route GET /products products listProducts
//
// Returns one page of products matching the search, with their stock class.
//
// Responses:
//
//	200: productsResponse
//	400: errorResponse
//	401: errorResponse
//	502: errorResponse
func (h *DashboardHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, err := h.dashboardService.ListProducts(r.Context(), session.FromContext(r.Context()), cursor)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Analytics handles GET /analytics
//
// swagger:route GET /analytics dashboard analyticsSection
//
// Returns one page of the low stock or overstock section.
//
// Responses:
//
//	200: sectionResponse
//	400: errorResponse
//	401: errorResponse
//	502: errorResponse
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("section")
	if name == "" {
		name = "low-stock"
	}
	class, ok := domain.ParseSection(name)
	if !ok {
		writeError(w, r, h.logger, badRequest("unknown section %q", name))
		return
	}

	cursor, err := cursorFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	view, err := h.dashboardService.Section(r.Context(), session.FromContext(r.Context()), class, cursor)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetProductByID handles GET /products/{id}
//
// swagger:route GET /products/{id} products getProductByID
//
// Returns a product by ID.
//
// Responses:
//
//	200: productResponse
//	400: errorResponse
//	404: errorResponse
func (h *DashboardHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	product, err := h.dashboardService.GetProduct(r.Context(), session.FromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// AddProduct handles POST /products
//
// swagger:route POST /products products addProduct
//
// Adds a new product.
//
// Responses:
//
//	201: productResponse
//	400: errorResponse
//	422: validationErrorResponse
//	502: errorResponse
func (h *DashboardHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := r.Context().Value(ContextKeyProduct).(*domain.Product)
	if !ok {
		writeError(w, r, h.logger, badRequest("invalid product data"))
		return
	}

	stored, err := h.dashboardService.AddProduct(r.Context(), session.FromContext(r.Context()), *product)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// UpdateProduct handles PUT /products/{id}
//
// swagger:route PUT /products/{id} products updateProduct
//
// Updates an existing product.
//
// Responses:
//
//	200: productResponse
//	400: errorResponse
//	404: errorResponse
//	422: validationErrorResponse
func (h *DashboardHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	product, ok := r.Context().Value(ContextKeyProduct).(*domain.Product)
	if !ok {
		writeError(w, r, h.logger, badRequest("invalid product data"))
		return
	}
	product.ID = id

	stored, err := h.dashboardService.UpdateProduct(r.Context(), session.FromContext(r.Context()), *product)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// DeleteProduct handles DELETE /products/{id}
//
// swagger:route DELETE /products/{id} products deleteProduct
//
// Deletes a product.
//
// Responses:
//
//	204: noContentResponse
//	404: errorResponse
func (h *DashboardHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.dashboardService.DeleteProduct(r.Context(), session.FromContext(r.Context()), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, badRequest("invalid %s", name)
	}
	return n, nil
}

// queryPage returns the page query parameter, or 0 when it is absent.
func queryPage(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, badRequest("invalid page %q", raw)
	}
	return n, nil
}

func cursorFromQuery(r *http.Request) (listing.Cursor, error) {
	page, err := queryPage(r)
	if err != nil {
		return listing.Cursor{}, err
	}
	cursor := listing.NewCursor().WithQuery(r.URL.Query().Get("q"))
	if page > 0 {
		cursor = cursor.WithPage(page)
	}
	return cursor, nil
}
