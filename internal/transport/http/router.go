package http

import (
	_ "embed"
	"net/http"

	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/domain"
	websocketTransport "github.com/kahvecikaan/stockroom/internal/transport/websocket"
)

//go:embed swagger.yaml
var swaggerSpec []byte

func NewRouter(
	dh *DashboardHandler,
	bh *BonHandler,
	validator *domain.Validation,
	logger hclog.Logger,
	wsh *websocketTransport.Handler,
	corsConfig *CORSConfig,
) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = notFoundHandler()
	router.MethodNotAllowedHandler = methodNotAllowedHandler()

	mw := NewMiddleware(logger, validator, corsConfig)

	router.Use(mw.LoggingMiddleware)
	router.Use(mw.CORSMiddleware)

	// Preflight requests are answered by the CORS middleware. A Methods
	// matcher here would turn every unknown path into a 405.
	router.MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
		return r.Method == http.MethodOptions
	}).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.HandleFunc("/health", dh.Health).Methods("GET")
	router.HandleFunc("/ws", wsh.HandleWebSocket).Methods("GET")

	router.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(swaggerSpec)
	}).Methods("GET")

	swaggerOpts := middleware.RedocOpts{SpecURL: "/swagger.yaml"}
	router.Handle("/docs", middleware.Redoc(swaggerOpts, nil)).Methods("GET")

	// JSON API; every handler below sees the caller's session
	api := router.NewRoute().Subrouter()
	api.Use(mw.ContentTypeMiddleware)
	api.Use(mw.SessionMiddleware)

	api.HandleFunc("/dashboard/stats", dh.Stats).Methods("GET")
	api.HandleFunc("/analytics", dh.Analytics).Methods("GET")
	api.HandleFunc("/products", dh.GetProducts).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", dh.GetProductByID).Methods("GET")
	api.HandleFunc("/products/{id:[0-9]+}", dh.DeleteProduct).Methods("DELETE")

	// Routes requiring validation middleware (for request body validation)
	postRouter := api.Methods("POST").Subrouter()
	postRouter.HandleFunc("/products", dh.AddProduct)
	postRouter.Use(mw.ValidationMiddleware)

	putRouter := api.Methods("PUT").Subrouter()
	putRouter.HandleFunc("/products/{id:[0-9]+}", dh.UpdateProduct)
	putRouter.Use(mw.ValidationMiddleware)

	api.HandleFunc("/drafts", bh.OpenDraft).Methods("POST")
	api.HandleFunc("/drafts/{id}", bh.GetDraft).Methods("GET")
	api.HandleFunc("/drafts/{id}", bh.UpdateDraft).Methods("PATCH")
	api.HandleFunc("/drafts/{id}", bh.CloseDraft).Methods("DELETE")
	api.HandleFunc("/drafts/{id}/products", bh.DraftProducts).Methods("GET")
	api.HandleFunc("/drafts/{id}/refresh", bh.RefreshDraft).Methods("POST")
	api.HandleFunc("/drafts/{id}/submit", bh.SubmitDraft).Methods("POST")
	api.HandleFunc("/drafts/{id}/items/{pid:[0-9]+}", bh.SetItemQuantity).Methods("PUT")
	api.HandleFunc("/drafts/{id}/items/{pid:[0-9]+}", bh.RemoveItem).Methods("DELETE")
	api.HandleFunc("/drafts/{id}/items/{pid:[0-9]+}/toggle", bh.ToggleItem).Methods("POST")
	api.HandleFunc("/drafts/{id}/items/{pid:[0-9]+}/increment", bh.IncrementItem).Methods("POST")
	api.HandleFunc("/drafts/{id}/items/{pid:[0-9]+}/decrement", bh.DecrementItem).Methods("POST")
	api.HandleFunc("/bon", bh.SubmitSingle).Methods("POST")
	api.HandleFunc("/bons/local", bh.LocalBons).Methods("GET")

	return router
}
