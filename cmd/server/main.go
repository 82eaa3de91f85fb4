package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/stockroom/internal/domain"
	"github.com/kahvecikaan/stockroom/internal/events"
	"github.com/kahvecikaan/stockroom/internal/fallback"
	"github.com/kahvecikaan/stockroom/internal/inventory"
	"github.com/kahvecikaan/stockroom/internal/service"
	httpTransport "github.com/kahvecikaan/stockroom/internal/transport/http"
	websocketTransport "github.com/kahvecikaan/stockroom/internal/transport/websocket"
	"github.com/nicholasjackson/env"
)

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":9090", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"debug", "Log output level for the server [debug, info, trace]")
	inventoryURL = env.String("INVENTORY_API_URL", false,
		"http://127.0.0.1:8000/api", "Base URL of the inventory API")
	upstreamTimeout = env.String("UPSTREAM_TIMEOUT", false,
		"10s", "Timeout for calls to the inventory API")
	fallbackDir = env.String("FALLBACK_DIR", false,
		"./data", "Directory for withdrawals kept locally, empty keeps them in memory")
	dashboardPageSize = env.Int("DASHBOARD_PAGE_SIZE", false,
		8, "Products per page on the dashboard and analytics views")
	bonPageSize = env.Int("BON_PAGE_SIZE", false,
		3, "Products per page in the bon product picker")
	corsOrigins = env.String("CORS_ALLOWED_ORIGINS", false,
		"http://localhost:3000", "Comma separated origins allowed to call the API")
)

// maxFallbackSize bounds the local withdrawal log.
const maxFallbackSize = 5 << 20

func main() {
	env.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "stockroom",
		Level: hclog.LevelFromString(*logLevel),
	})

	// Create a standard logger for the HTTP server
	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	// Initialize the event bus - this will be shared between services
	eventBus := events.NewEventBus[any]()

	timeout, err := time.ParseDuration(*upstreamTimeout)
	if err != nil {
		logger.Error("Invalid UPSTREAM_TIMEOUT", "value", *upstreamTimeout, "error", err)
		os.Exit(1)
	}

	client, err := inventory.NewClient(
		*inventoryURL,
		&http.Client{Timeout: timeout},
		logger.Named("inventory-client"),
	)
	if err != nil {
		logger.Error("Invalid inventory API configuration", "error", err)
		os.Exit(1)
	}

	store, err := newFallbackStore(*fallbackDir)
	if err != nil {
		logger.Error("Unable to create fallback store", "dir", *fallbackDir, "error", err)
		os.Exit(1)
	}
	bonLog := fallback.NewBonLog(store, logger.Named("fallback"))

	ds := service.NewDashboardService(
		client,
		eventBus,
		logger.Named("dashboard-service"),
		*dashboardPageSize,
	)

	bs := service.NewBonService(
		client,
		bonLog,
		eventBus,
		logger.Named("bon-service"),
		*bonPageSize,
	)

	validator := domain.NewValidation()

	dh := httpTransport.NewDashboardHandler(ds, logger.Named("http-handler"))
	bh := httpTransport.NewBonHandler(bs, logger.Named("http-handler"))

	origins := splitOrigins(*corsOrigins)
	wh := websocketTransport.NewHandler(
		logger.Named("websocket-handler"),
		eventBus,
		origins,
	)

	corsConfig := httpTransport.DefaultCORSConfig()
	corsConfig.AllowedOrigins = origins

	router := httpTransport.NewRouter(dh, bh, validator, logger, wh, corsConfig)

	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      httpTransport.NewHandler(router, logger),
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: timeout + 10*time.Second, // submissions wait on the inventory API
	}

	go func() {
		logger.Info("Starting server", "bind_address", *bindAddress, "inventory_api", *inventoryURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Error starting server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", "error", err)
	}
}

// newFallbackStore keeps local withdrawals on disk, or in memory when no
// directory is configured.
func newFallbackStore(dir string) (fallback.Storage, error) {
	if dir == "" {
		return fallback.NewMemory(), nil
	}
	local, err := fallback.NewLocal(dir, maxFallbackSize)
	if err != nil {
		return nil, err
	}
	return local, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
