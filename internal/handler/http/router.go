package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/productspec/internal/pages"
	"github.com/utafrali/productspec/internal/store"
	"github.com/utafrali/productspec/pkg/health"
	"github.com/utafrali/productspec/pkg/middleware"
)

const serviceName = "productspec"

// maxRequestBody bounds API payloads; inline images are the usual offender.
const maxRequestBody = 4 << 20

// RateLimit bounds writes to the store API. A zero RPS disables it.
type RateLimit struct {
	RPS   float64
	Burst int
}

// NewRouter creates a chi router with the page views, the store API and the
// operational endpoints registered.
func NewRouter(
	s *store.Store,
	pageRouter *pages.Router,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsOrigins []string,
	limit RateLimit,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(corsOrigins)))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Store API endpoints
	storeHandler := NewStoreHandler(s, logger)

	r.Route("/api/v1/store", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(MaxBodySize(maxRequestBody))
		r.Use(middleware.RateLimit(limit.RPS, limit.Burst, logger))

		r.Get("/", storeHandler.GetSnapshot)
		r.Delete("/", storeHandler.Clear)

		r.Put("/product", storeHandler.SetProduct)

		r.Put("/specs", storeHandler.SetSpecs)
		r.Post("/specs", storeHandler.AddSpec)

		r.Put("/variants", storeHandler.SetVariants)
		r.Post("/variants/generate", storeHandler.GenerateVariants)
		r.Patch("/variants/{id}/quantity", storeHandler.UpdateVariantQuantity)
	})

	// Page views; anything unmatched gets the not-found view.
	pageHandler := NewPageHandler(pageRouter, s, logger)
	for _, route := range pageRouter.Routes() {
		r.Method(http.MethodGet, route.Path, pageHandler)
	}
	r.NotFound(pageHandler.ServeHTTP)

	return r
}
