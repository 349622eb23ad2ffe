package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/internal/pricing"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/health"
	"github.com/Sohaib-Ahmed869/PQF-Web-Frontend-sub002/pkg/middleware"
)

// ServiceName labels metrics and spans emitted by the router.
const ServiceName = "storefront-bff"

// RouterConfig carries everything NewRouter wires.
type RouterConfig struct {
	Sessions   Sessions
	Categories Categories
	Prices     pricing.Resolver
	Health     *health.Handler
	Logger     *slog.Logger
	CORS       middleware.CORSConfig
	// PprofCIDRs enables /debug/pprof for these networks when non-empty.
	PprofCIDRs []string
	// Metrics serves /metrics; defaults to the global Prometheus registry.
	Metrics http.Handler
}

// NewRouter creates a chi router with all storefront BFF routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	metricsHandler := cfg.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(ServiceName))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", metricsHandler)

	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)
	}

	sessionHandler := NewSessionHandler(cfg.Sessions, logger)
	wishlistHandler := NewWishlistHandler(logger)
	cartHandler := NewCartHandler(logger)
	catalogHandler := NewCatalogHandler(cfg.Categories, cfg.Prices, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/session", sessionHandler.Create)
		r.Post("/catalog/derive", catalogHandler.Derive)
		r.Post("/pricing/resolve", catalogHandler.Resolve)
		r.Get("/categories", catalogHandler.Categories)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(cfg.Sessions, logger))

			r.Get("/session", sessionHandler.Get)
			r.Delete("/session", sessionHandler.Delete)
			r.Post("/session/login", sessionHandler.Login)
			r.Post("/session/logout", sessionHandler.Logout)

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.List)
				r.Delete("/", wishlistHandler.Clear)
				r.Get("/{id}", wishlistHandler.Get)
				r.Put("/{id}", wishlistHandler.Add)
				r.Delete("/{id}", wishlistHandler.Remove)
				r.Post("/{id}/toggle", wishlistHandler.Toggle)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.List)
				r.Delete("/", cartHandler.Clear)
				r.Get("/{id}", cartHandler.Get)
				r.Put("/{id}", cartHandler.SetQuantity)
				r.Post("/{id}", cartHandler.Add)
				r.Delete("/{id}", cartHandler.Remove)
			})
		})
	})

	return r
}
