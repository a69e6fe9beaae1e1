package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/velora/storefront-cart/pkg/health"
	"github.com/velora/storefront-cart/pkg/middleware"

	"github.com/velora/storefront-cart/internal/service"
)

// RouterOptions carries the optional edges of the router.
type RouterOptions struct {
	// TokenValidator enables JWT bearer auth on the cart routes. When nil
	// the X-User-ID header from the API gateway is trusted instead.
	TokenValidator middleware.TokenValidator
	// PprofCIDRs allowlists access to the pprof debug endpoints.
	PprofCIDRs []string
	// RateLimitRPS/Burst enable per-client rate limiting when RPS > 0.
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all cart service routes registered.
func NewRouter(
	cartService *service.CartService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("cart"))
	r.Use(middleware.Tracing("cart"))
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	middleware.RegisterPprof(r, opts.PprofCIDRs, logger)

	cartHandler := NewCartHandler(cartService, logger)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.CORS)
		if opts.RateLimitRPS > 0 {
			r.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, logger))
		}
		r.Use(ContentTypeJSON)
		if opts.TokenValidator != nil {
			r.Use(middleware.Auth(opts.TokenValidator))
		}
		r.Use(ResolveUserID)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)
	})

	return r
}
