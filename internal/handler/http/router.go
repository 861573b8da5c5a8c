package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phamkhoa1373/E-commerce/internal/backend"
	"github.com/phamkhoa1373/E-commerce/internal/cart"
	"github.com/phamkhoa1373/E-commerce/internal/config"
	"github.com/phamkhoa1373/E-commerce/internal/proxy"
	"github.com/phamkhoa1373/E-commerce/pkg/health"
	"github.com/phamkhoa1373/E-commerce/pkg/middleware"
)

// NewRouter assembles the storefront HTTP surface: the cart, selection,
// checkout and auth endpoints, plus the passthrough routes proxied straight
// to the shop backend.
func NewRouter(
	cfg *config.Config,
	cartService *cart.Service,
	api backend.ShopAPI,
	shopProxy *proxy.ShopProxy,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cartService, logger)
	checkoutHandler := NewCheckoutHandler(cartService, logger)
	authHandler := NewAuthHandler(api, cartService, logger)

	auth := JWTAuth(cfg.JWTSecret, logger)

	// Public auth passthrough.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
		r.With(auth).Post("/logout", authHandler.Logout)
	})

	// Session cart and checkout.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(auth)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddItem)
		r.Post("/items/{productID}/increase", cartHandler.IncreaseItem)
		r.Post("/items/{productID}/decrease", cartHandler.DecreaseItem)
		r.Delete("/items/{productID}", cartHandler.RemoveItem)

		r.Put("/selection", cartHandler.ReplaceSelection)
		r.Post("/selection/all", cartHandler.SelectAll)
		r.Post("/selection/{productID}", cartHandler.ToggleSelection)
	})

	r.With(ContentTypeJSON, auth).Post("/api/v1/checkout", checkoutHandler.Checkout)

	// Catalog reads pass straight through. Writes are admin-only.
	catalog := func(r chi.Router) {
		r.Get("/", shopProxy.ServeHTTP)
		r.Get("/*", shopProxy.ServeHTTP)

		admin := r.With(auth, RequireAdmin)
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			admin.Method(method, "/", shopProxy)
			admin.Method(method, "/*", shopProxy)
		}
	}
	r.Route("/api/v1/products", catalog)
	r.Route("/api/v1/categories", catalog)
	r.Get("/api/v1/search", shopProxy.ServeHTTP)

	// Order reads and history require a session; the backend scopes them by
	// the ids carried in the path and query.
	r.With(auth).Handle("/api/v1/orders", shopProxy)
	r.With(auth).Handle("/api/v1/orders/*", shopProxy)
	r.With(auth).Handle("/api/v1/history", shopProxy)
	r.With(auth).Handle("/api/v1/history/*", shopProxy)

	return r
}
