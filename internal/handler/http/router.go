package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YousefAboschwaly/ecommerce-V2/internal/service"
	"github.com/YousefAboschwaly/ecommerce-V2/internal/session"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/health"
	"github.com/YousefAboschwaly/ecommerce-V2/pkg/middleware"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Auth     *service.AuthService
	Carts    *service.CartService
	Wishlist *service.WishlistService
	Checkout *service.CheckoutService
	Catalog  *service.CatalogService
	Sessions *session.Manager
	Health   *health.Handler
	Logger   *slog.Logger

	CORS         middleware.CORSConfig
	SecureCookie bool
	SessionTTL   time.Duration
	PprofCIDRs   []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.CORS(deps.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, deps.PprofCIDRs, deps.Logger)

	authHandler := NewAuthHandler(deps.Auth, deps.Logger, deps.SecureCookie, deps.SessionTTL)
	cartHandler := NewCartHandler(deps.Carts, deps.Logger)
	wishlistHandler := NewWishlistHandler(deps.Wishlist, deps.Logger)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.Logger)
	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes: catalog browsing and account creation.
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)

		r.Get("/products", catalogHandler.Products)
		r.Get("/products/{productID}", catalogHandler.Product)
		r.Get("/categories", catalogHandler.Categories)
		r.Get("/brands", catalogHandler.Brands)

		// Session-bound routes: everything touching cart, wishlist, or orders.
		r.Group(func(r chi.Router) {
			r.Use(RequireSession(deps.Sessions, deps.Logger))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.Get)
				r.Delete("/", cartHandler.Clear)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{lineID}", cartHandler.UpdateQuantity)
				r.Post("/items/{lineID}/decrement", cartHandler.Decrement)
				r.Delete("/items/{lineID}", cartHandler.RemoveItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.Get)
				r.Post("/items", wishlistHandler.AddItem)
				r.Delete("/items/{productID}", wishlistHandler.RemoveItem)
			})

			r.Post("/checkout", checkoutHandler.Checkout)
			r.Get("/orders", checkoutHandler.Orders)
		})
	})

	return r
}
