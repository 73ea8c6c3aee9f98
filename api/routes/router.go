package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/storefront"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	readiness map[string]controllers.Pinger,
	storefrontService storefront.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.CatalogProducts(storefrontService, logg))
		r.Get("/products/{productId}", controllers.CatalogProduct(storefrontService, logg))
		r.Get("/categories", controllers.CatalogCategories(storefrontService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(cfg.Session, logg))

			r.Get("/session", controllers.SessionGet(storefrontService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Delete("/", controllers.CartClear(storefrontService, logg))
				r.Post("/items", controllers.CartAddItem(storefrontService, logg))
				r.Put("/items", controllers.CartSetQuantity(storefrontService, logg))
				r.Delete("/items", controllers.CartRemoveItem(storefrontService, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutOpen(storefrontService, logg))
				r.Delete("/", controllers.CheckoutCancel(storefrontService, logg))
				r.Post("/submit", controllers.CheckoutSubmit(storefrontService, logg))
			})

			r.Delete("/order", controllers.OrderDismiss(storefrontService, logg))
		})
	})

	return r
}
