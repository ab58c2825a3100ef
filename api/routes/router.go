package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sliceworks/pizzeria-backend/api/controllers"
	"github.com/sliceworks/pizzeria-backend/api/middleware"
	"github.com/sliceworks/pizzeria-backend/internal/cart"
	"github.com/sliceworks/pizzeria-backend/internal/catalog"
	"github.com/sliceworks/pizzeria-backend/internal/checkout"
	"github.com/sliceworks/pizzeria-backend/internal/deals"
	"github.com/sliceworks/pizzeria-backend/internal/orders"
	"github.com/sliceworks/pizzeria-backend/internal/pricing"
	"github.com/sliceworks/pizzeria-backend/internal/tracking"
	"github.com/sliceworks/pizzeria-backend/pkg/config"
	"github.com/sliceworks/pizzeria-backend/pkg/db"
	"github.com/sliceworks/pizzeria-backend/pkg/enums"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
	"github.com/sliceworks/pizzeria-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *redis.Client
	Registry *prometheus.Registry

	Catalog  catalog.Service
	Deals    deals.Service
	Cart     cart.Service
	Orders   orders.Service
	Checkout checkout.Service
	Tracker  *tracking.Simulator
	Rates    pricing.Rates
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.Menu(d.Catalog, logg))
			r.Get("/ingredients", controllers.Ingredients(d.Catalog, logg))
			r.Post("/custom-pizza/quote", controllers.CustomPizzaQuote(d.Catalog, d.Rates, logg))
		})

		r.Route("/deals", func(r chi.Router) {
			r.Get("/", controllers.ActiveDeals(d.Catalog, logg))
			r.Post("/quote", controllers.DealQuote(d.Deals, logg))
			r.Get("/schools", controllers.SchoolSearch(logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(d.Cart, logg))
			r.Post("/items", controllers.CartAddItem(d.Cart, logg))
			r.Post("/custom-pizzas", controllers.CartAddCustomPizza(d.Cart, logg))
			r.Post("/deals", controllers.CartAddDeal(d.Cart, logg))
			r.Post("/lines/{lineID}/decrement", controllers.CartDecrementLine(d.Cart, logg))
			r.Delete("/lines/{lineID}", controllers.CartRemoveLine(d.Cart, logg))
			r.Delete("/", controllers.CartClear(d.Cart, logg))
			r.Put("/fulfillment", controllers.CartSetFulfillment(d.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutInitiate(d.Checkout, logg))
			r.Get("/success", controllers.CheckoutSuccess(d.Checkout, logg))
			r.Get("/cancel", controllers.CheckoutCancel(d.Checkout, logg))
		})

		r.Route("/tracking", func(r chi.Router) {
			r.Get("/", controllers.TrackingStatus(d.Tracker, logg))
			r.Post("/advance", controllers.TrackingAdvance(d.Tracker, logg))
			r.Post("/reset", controllers.TrackingReset(d.Tracker, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.StaffAdmin, logg))

		r.Put("/items", controllers.AdminUpsertItem(d.Catalog, logg))
		r.Post("/items/{itemID}/deactivate", controllers.AdminDeactivateItem(d.Catalog, logg))
		r.Put("/deals", controllers.AdminUpsertDeal(d.Catalog, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(d.Orders, logg))
			r.Get("/{orderID}", controllers.AdminGetOrder(d.Orders, logg))
		})
	})

	return r
}
