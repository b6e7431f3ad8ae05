package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuskart/campuskart-backend/api/controllers"
	"github.com/campuskart/campuskart-backend/api/middleware"
	"github.com/campuskart/campuskart-backend/internal/commission"
	"github.com/campuskart/campuskart-backend/internal/dispatch"
	"github.com/campuskart/campuskart-backend/internal/locations"
	"github.com/campuskart/campuskart-backend/internal/orders"
	"github.com/campuskart/campuskart-backend/internal/users"
	"github.com/campuskart/campuskart-backend/internal/vendors"
	"github.com/campuskart/campuskart-backend/internal/wallet"
	"github.com/campuskart/campuskart-backend/pkg/config"
	"github.com/campuskart/campuskart-backend/pkg/enums"
	"github.com/campuskart/campuskart-backend/pkg/logger"
)

// Deps bundles everything the router needs. The dispatcher hub and the
// prometheus gatherer are constructed in cmd/api and handed in, never
// reached for globally.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    controllers.Pinger
	Hub      *dispatch.Hub
	Gatherer prometheus.Gatherer

	Orders     orders.Service
	Locations  locations.Service
	Vendors    vendors.Service
	Users      users.Service
	Wallet     wallet.Service
	Commission commission.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	r.Get("/ping", controllers.PublicPing())
	r.Get("/locations", controllers.ListLocations(d.Locations, logg))
	r.Get("/vendors", controllers.ListVendors(d.Vendors, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", controllers.RegisterUser(d.Users, logg))
			r.Get("/me", controllers.MyProfile(d.Users, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(d.Orders, logg))
			r.Get("/mine", controllers.ListMyOrders(d.Orders, logg))
			r.With(middleware.RequireRole(logg, enums.RoleVendor)).
				Get("/vendor", controllers.ListVendorOrders(d.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(d.Orders, logg))
			r.Put("/{orderID}/status", controllers.UpdateOrderStatus(d.Orders, logg))
			r.Post("/{orderID}/pay", controllers.PayOrder(d.Orders, logg))
		})

		r.Route("/delivery", func(r chi.Router) {
			r.Get("/available", controllers.ListAvailableDeliveries(d.Orders, logg))
			r.Get("/mine", controllers.ListMyDeliveries(d.Orders, logg))
			r.Get("/stream", controllers.StreamDeliveries(d.Hub, heartbeat(cfg), logg))
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/my-wallet", controllers.MyWallet(d.Wallet, logg))
			r.Get("/commission", controllers.GetCommission(d.Commission, logg))
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", controllers.RegisterVendor(d.Vendors, logg))
			r.With(middleware.RequireRole(logg, enums.RoleVendor)).
				Get("/me", controllers.MyVendor(d.Vendors, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.RoleAdmin))
		r.Get("/ping", controllers.AdminPing())

		r.Get("/orders", controllers.AdminListOrders(d.Orders, logg))

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.AdminListLocations(d.Locations, logg))
			r.Post("/", controllers.CreateLocation(d.Locations, logg))
			r.Put("/{locationID}/availability", controllers.SetLocationAvailability(d.Locations, logg))
			r.Delete("/{locationID}", controllers.DeleteLocation(d.Locations, logg))
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Post("/add-funds", controllers.AddFunds(d.Wallet, logg))
			r.Put("/commission", controllers.UpdateCommission(d.Commission, logg))
			r.Get("/earnings", controllers.SystemEarnings(d.Wallet, logg))
			r.Get("/users", controllers.SearchUsers(d.Users, logg))
		})

		r.Post("/vendors/{vendorID}/verify", controllers.SetVendorVerified(d.Vendors, logg))
	})

	return r
}

func heartbeat(cfg *config.Config) time.Duration {
	if cfg == nil {
		return 25 * time.Second
	}
	return cfg.Dispatch.HeartbeatInterval
}
