package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medsup-innovation/medsup-backend/api/controllers"
	"github.com/medsup-innovation/medsup-backend/api/middleware"
	authsvc "github.com/medsup-innovation/medsup-backend/internal/auth"
	customersvc "github.com/medsup-innovation/medsup-backend/internal/customers"
	dashboardsvc "github.com/medsup-innovation/medsup-backend/internal/dashboard"
	inventorysvc "github.com/medsup-innovation/medsup-backend/internal/inventory"
	ordersvc "github.com/medsup-innovation/medsup-backend/internal/orders"
	productsvc "github.com/medsup-innovation/medsup-backend/internal/products"
	suppliersvc "github.com/medsup-innovation/medsup-backend/internal/suppliers"
	"github.com/medsup-innovation/medsup-backend/pkg/config"
	"github.com/medsup-innovation/medsup-backend/pkg/db"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/metrics"
	"github.com/medsup-innovation/medsup-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth      authsvc.Service
	Products  productsvc.Service
	Customers customersvc.Service
	Orders    ordersvc.Service
	Inventory inventorysvc.Service
	Suppliers suppliersvc.Service
	Dashboard dashboardsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Get("/api/health", controllers.Health())
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(logg, readinessDeps(dbClient, redisClient)))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	if cfg.Uploads.Dir != "" {
		prefix := cfg.Uploads.PublicBase
		if prefix == "" {
			prefix = "/uploads"
		}
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Uploads.Dir)))
		r.Method(http.MethodGet, prefix+"/*", fs)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.Me(svcs.Auth, logg))
	})

	catalogWriters := []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleManager, enums.UserRoleInventory}
	salesWriters := []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleManager, enums.UserRoleSales}
	deleters := []enums.UserRole{enums.UserRoleAdmin, enums.UserRoleManager}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/dashboard", controllers.GetDashboard(svcs.Dashboard, logg))
		r.Get("/dashboard/alerts", controllers.GetDashboardAlerts(svcs.Dashboard, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/meta/categories", controllers.ListProductCategories(svcs.Products, logg))
			r.Get("/{id}", controllers.GetProduct(svcs.Products, logg))
			r.With(middleware.RequireRole(logg, catalogWriters...)).Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.With(middleware.RequireRole(logg, catalogWriters...)).Put("/{id}", controllers.UpdateProduct(svcs.Products, logg))
			r.With(middleware.RequireRole(logg, catalogWriters...)).Post("/upload/{id}", controllers.UploadProductImage(svcs.Products, logg, cfg.Uploads.MaxUploadMB))
			r.With(middleware.RequireRole(logg, deleters...)).Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/{id}", controllers.GetCustomer(svcs.Customers, logg))
			r.With(middleware.RequireRole(logg, salesWriters...)).Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.With(middleware.RequireRole(logg, salesWriters...)).Put("/{id}", controllers.UpdateCustomer(svcs.Customers, logg))
			r.With(middleware.RequireRole(logg, deleters...)).Delete("/{id}", controllers.DeleteCustomer(svcs.Customers, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(svcs.Orders, logg))
			r.With(middleware.RequireRole(logg, salesWriters...)).Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.With(middleware.RequireRole(logg, salesWriters...)).Put("/{id}", controllers.UpdateOrder(svcs.Orders, logg))
			r.With(middleware.RequireRole(logg, salesWriters...)).Put("/{id}/status", controllers.UpdateOrderStatus(svcs.Orders, logg))
			r.With(middleware.RequireRole(logg, deleters...)).Delete("/{id}", controllers.DeleteOrder(svcs.Orders, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.ListInventory(svcs.Inventory, logg))
			r.Get("/alerts", controllers.GetInventoryAlerts(svcs.Inventory, logg))
			r.Get("/stats", controllers.GetInventoryStats(svcs.Inventory, logg))
			r.Get("/{id}", controllers.GetInventory(svcs.Inventory, logg))
			r.With(middleware.RequireRole(logg, catalogWriters...)).Post("/", controllers.CreateInventory(svcs.Inventory, logg))
			r.With(middleware.RequireRole(logg, catalogWriters...)).Put("/{id}", controllers.UpdateInventory(svcs.Inventory, logg))
			r.With(middleware.RequireRole(logg, catalogWriters...)).Put("/{id}/stock", controllers.AdjustStock(svcs.Inventory, logg))
			r.With(middleware.RequireRole(logg, deleters...)).Delete("/{id}", controllers.DeleteInventory(svcs.Inventory, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.ListSuppliers(svcs.Suppliers, logg))
			r.Get("/{id}", controllers.GetSupplier(svcs.Suppliers, logg))
		})
	})

	return r
}

func readinessDeps(dbClient *db.Client, redisClient *redis.Client) map[string]controllers.Pinger {
	deps := make(map[string]controllers.Pinger, 2)
	if dbClient != nil {
		deps["database"] = dbClient
	}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	return deps
}
