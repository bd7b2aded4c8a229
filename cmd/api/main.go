package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medsup-innovation/medsup-backend/api/responses"
	"github.com/medsup-innovation/medsup-backend/api/routes"
	"github.com/medsup-innovation/medsup-backend/internal/auth"
	"github.com/medsup-innovation/medsup-backend/internal/customers"
	"github.com/medsup-innovation/medsup-backend/internal/dashboard"
	"github.com/medsup-innovation/medsup-backend/internal/inventory"
	"github.com/medsup-innovation/medsup-backend/internal/orders"
	"github.com/medsup-innovation/medsup-backend/internal/products"
	"github.com/medsup-innovation/medsup-backend/internal/suppliers"
	"github.com/medsup-innovation/medsup-backend/pkg/config"
	"github.com/medsup-innovation/medsup-backend/pkg/db"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/metrics"
	"github.com/medsup-innovation/medsup-backend/pkg/migrate"
	"github.com/medsup-innovation/medsup-backend/pkg/redis"
	"github.com/medsup-innovation/medsup-backend/pkg/storage/local"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	responses.SetDebugDetails(cfg.App.IsDev())

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storageClient, err := local.NewClient(cfg.Uploads)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	authService, err := auth.NewService(auth.NewRepository(dbClient.DB()), cfg.JWT, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), dbClient, storageClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customers.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, cfg.Pricing, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	supplierService, err := suppliers.NewService(suppliers.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create supplier service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(dbClient.DB()), inventoryService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, metricsHandler, routes.Services{
			Auth:      authService,
			Products:  productService,
			Customers: customerService,
			Orders:    orderService,
			Inventory: inventoryService,
			Suppliers: supplierService,
			Dashboard: dashboardService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
