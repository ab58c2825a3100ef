package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/sliceworks/pizzeria-backend/api/routes"
	"github.com/sliceworks/pizzeria-backend/internal/cart"
	"github.com/sliceworks/pizzeria-backend/internal/catalog"
	"github.com/sliceworks/pizzeria-backend/internal/checkout"
	"github.com/sliceworks/pizzeria-backend/internal/deals"
	"github.com/sliceworks/pizzeria-backend/internal/notifications"
	"github.com/sliceworks/pizzeria-backend/internal/orders"
	"github.com/sliceworks/pizzeria-backend/internal/pricing"
	"github.com/sliceworks/pizzeria-backend/internal/tracking"
	"github.com/sliceworks/pizzeria-backend/pkg/config"
	"github.com/sliceworks/pizzeria-backend/pkg/db"
	"github.com/sliceworks/pizzeria-backend/pkg/logger"
	"github.com/sliceworks/pizzeria-backend/pkg/metrics"
	"github.com/sliceworks/pizzeria-backend/pkg/migrate"
	"github.com/sliceworks/pizzeria-backend/pkg/redis"
	"github.com/sliceworks/pizzeria-backend/pkg/stripe"
)

const shutdownTimeout = 15 * time.Second

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)
	rates := pricing.RatesFromConfig(cfg.Pricing)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	dealsService, err := deals.NewService(catalogService, rates, time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create deals service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartStore, catalogService, dealsService, rates)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	simulator, err := tracking.NewSimulator(logg, storefrontMetrics, cfg.Tracking.TickInterval)
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking simulator", err)
		os.Exit(1)
	}

	notifier := notifications.NewNotifier(cfg.Notify, logg)

	checkoutService, err := checkout.NewService(checkout.Params{
		Carts:    cartService,
		Orders:   ordersService,
		Gateway:  stripeClient,
		Tracker:  simulator,
		Notifier: notifier,
		Logger:   logg,
		Metrics:  storefrontMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Registry: registry,
			Catalog:  catalogService,
			Deals:    dealsService,
			Cart:     cartService,
			Orders:   ordersService,
			Checkout: checkoutService,
			Tracker:  simulator,
			Rates:    rates,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
	}

	simulator.Shutdown()

	closeErr := multierr.Combine(redisClient.Close(), dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing clients", closeErr)
		os.Exit(1)
	}
}
