package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/Skotchmaster/neotech_storefront/internal/account"
	"github.com/Skotchmaster/neotech_storefront/internal/analytics"
	"github.com/Skotchmaster/neotech_storefront/internal/apiclient"
	"github.com/Skotchmaster/neotech_storefront/internal/auth"
	"github.com/Skotchmaster/neotech_storefront/internal/cart"
	"github.com/Skotchmaster/neotech_storefront/internal/catalog"
	"github.com/Skotchmaster/neotech_storefront/internal/checkout"
	"github.com/Skotchmaster/neotech_storefront/internal/config"
	"github.com/Skotchmaster/neotech_storefront/internal/events"
	"github.com/Skotchmaster/neotech_storefront/internal/httpserver"
	"github.com/Skotchmaster/neotech_storefront/internal/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/metrics"
	loggingmw "github.com/Skotchmaster/neotech_storefront/internal/middleware/logging"
	"github.com/Skotchmaster/neotech_storefront/internal/navigation"
	"github.com/Skotchmaster/neotech_storefront/internal/orders"
	"github.com/Skotchmaster/neotech_storefront/internal/payment"
	"github.com/Skotchmaster/neotech_storefront/internal/preferences"
	"github.com/Skotchmaster/neotech_storefront/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "profile", cfg.Profile)
	ctx := logging.IntoContext(context.Background(), logger)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := storage.Open(initCtx, storage.Options{
		Driver:    cfg.StorageDriver,
		DSN:       cfg.StorageDSN,
		RedisURL:  cfg.RedisURL,
		Namespace: cfg.Profile,
	})
	cancel()
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var (
		pub      events.Publisher = events.Nop{}
		producer *events.Producer
	)
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer = events.NewProducer(brokers, cfg.EventsTopic, cfg.Profile, logger)
		pub = producer
		logger.Info("events enabled", "brokers", brokers, "topic", cfg.EventsTopic)
	}

	api := apiclient.NewClient(cfg.BackendURL, cfg.BackendTimeout, apiclient.WithObserver(m))

	authStore := auth.New(store, api, pub)
	cartStore := cart.New(ctx, store, pub)
	prefs := preferences.New(ctx, store)
	gateway := payment.NewStub(cfg.PaymentMode == config.PaymentDecline)

	deps := httpserver.Deps{
		Cart:      cartStore,
		Auth:      authStore,
		Checkout:  checkout.NewFlow(cartStore, authStore, api, gateway, pub),
		Nav:       navigation.NewStore("/"),
		Prefs:     prefs,
		Account:   account.NewService(api, authStore),
		Catalog:   catalog.NewService(api, authStore),
		Orders:    orders.NewService(api, authStore),
		Analytics: analytics.NewService(api, authStore),
		Metrics:   m,
	}

	bootCtx, bootCancel := context.WithTimeout(ctx, 10*time.Second)
	authStore.Bootstrap(bootCtx)
	bootCancel()

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("starting storefront", "addr", cfg.ListenAddr, "backend", cfg.BackendURL, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		log.Println("force exit")
		os.Exit(1)
	}()

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	err = srv.Shutdown(shutdownCtx)
	if producer != nil {
		err = multierr.Append(err, producer.Close())
	}
	err = multierr.Append(err, store.Close())
	for _, cerr := range multierr.Errors(err) {
		logger.Error("shutdown error", "error", cerr)
	}

	logger.Info("shutdown complete")
}
