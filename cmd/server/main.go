package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/avilaj/tienda/internal"
	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
	"github.com/avilaj/tienda/internal/email"
	"github.com/avilaj/tienda/internal/handler"
	"github.com/avilaj/tienda/internal/middleware"
	"github.com/avilaj/tienda/internal/payment"
	"github.com/avilaj/tienda/internal/router"
	"github.com/avilaj/tienda/internal/routes"
	"github.com/avilaj/tienda/internal/service"
	"github.com/avilaj/tienda/internal/shipping"
	"github.com/avilaj/tienda/internal/storage"
	"github.com/avilaj/tienda/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Open the embedded store
	logger.Info("Opening data store...", "dir", cfg.DataDir)
	store, err := storage.NewPebbleStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("store initialization failed: %w", err)
	}
	defer store.Close()

	// Backend API client
	client := backend.NewClient(cfg.Backend.BaseURL, backend.Timeouts{
		Standard: cfg.Backend.StandardTimeout,
		Long:     cfg.Backend.OrderTimeout,
		Email:    cfg.Backend.EmailTimeout,
	})

	// Payment provider
	var provider payment.Provider
	switch cfg.Payment.Provider {
	case "stripe":
		provider = payment.NewStripeProvider(
			cfg.Payment.StripeSecretKey,
			cfg.Payment.StripeSuccessURL,
			cfg.Payment.StripeCancelURL,
		)
		logger.Info("Payment provider initialized", "provider", "stripe")
	default:
		provider = payment.NewPreferenceProvider(client, cfg.Payment.GatewayRedirectBase)
		logger.Info("Payment provider initialized", "provider", "gateway")
	}

	// Metrics
	businessMetrics := telemetry.NewBusinessMetrics("tienda")

	// Shipping quoter against the store origin
	quoter := shipping.NewQuoter(
		domain.Coordinates{Lat: cfg.Shipping.OriginLat, Lng: cfg.Shipping.OriginLng},
		cfg.Shipping.BaseFee,
		cfg.Shipping.PerKmRate,
	)

	// Services
	cartService := service.NewCartService(store, cfg.Cart.MaxQuantity, businessMetrics, logger)
	savedAddresses := service.NewSavedAddressService(store, logger)
	addressService := service.NewAddressService(client, quoter, service.AddressConfig{
		MinQueryLength: cfg.Address.MinQueryLength,
		Debounce:       time.Duration(cfg.Address.DebounceMs) * time.Millisecond,
		SearchLimit:    cfg.Address.SearchLimit,
		FarDistanceKm:  cfg.Address.FarDistanceKm,
		Locality:       cfg.Address.Locality,
	}, businessMetrics, logger)
	checkoutService := service.NewCheckoutService(addressService)
	sender := email.NewBackendSender(client)
	orderService := service.NewOrderService(
		store,
		cartService,
		provider,
		client,
		sender,
		businessMetrics,
		time.Duration(cfg.Order.PaintDelayMs)*time.Millisecond,
		logger,
	)
	availabilityService := service.NewAvailabilityService(client, businessMetrics, cfg.Backend.PollInterval, logger)

	// Warm the cart and start the availability poller
	if err := cartService.Load(ctx); err != nil {
		return fmt.Errorf("cart load failed: %w", err)
	}
	availabilityService.Start(ctx)

	// HTTP surface
	httpMetrics := middleware.NewMetrics("tienda")

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		httpMetrics.Middleware,
		router.CORS(cfg.AllowedOrigins),
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
	)

	routes.Register(r, routes.Deps{
		Cart:           handler.NewCartHandler(cartService),
		Addresses:      handler.NewAddressHandler(addressService, savedAddresses, client),
		Checkout:       handler.NewCheckoutHandler(checkoutService, addressService),
		Orders:         handler.NewOrderHandler(orderService, checkoutService, availabilityService),
		Availability:   handler.NewAvailabilityHandler(availabilityService),
		Catalog:        handler.NewCatalogHandler(client),
		MetricsHandler: httpMetrics.Handler(),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "backend", cfg.Backend.BaseURL)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
