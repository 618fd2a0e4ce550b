package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	// Backend is the commerce API this storefront consumes.
	Backend BackendConfig

	// DataDir is where the embedded store keeps its files.
	DataDir string

	Cart     CartConfig
	Shipping ShippingConfig
	Address  AddressConfig
	Order    OrderConfig
	Payment  PaymentConfig

	// AllowedOrigins is the CORS whitelist for the API.
	AllowedOrigins []string
}

type BackendConfig struct {
	BaseURL string

	// Timeout tiers. Order creation and email dispatch get more room than
	// ordinary reads.
	StandardTimeout time.Duration
	OrderTimeout    time.Duration
	EmailTimeout    time.Duration

	// PollInterval is the operating-hours refresh cadence.
	PollInterval time.Duration
}

type CartConfig struct {
	// MaxQuantity is the per-line quantity ceiling.
	MaxQuantity int
}

type ShippingConfig struct {
	// Store origin coordinates, used for map-picked distance pricing.
	OriginLat float64
	OriginLng float64

	BaseFee   float64
	PerKmRate float64
}

type AddressConfig struct {
	MinQueryLength int
	DebounceMs     int
	SearchLimit    int
	FarDistanceKm  float64
	Locality       string
}

type OrderConfig struct {
	// PaintDelayMs is how long confirmation waits before the email dispatch.
	PaintDelayMs int
}

type PaymentConfig struct {
	// Provider selects the session provider: "gateway" (backend preference)
	// or "stripe".
	Provider string

	// GatewayRedirectBase overrides the production gateway redirect URL.
	GatewayRedirectBase string

	StripeSecretKey  string
	StripeSuccessURL string
	StripeCancelURL  string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it.
	if err := godotenv.Load(); err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		DataDir:  getEnv("DATA_DIR", "./data"),
		Backend: BackendConfig{
			BaseURL:         getEnv("BACKEND_BASE_URL", "http://localhost:8080"),
			StandardTimeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_MS", 10000)) * time.Millisecond,
			OrderTimeout:    time.Duration(getEnvInt("BACKEND_ORDER_TIMEOUT_MS", 25000)) * time.Millisecond,
			EmailTimeout:    time.Duration(getEnvInt("BACKEND_EMAIL_TIMEOUT_MS", 30000)) * time.Millisecond,
			PollInterval:    time.Duration(getEnvInt("SCHEDULE_POLL_MINUTES", 5)) * time.Minute,
		},
		Cart: CartConfig{
			MaxQuantity: int(getEnvInt("CART_MAX_QUANTITY", 30)),
		},
		Shipping: ShippingConfig{
			OriginLat: getEnvFloat("STORE_ORIGIN_LAT", -31.4201),
			OriginLng: getEnvFloat("STORE_ORIGIN_LNG", -64.1888),
			BaseFee:   getEnvFloat("SHIPPING_BASE_FEE", 500),
			PerKmRate: getEnvFloat("SHIPPING_PER_KM_RATE", 100),
		},
		Address: AddressConfig{
			MinQueryLength: int(getEnvInt("ADDRESS_MIN_QUERY_LENGTH", 3)),
			DebounceMs:     int(getEnvInt("ADDRESS_DEBOUNCE_MS", 500)),
			SearchLimit:    int(getEnvInt("ADDRESS_SEARCH_LIMIT", 6)),
			FarDistanceKm:  getEnvFloat("ADDRESS_FAR_DISTANCE_KM", 50),
			Locality:       getEnv("ADDRESS_LOCALITY", "córdoba"),
		},
		Order: OrderConfig{
			PaintDelayMs: int(getEnvInt("ORDER_EMAIL_DELAY_MS", 2000)),
		},
		Payment: PaymentConfig{
			Provider:            getEnv("PAYMENT_PROVIDER", "gateway"),
			GatewayRedirectBase: getEnv("GATEWAY_REDIRECT_BASE", ""),
			StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			StripeSuccessURL:    getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/api/orders/confirm"),
			StripeCancelURL:     getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/api/orders/pending"),
		},
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "*")},
	}

	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Payment.Provider == "stripe" && cfg.Payment.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY required when PAYMENT_PROVIDER=stripe")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
