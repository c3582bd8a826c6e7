package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/rates"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseURL string
	HTTPPort    string
	AdminAPIKey string

	RateSource          string
	MetalPriceURL       string
	MetalPriceAPIKey    string
	BaseCurrency        string
	ExchangeRate        decimal.Decimal
	MetalPriceTTL       time.Duration
	MetalPriceRetryMax  int
	MetalPriceRetryWait time.Duration
	LiveRatesURL        string
	LiveRatesTTL        time.Duration
	SimulatedGoldBase   decimal.Decimal
	SimulatedSilverBase decimal.Decimal
	SimulatedTTL        time.Duration
	FetchTimeout        time.Duration

	RateWorkerInterval      time.Duration
	PriceListWorkerInterval time.Duration

	GoogleCredentialsJSON string
	GoogleSpreadsheetID   string

	CatalogMappingsFile string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		DatabaseURL: envOrDefaultWarn("DATABASE_URL", ""),
		HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey: envOrDefault("ADMIN_API_KEY", ""),

		RateSource:          envOrDefault("RATE_SOURCE", ""),
		MetalPriceURL:       envOrDefault("METALPRICE_URL", "https://api.metalpriceapi.com/v1"),
		MetalPriceAPIKey:    envOrDefault("METALPRICE_API_KEY", ""),
		BaseCurrency:        envOrDefault("METALPRICE_BASE_CURRENCY", "USD"),
		ExchangeRate:        envOrDefaultDecimal("USD_INR_RATE", decimal.RequireFromString("83.50")),
		MetalPriceTTL:       envOrDefaultDuration("METALPRICE_TTL", 5*time.Minute),
		MetalPriceRetryMax:  envOrDefaultInt("METALPRICE_RETRY_MAX", 3),
		MetalPriceRetryWait: envOrDefaultDuration("METALPRICE_RETRY_DELAY", 2*time.Second),
		LiveRatesURL:        envOrDefault("LIVE_RATES_URL", ""),
		LiveRatesTTL:        envOrDefaultDuration("LIVE_RATES_TTL", 30*time.Second),
		SimulatedGoldBase:   envOrDefaultDecimal("SIMULATED_GOLD_BASE", decimal.NewFromInt(6250)),
		SimulatedSilverBase: envOrDefaultDecimal("SIMULATED_SILVER_BASE", decimal.NewFromInt(82)),
		SimulatedTTL:        envOrDefaultDuration("SIMULATED_TTL", 30*time.Second),
		FetchTimeout:        envOrDefaultDuration("RATE_FETCH_TIMEOUT", 10*time.Second),

		RateWorkerInterval:      envOrDefaultDuration("RATE_WORKER_INTERVAL", 30*time.Second),
		PriceListWorkerInterval: envOrDefaultDuration("PRICE_LIST_WORKER_INTERVAL", 24*time.Hour),

		GoogleCredentialsJSON: envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
		GoogleSpreadsheetID:   envOrDefault("GOOGLE_SPREADSHEET_ID", ""),

		CatalogMappingsFile: envOrDefault("CATALOG_MAPPINGS_FILE", ""),
	}
}

// SheetsEnabled reports whether the price list should be exported to Google Sheets.
func (c Config) SheetsEnabled() bool {
	return c.GoogleCredentialsJSON != "" && c.GoogleSpreadsheetID != ""
}

// RateSourceConfig returns the settings of every rate source variant.
func (c Config) RateSourceConfig() rates.SourceConfig {
	return rates.SourceConfig{
		Kind:                c.RateSource,
		MetalPriceURL:       c.MetalPriceURL,
		MetalPriceAPIKey:    c.MetalPriceAPIKey,
		BaseCurrency:        c.BaseCurrency,
		ExchangeRate:        c.ExchangeRate,
		MetalPriceTTL:       c.MetalPriceTTL,
		RetryMax:            c.MetalPriceRetryMax,
		RetryDelay:          c.MetalPriceRetryWait,
		LiveRatesURL:        c.LiveRatesURL,
		LiveRatesTTL:        c.LiveRatesTTL,
		SimulatedGoldBase:   c.SimulatedGoldBase,
		SimulatedSilverBase: c.SimulatedSilverBase,
		SimulatedTTL:        c.SimulatedTTL,
		FetchTimeout:        c.FetchTimeout,
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

func envOrDefaultDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || !d.IsPositive() {
			slog.Warn("invalid positive decimal env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
