package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	// Clear any env vars that might affect defaults
	for _, key := range []string{"DATABASE_URL", "HTTP_PORT", "RATE_SOURCE", "METALPRICE_URL", "USD_INR_RATE",
		"METALPRICE_TTL", "LIVE_RATES_URL", "RATE_WORKER_INTERVAL", "SIMULATED_GOLD_BASE", "GOOGLE_CREDENTIALS_JSON"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.MetalPriceURL != "https://api.metalpriceapi.com/v1" {
		t.Errorf("MetalPriceURL = %q, want default", cfg.MetalPriceURL)
	}
	if !cfg.ExchangeRate.Equal(decimal.RequireFromString("83.5")) {
		t.Errorf("ExchangeRate = %s, want 83.50", cfg.ExchangeRate)
	}
	if cfg.MetalPriceTTL != 5*time.Minute {
		t.Errorf("MetalPriceTTL = %v, want 5m", cfg.MetalPriceTTL)
	}
	if cfg.RateWorkerInterval != 30*time.Second {
		t.Errorf("RateWorkerInterval = %v, want 30s", cfg.RateWorkerInterval)
	}
	if !cfg.SimulatedGoldBase.Equal(decimal.NewFromInt(6250)) {
		t.Errorf("SimulatedGoldBase = %s, want 6250", cfg.SimulatedGoldBase)
	}
	if cfg.RateSource != "" || cfg.LiveRatesURL != "" {
		t.Errorf("RateSource/LiveRatesURL = %q/%q, want empty", cfg.RateSource, cfg.LiveRatesURL)
	}
	if cfg.SheetsEnabled() {
		t.Error("SheetsEnabled() = true without credentials")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/testdb")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RATE_SOURCE", "livepage")
	t.Setenv("LIVE_RATES_URL", "https://rates.example.com")
	t.Setenv("USD_INR_RATE", "84.10")
	t.Setenv("METALPRICE_RETRY_MAX", "10")
	t.Setenv("LIVE_RATES_TTL", "45s")
	t.Setenv("GOOGLE_CREDENTIALS_JSON", "{}")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "sheet-id")

	cfg := Load()

	if cfg.DatabaseURL != "postgres://localhost/testdb" {
		t.Errorf("DatabaseURL = %q, want override", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}
	if cfg.RateSource != "livepage" || cfg.LiveRatesURL != "https://rates.example.com" {
		t.Errorf("RateSource/LiveRatesURL = %q/%q", cfg.RateSource, cfg.LiveRatesURL)
	}
	if !cfg.ExchangeRate.Equal(decimal.RequireFromString("84.1")) {
		t.Errorf("ExchangeRate = %s, want 84.10", cfg.ExchangeRate)
	}
	if cfg.MetalPriceRetryMax != 10 {
		t.Errorf("MetalPriceRetryMax = %d, want 10", cfg.MetalPriceRetryMax)
	}
	if cfg.LiveRatesTTL != 45*time.Second {
		t.Errorf("LiveRatesTTL = %v, want 45s", cfg.LiveRatesTTL)
	}
	if !cfg.SheetsEnabled() {
		t.Error("SheetsEnabled() = false with credentials and spreadsheet")
	}
}

func TestLoadInvalidEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("METALPRICE_RETRY_MAX", "not-a-number")
	t.Setenv("RATE_WORKER_INTERVAL", "invalid-duration")
	t.Setenv("USD_INR_RATE", "-1")
	t.Setenv("SIMULATED_SILVER_BASE", "abc")

	cfg := Load()

	if cfg.MetalPriceRetryMax != 3 {
		t.Errorf("MetalPriceRetryMax = %d, want default 3 on invalid input", cfg.MetalPriceRetryMax)
	}
	if cfg.RateWorkerInterval != 30*time.Second {
		t.Errorf("RateWorkerInterval = %v, want default 30s on invalid input", cfg.RateWorkerInterval)
	}
	if !cfg.ExchangeRate.Equal(decimal.RequireFromString("83.5")) {
		t.Errorf("ExchangeRate = %s, want default on negative input", cfg.ExchangeRate)
	}
	if !cfg.SimulatedSilverBase.Equal(decimal.NewFromInt(82)) {
		t.Errorf("SimulatedSilverBase = %s, want default 82", cfg.SimulatedSilverBase)
	}
}

func TestRateSourceConfig(t *testing.T) {
	t.Setenv("METALPRICE_API_KEY", "key")
	t.Setenv("METALPRICE_TTL", "1m")

	sc := Load().RateSourceConfig()
	if sc.MetalPriceAPIKey != "key" || sc.MetalPriceTTL != time.Minute {
		t.Errorf("RateSourceConfig() = %+v", sc)
	}
	if sc.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want 10s", sc.FetchTimeout)
	}
}
