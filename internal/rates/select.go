package rates

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// Source kinds accepted by SourceConfig.Kind.
const (
	KindMetalPrice = "metalprice"
	KindLivePage   = "livepage"
	KindSimulated  = "simulated"
)

// SourceConfig holds the settings of every source variant.
type SourceConfig struct {
	Kind string

	MetalPriceURL    string
	MetalPriceAPIKey string
	BaseCurrency     string
	ExchangeRate     decimal.Decimal
	MetalPriceTTL    time.Duration
	RetryMax         int
	RetryDelay       time.Duration

	LiveRatesURL string
	LiveRatesTTL time.Duration

	SimulatedGoldBase   decimal.Decimal
	SimulatedSilverBase decimal.Decimal
	SimulatedTTL        time.Duration

	FetchTimeout time.Duration
}

// ResolveKind picks the source variant: an explicit kind wins, then an API
// key, then a live rates URL, and the simulator otherwise.
func ResolveKind(cfg SourceConfig) string {
	switch cfg.Kind {
	case KindMetalPrice, KindLivePage, KindSimulated:
		return cfg.Kind
	case "":
	default:
		slog.Warn("unknown rate source kind, selecting from configuration", "kind", cfg.Kind)
	}

	switch {
	case cfg.MetalPriceAPIKey != "":
		return KindMetalPrice
	case cfg.LiveRatesURL != "":
		return KindLivePage
	default:
		return KindSimulated
	}
}

// NewSource builds the configured source variant.
func NewSource(cfg SourceConfig) Source {
	switch ResolveKind(cfg) {
	case KindMetalPrice:
		return NewMetalPriceSource(MetalPriceConfig{
			BaseURL:      cfg.MetalPriceURL,
			APIKey:       cfg.MetalPriceAPIKey,
			BaseCurrency: cfg.BaseCurrency,
			ExchangeRate: cfg.ExchangeRate,
			TTL:          cfg.MetalPriceTTL,
			Timeout:      cfg.FetchTimeout,
			RetryDelay:   cfg.RetryDelay,
			MaxRetries:   cfg.RetryMax,
		})
	case KindLivePage:
		return NewLivePageSource(cfg.LiveRatesURL, cfg.LiveRatesTTL, cfg.FetchTimeout)
	default:
		return NewSimulatedSource(cfg.SimulatedGoldBase, cfg.SimulatedSilverBase, cfg.SimulatedTTL)
	}
}
