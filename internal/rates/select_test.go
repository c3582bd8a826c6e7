package rates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestResolveKind(t *testing.T) {
	tests := []struct {
		name string
		cfg  SourceConfig
		want string
	}{
		{"default simulated", SourceConfig{}, KindSimulated},
		{"api key", SourceConfig{MetalPriceAPIKey: "k"}, KindMetalPrice},
		{"live url", SourceConfig{LiveRatesURL: "http://example.com"}, KindLivePage},
		{"api key wins over url", SourceConfig{MetalPriceAPIKey: "k", LiveRatesURL: "http://example.com"}, KindMetalPrice},
		{"explicit kind", SourceConfig{Kind: KindSimulated, MetalPriceAPIKey: "k"}, KindSimulated},
		{"unknown kind", SourceConfig{Kind: "bogus", LiveRatesURL: "http://example.com"}, KindLivePage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveKind(tt.cfg); got != tt.want {
				t.Errorf("ResolveKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSource(t *testing.T) {
	cfg := SourceConfig{
		MetalPriceTTL:       5 * time.Minute,
		LiveRatesTTL:        30 * time.Second,
		SimulatedTTL:        30 * time.Second,
		SimulatedGoldBase:   decimal.NewFromInt(6250),
		SimulatedSilverBase: decimal.NewFromInt(82),
	}

	if src := NewSource(cfg); src.Name() != "simulated" || src.TTL() != 30*time.Second {
		t.Errorf("default source = %s/%v", src.Name(), src.TTL())
	}

	cfg.MetalPriceAPIKey = "k"
	if src := NewSource(cfg); src.Name() != "metalpriceapi" || src.TTL() != 5*time.Minute {
		t.Errorf("api source = %s/%v", src.Name(), src.TTL())
	}

	cfg.Kind = KindLivePage
	cfg.LiveRatesURL = "http://example.com/rates"
	if src := NewSource(cfg); src.Name() != "livepage" {
		t.Errorf("live source = %s", src.Name())
	}
}
