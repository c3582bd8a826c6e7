package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
)

// GramsPerTroyOunce converts troy-ounce spot prices to per-gram prices.
var GramsPerTroyOunce = decimal.RequireFromString("31.1035")

// metalSymbols maps API symbols to materials.
var metalSymbols = map[string]domain.Material{
	"XAU": domain.MaterialGold,
	"XAG": domain.MaterialSilver,
}

// MetalPriceConfig configures a MetalPriceSource.
type MetalPriceConfig struct {
	BaseURL      string
	APIKey       string
	BaseCurrency string
	// ExchangeRate converts one unit of BaseCurrency into the display currency.
	ExchangeRate decimal.Decimal
	TTL          time.Duration
	Timeout      time.Duration
	RetryDelay   time.Duration
	MaxRetries   int
}

// MetalPriceSource fetches gold and silver spot prices from a metal price API.
type MetalPriceSource struct {
	history
	cfg        MetalPriceConfig
	httpClient *http.Client
	fallback   map[domain.Material]decimal.Decimal
	now        func() time.Time
}

// NewMetalPriceSource creates a new metal price API source.
func NewMetalPriceSource(cfg MetalPriceConfig) *MetalPriceSource {
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "USD"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &MetalPriceSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		fallback:   fallbackRates("6250.00", "82.00"),
		now:        time.Now,
	}
}

func (s *MetalPriceSource) Name() string { return "metalpriceapi" }

func (s *MetalPriceSource) TTL() time.Duration { return s.cfg.TTL }

// Fetch returns per-gram quotes converted into the display currency.
// Retries share one Timeout deadline.
func (s *MetalPriceSource) Fetch(ctx context.Context) []domain.RateQuote {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	prices, err := s.fetchPrices(ctx)
	if err != nil {
		s.failed(s.Name(), err)
		return s.resolve(s.Name(), s.now(), nil, s.fallback)
	}
	return s.resolve(s.Name(), s.now(), prices, s.fallback)
}

type metalPriceResponse struct {
	Success   bool                       `json:"success"`
	Timestamp int64                      `json:"timestamp"`
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

// fetchPrices returns a map of material -> price per gram in the display currency.
func (s *MetalPriceSource) fetchPrices(ctx context.Context) (map[domain.Material]decimal.Decimal, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("metal price API key not configured")
	}

	q := url.Values{}
	q.Set("api_key", s.cfg.APIKey)
	q.Set("base", s.cfg.BaseCurrency)
	q.Set("currencies", "XAU,XAG")
	reqURL := fmt.Sprintf("%s/latest?%s", s.cfg.BaseURL, q.Encode())

	body, err := s.fetchWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	// Parse: {"success":true,"base":"USD","rates":{"XAU":0.00043,"XAG":0.041}}
	var raw metalPriceResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing metal price response: %w", err)
	}
	if !raw.Success {
		return nil, fmt.Errorf("metal price API reported failure")
	}

	exchange := s.cfg.ExchangeRate
	if !exchange.IsPositive() {
		exchange = decimal.NewFromInt(1)
	}

	result := make(map[domain.Material]decimal.Decimal, len(metalSymbols))
	for symbol, material := range metalSymbols {
		perUnit, ok := raw.Rates[symbol]
		if !ok || !perUnit.IsPositive() {
			return nil, fmt.Errorf("metal price response missing %s", symbol)
		}
		// Rates are ounces per unit of base currency, so invert for price per ounce.
		perOunce := decimal.NewFromInt(1).Div(perUnit)
		result[material] = perOunce.Div(GramsPerTroyOunce).Mul(exchange).Round(2)
	}
	return result, nil
}

func (s *MetalPriceSource) fetchWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := range s.cfg.MaxRetries + 1 {
		if attempt > 0 {
			baseDelay := s.cfg.RetryDelay
			if baseDelay == 0 {
				baseDelay = time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating metal price request: %w", err)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			// url.Error carries the request URL, which includes the API key.
			var uerr *url.Error
			if errors.As(err, &uerr) {
				err = uerr.Err
			}
			return nil, fmt.Errorf("metal price request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading metal price response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("metal price API rate limited (attempt %d/%d)", attempt+1, s.cfg.MaxRetries+1)
			continue
		}

		return nil, fmt.Errorf("metal price API HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil, lastErr
}
