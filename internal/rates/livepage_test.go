package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
)

const ratesPage = `<html><body>
<table>
  <tr><td>Gold 24K</td><td id="gold24k">₹ 7,012.40</td></tr>
  <tr><td>Silver</td><td><span data-rate="silver">₹92.6</span></td></tr>
</table>
</body></html>`

func htmlServer(t *testing.T, body *atomic.Value, status *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code := status.Load(); code != 0 && code != http.StatusOK {
			w.WriteHeader(int(code))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body.Load().(string)))
	}))
}

func TestLivePageParsesRates(t *testing.T) {
	var body atomic.Value
	body.Store(ratesPage)
	var status atomic.Int32
	server := htmlServer(t, &body, &status)
	defer server.Close()

	src := NewLivePageSource(server.URL, 30*time.Second, time.Second)
	quotes := src.Fetch(context.Background())

	gold := quoteFor(t, quotes, domain.MaterialGold)
	if !gold.RatePerGram.Equal(decimal.NewFromInt(7012)) {
		t.Errorf("gold = %s, want 7012", gold.RatePerGram)
	}
	if gold.Source != "livepage" {
		t.Errorf("gold source = %q, want livepage", gold.Source)
	}
	silver := quoteFor(t, quotes, domain.MaterialSilver)
	if !silver.RatePerGram.Equal(decimal.NewFromInt(93)) {
		t.Errorf("silver = %s, want 93", silver.RatePerGram)
	}
}

func TestLivePageServerErrorFallsBack(t *testing.T) {
	var body atomic.Value
	body.Store(ratesPage)
	var status atomic.Int32
	status.Store(http.StatusBadGateway)
	server := htmlServer(t, &body, &status)
	defer server.Close()

	src := NewLivePageSource(server.URL, 30*time.Second, time.Second)
	quotes := src.Fetch(context.Background())

	gold := quoteFor(t, quotes, domain.MaterialGold)
	if !gold.IsFallback() || !gold.RatePerGram.Equal(decimal.NewFromInt(6800)) {
		t.Errorf("gold = %+v, want fallback 6800", gold)
	}
	silver := quoteFor(t, quotes, domain.MaterialSilver)
	if !silver.IsFallback() || !silver.RatePerGram.Equal(decimal.NewFromInt(85)) {
		t.Errorf("silver = %+v, want fallback 85", silver)
	}
	if src.Failures() != 1 {
		t.Errorf("Failures() = %d, want 1", src.Failures())
	}
}

func TestLivePageMissingFieldUsesLastKnown(t *testing.T) {
	var body atomic.Value
	body.Store(ratesPage)
	var status atomic.Int32
	server := htmlServer(t, &body, &status)
	defer server.Close()

	src := NewLivePageSource(server.URL, 30*time.Second, time.Second)
	first := quoteFor(t, src.Fetch(context.Background()), domain.MaterialSilver)

	body.Store(`<html><body><div data-rate="24k">7,100</div></body></html>`)
	quotes := src.Fetch(context.Background())

	gold := quoteFor(t, quotes, domain.MaterialGold)
	if !gold.RatePerGram.Equal(decimal.NewFromInt(7100)) {
		t.Errorf("gold = %s, want 7100", gold.RatePerGram)
	}
	if !gold.Change.Equal(decimal.NewFromInt(88)) {
		t.Errorf("gold change = %s, want 88", gold.Change)
	}
	silver := quoteFor(t, quotes, domain.MaterialSilver)
	if !silver.ObservedAt.Equal(first.ObservedAt) || !silver.RatePerGram.Equal(first.RatePerGram) {
		t.Errorf("silver = %+v, want last known %+v", silver, first)
	}
}

func TestLivePageWithoutRatesCountsFailure(t *testing.T) {
	var body atomic.Value
	body.Store(`<html><body><p>Rates unavailable</p></body></html>`)
	var status atomic.Int32
	server := htmlServer(t, &body, &status)
	defer server.Close()

	src := NewLivePageSource(server.URL, 30*time.Second, time.Second)
	gold := quoteFor(t, src.Fetch(context.Background()), domain.MaterialGold)
	if !gold.IsFallback() {
		t.Errorf("gold source = %q, want fallback", gold.Source)
	}
	if src.Failures() != 1 {
		t.Errorf("Failures() = %d, want 1", src.Failures())
	}
}

func TestParseRateText(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int64
		wantOK bool
	}{
		{"rupee with comma", "₹ 6,812", 6812, true},
		{"rounds fraction", "6812.5", 6813, true},
		{"plain", "85", 85, true},
		{"padded", "\n  ₹92.4  ", 92, true},
		{"empty", "", 0, false},
		{"text", "N/A", 0, false},
		{"zero", "0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseRateText(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("ParseRateText(%q) = %s, want %d", tt.input, got, tt.want)
			}
		})
	}
}
