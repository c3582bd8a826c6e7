package rates

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
)

// Source produces per-gram spot quotes for every material.
//
// Fetch never fails: a source that cannot reach its upstream logs the
// problem, counts it in Failures and returns its last known good quotes, or
// its hardcoded fallback quotes if it has never succeeded.
type Source interface {
	Name() string
	TTL() time.Duration
	Fetch(ctx context.Context) []domain.RateQuote
}

// history keeps the last good quote per material for one source.
type history struct {
	mu       sync.Mutex
	last     map[domain.Material]domain.RateQuote
	failures atomic.Int64
}

// Failures returns how many fetches fell back since the source was created.
func (h *history) Failures() int64 {
	return h.failures.Load()
}

func (h *history) failed(source string, err error) {
	h.failures.Add(1)
	slog.Warn("rates: source unavailable, serving last known quotes", "source", source, "error", err)
}

// resolve turns freshly observed rates into quotes. Materials without a
// positive observation are served from history, then from fallback.
func (h *history) resolve(source string, now time.Time, observed, fallback map[domain.Material]decimal.Decimal) []domain.RateQuote {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.last == nil {
		h.last = make(map[domain.Material]domain.RateQuote)
	}

	quotes := make([]domain.RateQuote, 0, len(domain.Materials()))
	for _, m := range domain.Materials() {
		if rate, ok := observed[m]; ok && rate.IsPositive() {
			change := decimal.Zero
			if prev, ok := h.last[m]; ok {
				change = rate.Sub(prev.RatePerGram)
			}
			q := domain.RateQuote{
				Material:    m,
				RatePerGram: rate,
				Change:      change,
				ObservedAt:  now,
				Source:      source,
			}
			h.last[m] = q
			quotes = append(quotes, q)
			continue
		}

		if prev, ok := h.last[m]; ok {
			quotes = append(quotes, prev)
			continue
		}

		if rate, ok := fallback[m]; ok {
			quotes = append(quotes, domain.RateQuote{
				Material:    m,
				RatePerGram: rate,
				Change:      decimal.Zero,
				ObservedAt:  now,
				Source:      domain.SourceFallback,
			})
		}
	}
	return quotes
}

func fallbackRates(gold, silver string) map[domain.Material]decimal.Decimal {
	return map[domain.Material]decimal.Decimal{
		domain.MaterialGold:   decimal.RequireFromString(gold),
		domain.MaterialSilver: decimal.RequireFromString(silver),
	}
}
