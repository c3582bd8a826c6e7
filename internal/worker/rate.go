package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mamde/storefront/internal/domain"
)

// RateRefresher refreshes the current metal rates and persists the observed ones.
type RateRefresher interface {
	RefreshAndStore(ctx context.Context) ([]domain.RateQuote, error)
	SourceName() string
}

// RateWorker periodically refreshes metal rates.
type RateWorker struct {
	refresher RateRefresher
	interval  time.Duration

	// consecutive refreshes that stored nothing
	misses int
}

// NewRateWorker creates a new RateWorker.
func NewRateWorker(refresher RateRefresher, interval time.Duration) *RateWorker {
	return &RateWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// runOnce refreshes and reports whether any observed quote was stored.
func (w *RateWorker) runOnce(ctx context.Context) bool {
	source := w.refresher.SourceName()
	stored, err := w.refresher.RefreshAndStore(ctx)
	if err != nil {
		w.misses++
		slog.Error("RateWorker: refresh failed", "source", source, "consecutive", w.misses, "error", err)
		return false
	}
	if len(stored) == 0 {
		w.misses++
		slog.Warn("RateWorker: no observed rates, serving fallback", "source", source, "consecutive", w.misses)
		return false
	}

	if w.misses > 0 {
		slog.Info("RateWorker: source recovered", "source", source, "after", w.misses)
	}
	w.misses = 0

	attrs := []any{"source", source}
	for _, q := range stored {
		attrs = append(attrs, string(q.Material), domain.FormatMoney(q.RatePerGram))
	}
	slog.Debug("RateWorker: rates stored", attrs...)
	return true
}

// Run starts the rate worker loop. It blocks until the context is cancelled.
func (w *RateWorker) Run(ctx context.Context) {
	slog.Info("RateWorker: starting", "source", w.refresher.SourceName(), "interval", w.interval)

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("RateWorker: shutting down")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}
