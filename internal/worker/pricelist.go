package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/mamde/storefront/internal/export"
)

// PriceListBuilder prices the catalog at the current rates.
type PriceListBuilder interface {
	Build(ctx context.Context) (export.PriceList, error)
}

// PriceListWriter publishes a built price list.
type PriceListWriter interface {
	Write(ctx context.Context, pl export.PriceList) error
}

// PriceListWorker periodically builds the price list and hands it to a writer.
type PriceListWorker struct {
	builder  PriceListBuilder
	interval time.Duration
	writer   PriceListWriter // optional
}

// NewPriceListWorker creates a new PriceListWorker with an optional writer.
func NewPriceListWorker(builder PriceListBuilder, interval time.Duration, writer PriceListWriter) *PriceListWorker {
	return &PriceListWorker{
		builder:  builder,
		interval: interval,
		writer:   writer,
	}
}

func (w *PriceListWorker) runOnce(ctx context.Context) {
	pl, err := w.builder.Build(ctx)
	if err != nil {
		slog.Error("PriceListWorker: build failed", "error", err)
		return
	}
	slog.Info("PriceListWorker: price list built", "products", len(pl.Rows))

	if w.writer == nil {
		return
	}
	if err := w.writer.Write(ctx, pl); err != nil {
		slog.Error("PriceListWorker: write failed", "error", err)
	} else {
		slog.Info("PriceListWorker: write completed")
	}
}

// Run starts the price list worker loop. It blocks until the context is cancelled.
func (w *PriceListWorker) Run(ctx context.Context) {
	slog.Info("PriceListWorker: starting", "interval", w.interval)

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("PriceListWorker: shutting down")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}
