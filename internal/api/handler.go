package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mamde/storefront/internal/catalog"
	"github.com/mamde/storefront/internal/domain"
	"github.com/mamde/storefront/internal/export"
	"github.com/mamde/storefront/internal/store"
)

// maxBodyBytes bounds request bodies; catalog imports carry whole scraped pages.
const maxBodyBytes = 8 << 20

// RateService serves current quotes and accepts manual overrides.
type RateService interface {
	All(ctx context.Context) []domain.RateQuote
	Override(ctx context.Context, q domain.RateQuote) (domain.RateQuote, error)
}

// ProductStore is the product persistence used by the HTTP layer.
type ProductStore interface {
	GetProducts(ctx context.Context, filter store.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	InsertProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpsertProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Pricer prices a single product at the current rate.
type Pricer interface {
	PriceFor(ctx context.Context, p domain.Product) (domain.ProductPriceQuote, error)
}

// CatalogImporter turns scraped catalog text into products.
type CatalogImporter interface {
	ImportBatches(ctx context.Context, batches map[string]string) (catalog.ImportResult, error)
	ImportListing(ctx context.Context, raw string) (catalog.ImportResult, error)
}

// PriceListBuilder assembles the current price list.
type PriceListBuilder interface {
	Build(ctx context.Context) (export.PriceList, error)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
