// Package pricing answers "what does this product cost right now" from the
// current metal rate, the product weight and its purity.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mamde/storefront/internal/domain"
	"github.com/mamde/storefront/internal/purity"
)

// ErrRateUnavailable is returned when no quote exists for the product's material.
var ErrRateUnavailable = errors.New("rate unavailable")

// RateProvider returns the current quote for a material.
type RateProvider interface {
	Current(ctx context.Context, m domain.Material) (domain.RateQuote, bool)
}

// Resolver prices products at the current rate.
type Resolver struct {
	rates RateProvider
}

// NewResolver creates a new Resolver.
func NewResolver(rates RateProvider) *Resolver {
	return &Resolver{rates: rates}
}

// PriceFor returns the price of product at the current rate.
//
// RatePerGram is the purity-adjusted rate. TotalPrice is weight times that
// rate, computed unrounded and then rounded to paise.
func (r *Resolver) PriceFor(ctx context.Context, p domain.Product) (domain.ProductPriceQuote, error) {
	q, ok := r.rates.Current(ctx, p.Material)
	if !ok || !q.Valid() {
		return domain.ProductPriceQuote{}, fmt.Errorf("pricing %s (%s): %w", p.ID, p.Material, ErrRateUnavailable)
	}

	perGram := purity.Apply(q.RatePerGram, p.Purity)
	return domain.ProductPriceQuote{
		ProductID:   p.ID,
		Weight:      p.Weight,
		Purity:      p.Purity,
		Material:    p.Material,
		RatePerGram: domain.RoundMoney(perGram),
		TotalPrice:  domain.RoundMoney(perGram.Mul(p.Weight)),
		ObservedAt:  q.ObservedAt,
	}, nil
}

// PriceAll prices every product, skipping those whose material has no rate.
func (r *Resolver) PriceAll(ctx context.Context, products []domain.Product) []domain.ProductPriceQuote {
	out := make([]domain.ProductPriceQuote, 0, len(products))
	for _, p := range products {
		pq, err := r.PriceFor(ctx, p)
		if err != nil {
			slog.Warn("pricing: skipping product", "product", p.ID, "name", p.Name, "error", err)
			continue
		}
		out = append(out, pq)
	}
	return out
}
