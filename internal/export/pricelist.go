package export

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/mamde/storefront/internal/domain"
	"github.com/mamde/storefront/internal/rates"
	"github.com/mamde/storefront/internal/store"
)

// Row is one priced product of the price list.
type Row struct {
	Product domain.Product
	Price   domain.ProductPriceQuote
}

// PriceList is the catalog priced at one set of rates.
type PriceList struct {
	GeneratedAt time.Time
	Rates       []domain.RateQuote
	Breakdown   []rates.PurityRate
	Rows        []Row
}

// ProductLister lists stored products.
type ProductLister interface {
	GetProducts(ctx context.Context, filter store.ProductFilter) ([]domain.Product, error)
}

// RateLister returns the current quote of every material.
type RateLister interface {
	All(ctx context.Context) []domain.RateQuote
}

// Pricer prices products at the current rates.
type Pricer interface {
	PriceAll(ctx context.Context, products []domain.Product) []domain.ProductPriceQuote
}

// Service builds price lists.
type Service struct {
	products ProductLister
	rates    RateLister
	pricer   Pricer
}

// NewService creates a new export Service.
func NewService(products ProductLister, rates RateLister, pricer Pricer) *Service {
	return &Service{
		products: products,
		rates:    rates,
		pricer:   pricer,
	}
}

// Build prices every product. Products whose material has no rate are left out.
func (s *Service) Build(ctx context.Context) (PriceList, error) {
	products, err := s.products.GetProducts(ctx, store.ProductFilter{})
	if err != nil {
		return PriceList{}, fmt.Errorf("listing products: %w", err)
	}

	quotes := s.rates.All(ctx)
	byID := lo.KeyBy(products, func(p domain.Product) string { return p.ID })
	priced := s.pricer.PriceAll(ctx, products)

	pl := PriceList{
		GeneratedAt: time.Now().UTC(),
		Rates:       quotes,
		Breakdown:   lo.FlatMap(quotes, func(q domain.RateQuote, _ int) []rates.PurityRate { return rates.Breakdown(q) }),
		Rows:        make([]Row, 0, len(priced)),
	}
	for _, pq := range priced {
		pl.Rows = append(pl.Rows, Row{Product: byID[pq.ProductID], Price: pq})
	}
	return pl, nil
}
