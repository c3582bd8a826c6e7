package rates

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mamde/storefront/internal/domain"
)

// Repository persists the latest quote per material.
type Repository interface {
	GetRates(ctx context.Context) ([]domain.RateQuote, error)
	UpsertRate(ctx context.Context, q domain.RateQuote) (domain.RateQuote, error)
}

// Service couples the rate cache with persistent storage.
type Service struct {
	cache *Cache
	repo  Repository
}

// NewService creates a new rate Service.
func NewService(cache *Cache, repo Repository) *Service {
	return &Service{cache: cache, repo: repo}
}

// Warm seeds the cache with the quotes persisted by a previous process.
func (s *Service) Warm(ctx context.Context) error {
	stored, err := s.repo.GetRates(ctx)
	if err != nil {
		return fmt.Errorf("loading stored rates: %w", err)
	}
	s.cache.Seed(stored)
	slog.Info("rates: cache warmed from storage", "quotes", len(stored))
	return nil
}

// RefreshAndStore forces a cache refresh and persists every observed quote.
// It returns the stored quotes; fallback quotes are never persisted.
func (s *Service) RefreshAndStore(ctx context.Context) ([]domain.RateQuote, error) {
	quotes := s.cache.Refresh(ctx)
	stored := make([]domain.RateQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.IsFallback() {
			continue
		}
		saved, err := s.repo.UpsertRate(ctx, q)
		if err != nil {
			return stored, fmt.Errorf("storing rate for %s: %w", q.Material, err)
		}
		stored = append(stored, saved)
	}
	return stored, nil
}

// Current returns the current quote for a material.
func (s *Service) Current(ctx context.Context, m domain.Material) (domain.RateQuote, bool) {
	return s.cache.Current(ctx, m)
}

// All returns all current quotes.
func (s *Service) All(ctx context.Context) []domain.RateQuote {
	return s.cache.All(ctx)
}

// Override stores a manually entered quote and makes it current.
func (s *Service) Override(ctx context.Context, q domain.RateQuote) (domain.RateQuote, error) {
	if !q.Valid() {
		return domain.RateQuote{}, fmt.Errorf("rate for %q must be positive", q.Material)
	}
	if q.Source == "" {
		q.Source = "manual"
	}
	if q.ObservedAt.IsZero() {
		q.ObservedAt = s.cache.now()
	}
	if prev, ok := s.cache.Current(ctx, q.Material); ok && q.Change.IsZero() {
		q.Change = q.RatePerGram.Sub(prev.RatePerGram)
	}
	saved, err := s.repo.UpsertRate(ctx, q)
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("storing manual rate: %w", err)
	}
	s.cache.Put(saved)
	return saved, nil
}

// SourceName returns the name of the active rate source.
func (s *Service) SourceName() string {
	return s.cache.SourceName()
}
