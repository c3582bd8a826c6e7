package rates

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
)

type mockRepository struct {
	mu        sync.Mutex
	stored    []domain.RateQuote
	upserted  []domain.RateQuote
	getErr    error
	upsertErr error
}

func (m *mockRepository) GetRates(_ context.Context) ([]domain.RateQuote, error) {
	return m.stored, m.getErr
}

func (m *mockRepository) UpsertRate(_ context.Context, q domain.RateQuote) (domain.RateQuote, error) {
	if m.upsertErr != nil {
		return domain.RateQuote{}, m.upsertErr
	}
	m.mu.Lock()
	m.upserted = append(m.upserted, q)
	m.mu.Unlock()
	return q, nil
}

func TestServiceRefreshAndStoreSkipsFallback(t *testing.T) {
	now := time.Now()
	src := &fakeSource{ttl: time.Minute}
	src.set(quote(domain.MaterialGold, "6400", now, "fake"), quote(domain.MaterialSilver, "82", now, domain.SourceFallback))
	repo := &mockRepository{}

	svc := NewService(NewCache(src), repo)
	stored, err := svc.RefreshAndStore(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.upserted) != 1 || repo.upserted[0].Material != domain.MaterialGold {
		t.Errorf("upserted = %+v, want only gold", repo.upserted)
	}
	if len(stored) != 1 || !stored[0].RatePerGram.Equal(decimal.NewFromInt(6400)) {
		t.Errorf("stored = %+v, want gold 6400", stored)
	}
}

func TestServiceRefreshAndStoreError(t *testing.T) {
	src := &fakeSource{ttl: time.Minute}
	src.set(quote(domain.MaterialGold, "6400", time.Now(), "fake"))
	repo := &mockRepository{upsertErr: errors.New("db down")}

	svc := NewService(NewCache(src), repo)
	if _, err := svc.RefreshAndStore(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestServiceWarmSeedsCache(t *testing.T) {
	stored := quote(domain.MaterialGold, "6500", time.Now().Add(-time.Hour), "metalpriceapi")
	src := &fakeSource{ttl: time.Minute}
	src.set(quote(domain.MaterialGold, "6250", time.Now(), domain.SourceFallback))
	repo := &mockRepository{stored: []domain.RateQuote{stored}}

	svc := NewService(NewCache(src), repo)
	if err := svc.Warm(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q, ok := svc.Current(context.Background(), domain.MaterialGold)
	if !ok || !q.RatePerGram.Equal(decimal.NewFromInt(6500)) {
		t.Errorf("Current() = %+v, want stored 6500", q)
	}
}

func TestServiceWarmError(t *testing.T) {
	svc := NewService(NewCache(&fakeSource{ttl: time.Minute}), &mockRepository{getErr: errors.New("db down")})
	if err := svc.Warm(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestServiceOverride(t *testing.T) {
	now := time.Now()
	src := &fakeSource{ttl: time.Hour}
	src.set(quote(domain.MaterialGold, "6400", now, "fake"))
	repo := &mockRepository{}
	svc := NewService(NewCache(src), repo)
	svc.All(context.Background())

	saved, err := svc.Override(context.Background(), quote(domain.MaterialGold, "6600", now.Add(time.Second), ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Source != "manual" {
		t.Errorf("source = %q, want manual", saved.Source)
	}
	if !saved.Change.Equal(decimal.NewFromInt(200)) {
		t.Errorf("change = %s, want 200", saved.Change)
	}

	q, _ := svc.Current(context.Background(), domain.MaterialGold)
	if !q.RatePerGram.Equal(decimal.NewFromInt(6600)) {
		t.Errorf("Current() = %s, want 6600", q.RatePerGram)
	}
	if src.calls.Load() != 1 {
		t.Errorf("override triggered a fetch: calls = %d", src.calls.Load())
	}
}

func TestServiceOverrideRejectsNonPositive(t *testing.T) {
	svc := NewService(NewCache(&fakeSource{ttl: time.Minute}), &mockRepository{})
	_, err := svc.Override(context.Background(), quote(domain.MaterialGold, "0", time.Now(), ""))
	if err == nil {
		t.Fatal("expected error for zero rate")
	}
}
