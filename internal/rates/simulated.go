package rates

import (
	"context"
	"maps"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamde/storefront/internal/domain"
)

const (
	driftAmplitude = 0.015
	driftPeriod    = time.Hour
)

var floorRatio = decimal.RequireFromString("0.95")

// defaultSwing is the maximum per-tick noise as a fraction of the base rate.
var defaultSwing = map[domain.Material]float64{
	domain.MaterialGold:   0.008,
	domain.MaterialSilver: 0.012,
}

// SimulatedSource generates plausible rates around configured base rates.
// It is the default when no market source is configured.
type SimulatedSource struct {
	history
	base  map[domain.Material]decimal.Decimal
	swing map[domain.Material]float64
	ttl   time.Duration
	now   func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedSource creates a simulated source seeded from the wall clock.
func NewSimulatedSource(goldBase, silverBase decimal.Decimal, ttl time.Duration) *SimulatedSource {
	seed := uint64(time.Now().UnixNano())
	return NewSeededSimulatedSource(goldBase, silverBase, ttl, seed)
}

// NewSeededSimulatedSource creates a simulated source with a fixed seed.
func NewSeededSimulatedSource(goldBase, silverBase decimal.Decimal, ttl time.Duration, seed uint64) *SimulatedSource {
	return &SimulatedSource{
		base: map[domain.Material]decimal.Decimal{
			domain.MaterialGold:   goldBase,
			domain.MaterialSilver: silverBase,
		},
		swing: maps.Clone(defaultSwing),
		ttl:   ttl,
		now:   time.Now,
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *SimulatedSource) Name() string { return "simulated" }

func (s *SimulatedSource) TTL() time.Duration { return s.ttl }

// Fetch generates one tick for every material.
func (s *SimulatedSource) Fetch(_ context.Context) []domain.RateQuote {
	now := s.now()
	observed := make(map[domain.Material]decimal.Decimal, len(s.base))
	for _, m := range domain.Materials() {
		observed[m] = s.Tick(m, now)
	}
	return s.resolve(s.Name(), now, observed, s.base)
}

// Tick returns a simulated per-gram rate for material at time at.
// The result is rounded to paise and never falls below 95% of the base rate.
func (s *SimulatedSource) Tick(m domain.Material, at time.Time) decimal.Decimal {
	base, ok := s.base[m]
	if !ok || !base.IsPositive() {
		return decimal.Zero
	}

	s.mu.Lock()
	noise := (s.rng.Float64()*2 - 1) * s.swing[m]
	s.mu.Unlock()

	phase := 2 * math.Pi * float64(at.UnixNano()%int64(driftPeriod)) / float64(driftPeriod)
	drift := driftAmplitude * math.Sin(phase)

	baseF, _ := base.Float64()
	rate := decimal.NewFromFloat(baseF * (1 + drift + noise)).Round(2)

	floor := base.Mul(floorRatio)
	if rate.LessThan(floor) {
		return floor
	}
	return rate
}
