package rates

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mamde/storefront/internal/domain"
)

const refreshKey = "refresh"

// cacheEntry is the shared quote set for all materials. Entries are replaced
// whole and never modified after being stored.
type cacheEntry struct {
	quotes    map[domain.Material]domain.RateQuote
	fetchedAt time.Time
}

// Cache memoizes a Source for its TTL.
//
// Concurrent readers that find the entry expired share one in-flight fetch
// and block until it completes. A refresh never drops a quote: materials the
// source did not return keep their cached quote, and fallback quotes never
// replace observed ones.
type Cache struct {
	source Source
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group
	entry atomic.Pointer[cacheEntry]
}

// NewCache creates a cache in front of source using the source's TTL.
func NewCache(source Source) *Cache {
	return &Cache{
		source: source,
		ttl:    source.TTL(),
		now:    time.Now,
	}
}

// SourceName returns the name of the underlying source.
func (c *Cache) SourceName() string {
	return c.source.Name()
}

// Current returns the quote for material, fetching if the cache has expired.
func (c *Cache) Current(ctx context.Context, m domain.Material) (domain.RateQuote, bool) {
	e := c.fresh(ctx)
	if e == nil {
		return domain.RateQuote{}, false
	}
	q, ok := e.quotes[m]
	return q, ok
}

// All returns every cached quote in material order, fetching if expired.
func (c *Cache) All(ctx context.Context) []domain.RateQuote {
	return c.fresh(ctx).list()
}

// Refresh fetches from the source regardless of TTL and returns the merged quotes.
func (c *Cache) Refresh(ctx context.Context) []domain.RateQuote {
	return c.load(ctx, true).list()
}

// Seed merges previously persisted quotes into the cache without marking it fresh.
func (c *Cache) Seed(quotes []domain.RateQuote) {
	c.update(func(prev *cacheEntry) *cacheEntry {
		next := merge(prev, quotes, time.Time{})
		if prev != nil {
			next.fetchedAt = prev.fetchedAt
		}
		return next
	})
}

// Put stores a manually supplied quote, keeping the entry's freshness.
func (c *Cache) Put(q domain.RateQuote) {
	c.Seed([]domain.RateQuote{q})
}

func (c *Cache) fresh(ctx context.Context) *cacheEntry {
	if e := c.entry.Load(); c.isFresh(e) {
		return e
	}
	return c.load(ctx, false)
}

func (c *Cache) isFresh(e *cacheEntry) bool {
	return e != nil && !e.fetchedAt.IsZero() && c.now().Sub(e.fetchedAt) < c.ttl
}

func (c *Cache) load(ctx context.Context, force bool) *cacheEntry {
	// The fetch outlives any single caller's cancellation; sources bound it with their own timeouts.
	fetchCtx := context.WithoutCancel(ctx)

	v, _, _ := c.group.Do(refreshKey, func() (any, error) {
		prev := c.entry.Load()
		if !force && c.isFresh(prev) {
			return prev, nil
		}
		quotes := c.source.Fetch(fetchCtx)
		fetchedAt := c.now()
		// Merge into the entry as it is now: Seed or Put may have run during the fetch.
		return c.update(func(cur *cacheEntry) *cacheEntry {
			return merge(cur, quotes, fetchedAt)
		}), nil
	})
	return v.(*cacheEntry)
}

// update replaces the entry with fn(current), retrying when another writer got there first.
func (c *Cache) update(fn func(prev *cacheEntry) *cacheEntry) *cacheEntry {
	for {
		prev := c.entry.Load()
		next := fn(prev)
		if c.entry.CompareAndSwap(prev, next) {
			return next
		}
	}
}

// merge builds a new entry from prev and incoming quotes.
func merge(prev *cacheEntry, incoming []domain.RateQuote, fetchedAt time.Time) *cacheEntry {
	next := &cacheEntry{
		quotes:    make(map[domain.Material]domain.RateQuote, len(domain.Materials())),
		fetchedAt: fetchedAt,
	}
	if prev != nil {
		for m, q := range prev.quotes {
			next.quotes[m] = q
		}
	}

	for _, q := range incoming {
		if !q.Valid() {
			continue
		}
		if cur, ok := next.quotes[q.Material]; ok {
			if q.ObservedAt.Before(cur.ObservedAt) {
				continue
			}
			if q.IsFallback() && !cur.IsFallback() {
				slog.Debug("rates: keeping observed quote over fallback", "material", q.Material, "observedAt", cur.ObservedAt)
				continue
			}
		}
		next.quotes[q.Material] = q
	}
	return next
}

func (e *cacheEntry) list() []domain.RateQuote {
	if e == nil {
		return nil
	}
	out := make([]domain.RateQuote, 0, len(e.quotes))
	for _, m := range domain.Materials() {
		if q, ok := e.quotes[m]; ok {
			out = append(out, q)
		}
	}
	return out
}
