package nasapower

import (
	"container/list"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/couchcryptid/solar-yield-service/internal/domain"
	"github.com/couchcryptid/solar-yield-service/internal/observability"
)

// completenessReporter is implemented by providers that can tell whether a
// series resolved entirely from upstream data.
type completenessReporter interface {
	fetchSeries(ctx context.Context, lat, lon float64) ([]domain.MonthlyMeteorology, bool, error)
}

// CachedProvider wraps a MeteorologyProvider with an in-memory LRU cache keyed on
// coordinates rounded to 0.01 degrees.
type CachedProvider struct {
	inner   domain.MeteorologyProvider
	cache   *lruCache[[]domain.MonthlyMeteorology]
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a provider.
func NewCachedProvider(inner domain.MeteorologyProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache[[]domain.MonthlyMeteorology](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) Name() string { return c.inner.Name() }

func (c *CachedProvider) Fetch(ctx context.Context, lat, lon float64) ([]domain.MonthlyMeteorology, error) {
	key := cacheKey(lat, lon)
	if series, ok := c.cache.get(key); ok {
		c.metrics.MeteorologyCache.WithLabelValues("hit").Inc()
		return slices.Clone(series), nil
	}
	c.metrics.MeteorologyCache.WithLabelValues("miss").Inc()

	series, complete, err := c.fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	// Incomplete series are left uncached so the next request retries upstream.
	if complete && domain.ValidateSeries(series) == nil {
		c.cache.put(key, slices.Clone(series))
	}
	return series, nil
}

func (c *CachedProvider) fetch(ctx context.Context, lat, lon float64) ([]domain.MonthlyMeteorology, bool, error) {
	if r, ok := c.inner.(completenessReporter); ok {
		return r.fetchSeries(ctx, lat, lon)
	}
	series, err := c.inner.Fetch(ctx, lat, lon)
	return series, err == nil, err
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

// lruCache is a thread-safe LRU cache; the front of order is most recently used.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List
	entries    map[string]*list.Element
}

type lruEntry[V any] struct {
	key   string
	value V
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*lruEntry[V]).value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*lruEntry[V]).value = value
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&lruEntry[V]{key: key, value: value})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*lruEntry[V]).key)
	}
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
