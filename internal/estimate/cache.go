package estimate

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/capitalize-ai/cruise-concierge/pkg/metrics"
)

// Source returns a property estimate for an address.
type Source interface {
	Estimate(ctx context.Context, addr Address) (float64, error)
}

// CachedSource memoizes estimates in a bounded LRU whose entries expire after
// a fixed TTL. Failed lookups are not cached.
type CachedSource struct {
	source Source
	cache  *expirable.LRU[string, float64]
}

// NewCachedSource wraps source with a cache of at most size entries.
func NewCachedSource(source Source, size int, ttl time.Duration) *CachedSource {
	if size <= 0 {
		size = 128
	}
	return &CachedSource{
		source: source,
		cache:  expirable.NewLRU[string, float64](size, nil, ttl),
	}
}

// Estimate returns the cached estimate or asks the wrapped source.
func (s *CachedSource) Estimate(ctx context.Context, addr Address) (float64, error) {
	key := addr.key()
	if v, ok := s.cache.Get(key); ok {
		metrics.EstimateCacheLookups.WithLabelValues("hit").Inc()
		return v, nil
	}
	metrics.EstimateCacheLookups.WithLabelValues("miss").Inc()

	v, err := s.source.Estimate(ctx, addr)
	if err != nil {
		return 0, err
	}
	s.cache.Add(key, v)
	return v, nil
}

// Len returns the number of cached estimates.
func (s *CachedSource) Len() int {
	return s.cache.Len()
}
