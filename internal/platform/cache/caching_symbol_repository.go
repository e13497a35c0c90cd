package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"crypto_dashboard/internal/feature/symbollist/domain/entity"
	"crypto_dashboard/internal/feature/symbollist/usecase"
)

// CachingSymbolRepository decorates a SymbolRepository with Redis caching.
// The directory changes rarely, so one entry per interval is kept for ttl.
type CachingSymbolRepository struct {
	inner     usecase.SymbolRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SymbolRepository = (*CachingSymbolRepository)(nil)

// NewCachingSymbolRepository decorates a SymbolRepository with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "symbols".
func NewCachingSymbolRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SymbolRepository, namespace string) *CachingSymbolRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "symbols"
	}
	return &CachingSymbolRepository{inner: inner, rdb: rdb, ttl: ttl, namespace: namespace}
}

// ListSymbols returns the cached directory of interval, fetching it on a miss.
func (c *CachingSymbolRepository) ListSymbols(ctx context.Context, interval string) ([]entity.Symbol, error) {
	return cached(ctx, c.rdb, cacheKey(c.namespace, interval), c.ttl, func(ctx context.Context) ([]entity.Symbol, error) {
		return c.inner.ListSymbols(ctx, interval)
	})
}
