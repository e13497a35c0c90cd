package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"crypto_dashboard/internal/feature/market/domain/entity"
	"crypto_dashboard/internal/feature/market/usecase"
	"crypto_dashboard/internal/shared/timeframe"
)

// CachingMarketRepository decorates a MarketRepository with Redis caching.
// エントリは次の足が確定する時刻、または maxTTL のどちらか早い方で失効します。
type CachingMarketRepository struct {
	inner     usecase.MarketRepository
	rdb       *redis.Client
	maxTTL    time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.MarketRepository = (*CachingMarketRepository)(nil)

// NewCachingMarketRepository decorates a MarketRepository with Redis caching.
// If maxTTL is 0, it defaults to 5 minutes. If namespace is empty, it uses "market".
func NewCachingMarketRepository(rdb *redis.Client, maxTTL time.Duration, inner usecase.MarketRepository, namespace string) *CachingMarketRepository {
	if maxTTL <= 0 {
		maxTTL = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "market"
	}
	return &CachingMarketRepository{inner: inner, rdb: rdb, maxTTL: maxTTL, namespace: namespace, now: time.Now}
}

// MarketOverview returns the cached overview of interval and limit, fetching it on a miss.
func (c *CachingMarketRepository) MarketOverview(ctx context.Context, interval string, limit int) (entity.Overview, error) {
	ttl := c.maxTTL
	if iv, err := timeframe.Parse(interval); err == nil {
		ttl = TimeUntilNextBoundary(iv, c.now(), c.maxTTL)
	}
	return cached(ctx, c.rdb, cacheKey(c.namespace, interval, limit), ttl, func(ctx context.Context) (entity.Overview, error) {
		return c.inner.MarketOverview(ctx, interval, limit)
	})
}
