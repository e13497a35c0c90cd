// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	dashboard "crypto_dashboard/internal/feature/dashboard/usecase"
	symbollist "crypto_dashboard/internal/feature/symbollist/usecase"
	"crypto_dashboard/internal/platform/cache"
	"crypto_dashboard/internal/platform/config"
	"crypto_dashboard/internal/platform/externalapi/predictapi"
	infrahttp "crypto_dashboard/internal/platform/http"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/timeframe"
	"crypto_dashboard/internal/shared/view"
)

// NewPredictClient creates a fully configured prediction backend client with HTTP client.
func NewPredictClient(cfg *config.Config) *predictapi.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.PredictAPI.Timeout, cfg.PredictAPI.UserAgent)
	return predictapi.NewClient(predictapi.Config{
		BaseURL: cfg.PredictAPI.BaseURL,
		Timeout: cfg.PredictAPI.Timeout,
	}, httpClient)
}

// NewRepositories wires the backend client behind the Redis caches.
// Predictions and accuracy change every tick and are not cached.
// rdb may be nil, in which case the caches pass through.
func NewRepositories(client *predictapi.Client, rdb *redis.Client, cfg *config.Config) dashboard.Repositories {
	return dashboard.Repositories{
		Symbols:    cache.NewCachingSymbolRepository(rdb, cfg.Cache.SymbolsTTL, client, "symbols"),
		Prediction: client,
		Accuracy:   client,
		Market:     cache.NewCachingMarketRepository(rdb, cfg.Cache.MarketMaxTTL, client, "market"),
	}
}

// Scheduler is the subset of platform/scheduler used for background jobs.
type Scheduler interface {
	Every(d time.Duration, job func()) (int, error)
	Remove(id int)
}

// NewSymbolCatalog は HTTP API のロゴ解決に使う共有の銘柄ディレクトリを生成します。
// 既定の時間足の一覧を読み込み、every ごとに再読み込みします。
func NewSymbolCatalog(ctx context.Context, repo symbollist.SymbolRepository, sched Scheduler, every time.Duration) (*symbollist.Directory, func(), error) {
	dir := symbollist.NewDirectory(repo, appstate.New(), view.Discard)
	load := func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if n := len(dir.LoadSymbols(ctx, timeframe.Default, true)); n > 0 {
			slog.Debug("symbol catalog refreshed", "count", n)
		}
	}
	load()

	id, err := sched.Every(every, load)
	if err != nil {
		return nil, nil, err
	}
	return dir, func() { sched.Remove(id) }, nil
}
