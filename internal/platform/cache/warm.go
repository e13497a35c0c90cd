package cache

import (
	"context"
	"errors"
	"log/slog"

	marketusecase "crypto_dashboard/internal/feature/market/usecase"
	symbolusecase "crypto_dashboard/internal/feature/symbollist/usecase"
	"crypto_dashboard/internal/shared/ratelimiter"
	"crypto_dashboard/internal/shared/timeframe"
)

// warmIntervals はキャッシュを事前に温める時間足のリストです。
var warmIntervals = []timeframe.Interval{timeframe.Hour, timeframe.Day, timeframe.Week}

// Warmer は銘柄一覧と市場一覧をキャッシュ経由で取得し、Redis に事前に格納します。
// 渡すリポジトリはキャッシュのデコレーターであることを想定しています。
type Warmer struct {
	symbols     symbolusecase.SymbolRepository
	market      marketusecase.MarketRepository
	rateLimiter ratelimiter.RateLimiterInterface
	limit       int
}

// NewWarmer は新しい Warmer を作成します。limit が 0 以下の場合は市場一覧の既定件数を使います。
func NewWarmer(symbols symbolusecase.SymbolRepository, market marketusecase.MarketRepository, rl ratelimiter.RateLimiterInterface, limit int) *Warmer {
	if limit <= 0 {
		limit = marketusecase.DefaultLimit
	}
	return &Warmer{symbols: symbols, market: market, rateLimiter: rl, limit: limit}
}

// WarmAll は全時間足の銘柄一覧と市場一覧を取得します。
// 1つの取得に失敗しても処理を止めずにログを出力して次に進み、失敗件数を返します。
func (w *Warmer) WarmAll(ctx context.Context) (failed int, err error) {
	for _, iv := range warmIntervals {
		if err := w.rateLimiter.Wait(ctx); err != nil {
			return failed, err
		}
		if _, err := w.symbols.ListSymbols(ctx, iv.String()); err != nil {
			if errors.Is(err, context.Canceled) {
				return failed, err
			}
			failed++
			slog.Error("failed to warm symbols", "interval", iv, "error", err)
		}

		if err := w.rateLimiter.Wait(ctx); err != nil {
			return failed, err
		}
		if _, err := w.market.MarketOverview(ctx, iv.String(), w.limit); err != nil {
			if errors.Is(err, context.Canceled) {
				return failed, err
			}
			failed++
			slog.Error("failed to warm market overview", "interval", iv, "limit", w.limit, "error", err)
		}
	}
	return failed, nil
}
