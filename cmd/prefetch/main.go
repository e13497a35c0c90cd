package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"crypto_dashboard/internal/app/di"
	"crypto_dashboard/internal/platform/cache"
	"crypto_dashboard/internal/platform/config"
	infraredis "crypto_dashboard/internal/platform/redis"
	"crypto_dashboard/internal/shared/ratelimiter"
)

// prefetch は銘柄一覧と市場一覧を取得して Redis キャッシュを温めるバッチです。
// cron などから新しいローソク足の確定直後に実行します。
func main() {
	if err := run(); err != nil {
		slog.Error("prefetch failed", "error", err)
		os.Exit(1)
	}
	slog.Info("prefetch finished")
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.RedisAddr() == "" {
		return errors.New("redis is not configured; nothing to prefetch")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rdb, err := infraredis.NewRedisClient(ctx, infraredis.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	repos := di.NewRepositories(di.NewPredictClient(cfg), rdb, cfg)

	// バックエンドへの負荷を抑えるため 1 分あたりのリクエスト数を制限
	rl := ratelimiter.NewRateLimiter(cfg.Dashboard.RefreshPerMinute, time.Minute)
	failed, err := cache.NewWarmer(repos.Symbols, repos.Market, rl, cfg.Dashboard.MarketLimit).WarmAll(ctx)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d fetches failed", failed)
	}
	return nil
}
