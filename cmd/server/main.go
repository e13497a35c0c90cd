package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"crypto_dashboard/internal/app/di"
	"crypto_dashboard/internal/app/router"
	accuracyhandler "crypto_dashboard/internal/feature/accuracy/transport/handler"
	accuracyusecase "crypto_dashboard/internal/feature/accuracy/usecase"
	pagehandler "crypto_dashboard/internal/feature/dashboard/transport/handler"
	"crypto_dashboard/internal/feature/dashboard/transport/ws"
	markethandler "crypto_dashboard/internal/feature/market/transport/handler"
	marketusecase "crypto_dashboard/internal/feature/market/usecase"
	predictionhandler "crypto_dashboard/internal/feature/prediction/transport/handler"
	predictionusecase "crypto_dashboard/internal/feature/prediction/usecase"
	preferencesadapters "crypto_dashboard/internal/feature/preferences/adapters"
	preferenceshandler "crypto_dashboard/internal/feature/preferences/transport/handler"
	preferencesusecase "crypto_dashboard/internal/feature/preferences/usecase"
	symbollisthandler "crypto_dashboard/internal/feature/symbollist/transport/handler"
	symbollistusecase "crypto_dashboard/internal/feature/symbollist/usecase"
	"crypto_dashboard/internal/platform/config"
	infradb "crypto_dashboard/internal/platform/db"
	platformhandler "crypto_dashboard/internal/platform/http/handler"
	jwtmw "crypto_dashboard/internal/platform/jwt"
	infraredis "crypto_dashboard/internal/platform/redis"
	"crypto_dashboard/internal/platform/scheduler"
	"crypto_dashboard/web"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// config
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// db
	db, err := infradb.OpenDB(infradb.Config{
		Driver:         cfg.Database.Driver,
		DSN:            cfg.Database.DSN,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		RunMigrations:  cfg.Database.RunMigrations,
	}, &preferencesadapters.PreferenceModel{})
	if err != nil {
		return err
	}

	// Redis
	var rdb *redisv9.Client
	if addr := cfg.RedisAddr(); addr == "" {
		slog.Info("Redis not configured. Running without cache.")
	} else if tmp, err := infraredis.NewRedisClient(ctx, infraredis.Config{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	// Scheduler
	sched := scheduler.New()
	sched.Start()
	defer sched.Stop()

	// Repository
	client := di.NewPredictClient(cfg)
	repos := di.NewRepositories(client, rdb, cfg)
	prefRepo := preferencesadapters.NewPreferenceRepository(db)

	catalog, stopCatalog, err := di.NewSymbolCatalog(ctx, repos.Symbols, sched, cfg.Cache.SymbolsTTL)
	if err != nil {
		return err
	}
	defer stopCatalog()

	// Usecase
	symbolUC := symbollistusecase.NewSymbolUsecase(repos.Symbols)
	predictionUC := predictionusecase.NewPredictionUsecase(repos.Prediction)
	accuracyUC := accuracyusecase.NewAccuracyUsecase(repos.Accuracy)
	marketUC := marketusecase.NewMarketUsecase(repos.Market)
	prefsUC := preferencesusecase.NewPreferencesUsecase(prefRepo)
	poller := predictionusecase.NewPoller(sched, cfg.Dashboard.PollEvery)

	// Handler
	handlers := router.Handlers{
		Health:      platformhandler.NewHealthHandler(healthChecks(db, rdb)),
		Symbols:     symbollisthandler.NewSymbolHandler(symbolUC),
		Prediction:  predictionhandler.NewPredictionHandler(predictionUC, catalog),
		Accuracy:    accuracyhandler.NewAccuracyHandler(accuracyUC),
		Market:      markethandler.NewMarketHandler(marketUC),
		Preferences: preferenceshandler.NewPreferencesHandler(prefsUC),
		Pages:       pagehandler.NewPageHandler(prefsUC),
		Socket:      ws.NewHandler(di.NewSessionFactory(repos, cfg, prefsUC), poller, prefsUC),
	}

	tmpl, err := web.Templates()
	if err != nil {
		return err
	}

	// VISITOR_SECRETチェック（開発中の注意喚起）
	secret := cfg.Visitor.Secret
	if secret == "" {
		slog.Warn("VISITOR_SECRET is not set. Visitor cookies will not survive a restart.")
		secret = randomSecret()
	}
	signer := jwtmw.NewSigner(secret, cfg.Visitor.TTL)

	// ルータ生成
	r := router.NewRouter(handlers, signer, jwtmw.CookieConfig{
		Name:   cfg.Visitor.CookieName,
		MaxAge: int(cfg.Visitor.TTL.Seconds()),
		Secure: cfg.Visitor.SecureCookie,
	}, router.Assets{Templates: tmpl, Static: web.Static()})

	// セッションの context はシグナル受信時にキャンセルされる
	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     r,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func healthChecks(db *gorm.DB, rdb *redisv9.Client) map[string]platformhandler.Checker {
	checks := map[string]platformhandler.Checker{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
