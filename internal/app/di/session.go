package di

import (
	"time"

	dashboard "crypto_dashboard/internal/feature/dashboard/usecase"
	"crypto_dashboard/internal/feature/dashboard/transport/ws"
	"crypto_dashboard/internal/platform/config"
	"crypto_dashboard/internal/shared/ratelimiter"
	"crypto_dashboard/internal/shared/view"
)

// NewSessionFactory creates the per-connection session constructor.
// Each session gets its own manual-refresh limiter. prefs may be nil.
func NewSessionFactory(repos dashboard.Repositories, cfg *config.Config, prefs dashboard.PreferenceSaver) ws.SessionFactory {
	return func(v view.View, visitorID string) *dashboard.Session {
		return dashboard.NewSession(repos, v, dashboard.Options{
			VisitorID:   visitorID,
			MarketLimit: cfg.Dashboard.MarketLimit,
			Prefs:       prefs,
			Limiter:     ratelimiter.NewRateLimiter(cfg.Dashboard.RefreshPerMinute, time.Minute),
		})
	}
}
