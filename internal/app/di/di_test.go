package di

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_dashboard/internal/feature/symbollist/domain/entity"
	"crypto_dashboard/internal/platform/config"
	"crypto_dashboard/internal/shared/view"
)

type countingSymbols struct{ calls atomic.Int32 }

func (c *countingSymbols) ListSymbols(ctx context.Context, interval string) ([]entity.Symbol, error) {
	c.calls.Add(1)
	return []entity.Symbol{{Code: "BTCUSDT", Name: "Bitcoin", Image: "https://img/btc.png"}}, nil
}

type stubScheduler struct {
	job     func()
	every   time.Duration
	removed bool
	err     error
}

func (s *stubScheduler) Every(d time.Duration, job func()) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.every, s.job = d, job
	return 7, nil
}

func (s *stubScheduler) Remove(id int) { s.removed = id == 7 }

// TestNewSymbolCatalog は起動時の読み込みと定期的な再読み込みを検証します。
func TestNewSymbolCatalog(t *testing.T) {
	repo := &countingSymbols{}
	sched := &stubScheduler{}

	dir, stop, err := NewSymbolCatalog(context.Background(), repo, sched, 10*time.Minute)
	require.NoError(t, err)

	s, ok := dir.Lookup("BTCUSDT")
	assert.True(t, ok)
	assert.Equal(t, "https://img/btc.png", s.Image)
	assert.Equal(t, 10*time.Minute, sched.every)
	assert.Equal(t, int32(1), repo.calls.Load())

	sched.job()
	assert.Equal(t, int32(2), repo.calls.Load())

	stop()
	assert.True(t, sched.removed)
}

func TestNewSymbolCatalog_SchedulerError(t *testing.T) {
	_, _, err := NewSymbolCatalog(context.Background(), &countingSymbols{}, &stubScheduler{err: errors.New("stopped")}, time.Minute)
	assert.Error(t, err)
}

func TestNewSessionFactory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Dashboard.MarketLimit = 50
	cfg.Dashboard.RefreshPerMinute = 1

	factory := NewSessionFactory(NewRepositories(NewPredictClient(cfg), nil, cfg), cfg, nil)
	a := factory(view.Discard, "v1")
	b := factory(view.Discard, "v2")

	require.NotNil(t, a)
	assert.NotSame(t, a, b)
	assert.NotSame(t, a.State(), b.State())
}
