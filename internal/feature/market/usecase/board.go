package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"crypto_dashboard/internal/feature/market/domain/entity"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/timeframe"
	"crypto_dashboard/internal/shared/view"
)

const (
	modeButtonClass       = "mode-btn"
	activeModeButtonClass = "mode-btn active"
)

// Board は市場一覧ページのプレゼンターです。
// 取得した一覧を保持し、並べ替えと検索は再取得せずに保持済みの一覧から再描画します。
type Board struct {
	repo  MarketRepository
	state *appstate.State
	view  view.View

	mu          sync.RWMutex
	items       []entity.Item
	generatedAt *time.Time
	interval    timeframe.Interval
}

func NewBoard(repo MarketRepository, st *appstate.State, v view.View) *Board {
	return &Board{repo: repo, state: st, view: v, interval: timeframe.Default}
}

// Load は市場一覧を取得して描画します。
// 取得に失敗した場合や items が欠けている場合は "Failed to load market data." を表示します。
func (b *Board) Load(ctx context.Context, interval timeframe.Interval, limit int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	b.view.Apply(view.HTML(view.RegionMarketList, LoadingHTML))

	reqCtx, seq := b.state.Begin(ctx, appstate.KindMarket)
	defer b.state.Finish(appstate.KindMarket, seq)

	ov, err := b.repo.MarketOverview(reqCtx, interval.String(), limit)
	if !b.state.IsLatest(appstate.KindMarket, seq) {
		slog.Debug("discarding superseded market overview", "interval", interval)
		return
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("failed to load market overview", "interval", interval, "limit", limit, "error", err)
		}
		b.view.Apply(view.HTML(view.RegionMarketList, FailedHTML))
		return
	}

	b.mu.Lock()
	b.items = Usable(ov.Items)
	b.generatedAt = ov.GeneratedAt
	b.interval = interval
	b.mu.Unlock()

	b.view.Apply(view.Text(view.RegionMarketUpdated, LastUpdated(ov.GeneratedAt)))
	b.render()
}

// SetMode はソート方向を切り替えてボタンの状態と一覧を再描画します。再取得はしません。
func (b *Board) SetMode(mode appstate.MarketMode) {
	b.state.SetMarketMode(mode)
	b.view.Apply(ModePatches(mode)...)
	b.render()
}

// Search filters the displayed cards by symbol code or pair label.
func (b *Board) Search(keyword string) {
	b.state.SetKeyword(keyword)
	b.render()
}

// Displayed returns the items currently rendered, in display order.
func (b *Board) Displayed() []Ranked {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Arrange(b.items, b.state.MarketMode(), b.state.Keyword())
}

func (b *Board) render() {
	b.mu.RLock()
	iv := b.interval
	loaded := b.items != nil
	b.mu.RUnlock()
	if !loaded {
		return
	}

	html, err := RenderCards(b.Displayed(), iv)
	if err != nil {
		slog.Error("failed to render market cards", "error", err)
		html = FailedHTML
	}
	b.view.Apply(view.HTML(view.RegionMarketList, html))
}

// ModePatches toggles the active class of the gainers/losers buttons.
func ModePatches(mode appstate.MarketMode) []view.Patch {
	gainers, losers := activeModeButtonClass, modeButtonClass
	if mode == appstate.ModeLosers {
		gainers, losers = losers, gainers
	}
	return []view.Patch{
		view.Class(view.RegionGainersButton, gainers),
		view.Class(view.RegionLosersButton, losers),
	}
}
