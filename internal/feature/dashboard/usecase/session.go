// Package usecase はダッシュボードの1セッション（ブラウザタブ1つ）を駆動します。
//
// Session はブラウザからのイベントを各プレゼンター（銘柄ディレクトリ・予測・精度・市場一覧）の
// 呼び出しに変換します。描画はすべて注入された view.View に対して行われます。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	accuracy "crypto_dashboard/internal/feature/accuracy/usecase"
	"crypto_dashboard/internal/feature/dashboard/domain/entity"
	market "crypto_dashboard/internal/feature/market/usecase"
	prediction "crypto_dashboard/internal/feature/prediction/usecase"
	symbollist "crypto_dashboard/internal/feature/symbollist/usecase"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/timeframe"
	"crypto_dashboard/internal/shared/view"
)

var (
	// ErrUnknownMessage is returned for message types the session does not handle.
	ErrUnknownMessage = errors.New("unknown message type")
	// ErrRateLimited is returned when manual refreshes arrive faster than allowed.
	ErrRateLimited = errors.New("refresh rate limit exceeded")
)

// PreferenceSaver persists the last selected symbol of a visitor.
type PreferenceSaver interface {
	RememberSymbol(ctx context.Context, visitorID, symbol string) error
}

// Limiter throttles manual refreshes. Implemented by shared/ratelimiter.
type Limiter interface {
	Allow() bool
}

// Repositories groups the backend dependencies shared by every session.
type Repositories struct {
	Symbols    symbollist.SymbolRepository
	Prediction prediction.PredictionRepository
	Accuracy   accuracy.AccuracyRepository
	Market     market.MarketRepository
}

// InitParams は接続時のページと初期選択です。
type InitParams struct {
	Page       entity.Page
	Interval   timeframe.Interval
	Symbol     string // ?symbol= の値
	LastSymbol string // 永続化された前回の選択
}

// Session は1つのブラウザタブの状態とプレゼンターを束ねます。
type Session struct {
	visitorID   string
	horizon     int
	marketLimit int

	state      *appstate.State
	view       view.View
	directory  *symbollist.Directory
	prediction *prediction.Presenter
	board      *market.Board
	prefs      PreferenceSaver
	limiter    Limiter

	mu   sync.RWMutex
	page entity.Page
}

// Options are per-session settings. Zero values use defaults.
type Options struct {
	VisitorID   string
	MarketLimit int
	Prefs       PreferenceSaver
	Limiter     Limiter
}

// NewSession はセッションを生成します。プレゼンターはすべて同じ State と View を共有します。
func NewSession(repos Repositories, v view.View, opts Options) *Session {
	st := appstate.New()
	dir := symbollist.NewDirectory(repos.Symbols, st, v)
	acc := accuracy.NewPresenter(repos.Accuracy, st, v)
	return &Session{
		visitorID:   opts.VisitorID,
		page:        entity.PagePrediction,
		horizon:     timeframe.DefaultHorizon,
		marketLimit: opts.MarketLimit,
		state:       st,
		view:        v,
		directory:   dir,
		prediction:  prediction.NewPresenter(repos.Prediction, st, v, dir, acc),
		board:       market.NewBoard(repos.Market, st, v),
		prefs:       opts.Prefs,
		limiter:     opts.Limiter,
	}
}

// State exposes the session state, e.g. as the poller's visibility source.
func (s *Session) State() *appstate.State { return s.state }

// Page returns the page the session was prepared for.
func (s *Session) Page() entity.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Prepare はページと時間足を記録します。ポーラーやイベント処理を開始する前に呼びます。
// Init も同じ値で Prepare を行います。
func (s *Session) Prepare(p InitParams) {
	s.mu.Lock()
	s.page = p.Page
	s.mu.Unlock()
	if p.Interval != "" {
		s.state.SetInterval(p.Interval)
	}
}

// Init はページの初回描画を行います。
//
// 予測ページでは銘柄一覧を読み込み、?symbol=（大文字小文字を無視）が一覧に存在すればそれを、
// 無ければ前回の選択を、どちらも無ければ先頭の銘柄を選んで予測を取得します。
func (s *Session) Init(ctx context.Context, p InitParams) {
	s.Prepare(p)
	iv := s.state.Interval()

	if p.Page == entity.PageMarket {
		s.view.Apply(market.ModePatches(s.state.MarketMode())...)
		s.board.Load(ctx, iv, s.marketLimit)
		return
	}

	s.directory.LoadSymbols(ctx, iv, false)
	if !s.directory.Select(p.Symbol) {
		s.directory.Select(p.LastSymbol)
	}
	s.loadPrediction(ctx)
}

// Handle はブラウザからのメッセージを1つ処理します。
// 表示上の失敗はプレゼンターが描画するため、ここで返すのはメッセージ自体の誤りだけです。
func (s *Session) Handle(ctx context.Context, msg entity.Message) error {
	switch msg.Type {
	case entity.MsgSelect:
		if !s.directory.Select(msg.Value) {
			return fmt.Errorf("select %q: %w", msg.Value, symbollist.ErrUnknownSymbol)
		}
		s.remember(ctx)
		s.loadPrediction(ctx)

	case entity.MsgRefresh:
		if s.limiter != nil && !s.limiter.Allow() {
			return ErrRateLimited
		}
		s.Refresh(ctx)

	case entity.MsgTimeframe:
		iv, err := timeframe.Parse(msg.Value)
		if err != nil {
			return err
		}
		s.state.SetInterval(iv)
		s.directory.LoadSymbols(ctx, iv, true)
		s.loadPrediction(ctx)

	case entity.MsgSearch:
		before := s.state.CurrentSymbol()
		s.directory.Search(msg.Value)
		if after := s.state.CurrentSymbol(); after != before {
			s.remember(ctx)
			s.loadPrediction(ctx)
		}

	case entity.MsgVisibility:
		s.state.SetVisible(msg.Value != entity.VisibilityHidden)

	case entity.MsgMarketMode:
		s.board.SetMode(appstate.ParseMarketMode(msg.Value))

	case entity.MsgMarketSearch:
		s.board.Search(msg.Value)

	case entity.MsgMarketInterval:
		iv, err := timeframe.Parse(msg.Value)
		if err != nil {
			return err
		}
		s.state.SetInterval(iv)
		s.board.Load(ctx, iv, s.marketLimit)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

// Refresh はページの内容を再取得します。ポーラーのティックと手動リフレッシュで呼ばれます。
func (s *Session) Refresh(ctx context.Context) {
	if s.Page() == entity.PageMarket {
		s.board.Load(ctx, s.state.Interval(), s.marketLimit)
		return
	}
	s.loadPrediction(ctx)
}

// Close cancels in-flight requests and waits for background accuracy loads.
func (s *Session) Close() {
	s.state.CancelAll()
	s.prediction.Close()
}

func (s *Session) loadPrediction(ctx context.Context) {
	s.prediction.LoadPrediction(ctx, s.state.CurrentSymbol(), s.state.Interval(), s.horizon)
}

func (s *Session) remember(ctx context.Context) {
	if s.prefs == nil || s.visitorID == "" {
		return
	}
	if err := s.prefs.RememberSymbol(ctx, s.visitorID, s.state.CurrentSymbol()); err != nil {
		slog.Warn("failed to remember symbol", "visitor", s.visitorID, "error", err)
	}
}
