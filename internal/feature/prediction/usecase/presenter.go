package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	chartentity "crypto_dashboard/internal/feature/chart/domain/entity"
	chart "crypto_dashboard/internal/feature/chart/usecase"
	"crypto_dashboard/internal/feature/prediction/domain/entity"
	symbolentity "crypto_dashboard/internal/feature/symbollist/domain/entity"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/pricefmt"
	"crypto_dashboard/internal/shared/timeframe"
	"crypto_dashboard/internal/shared/view"
)

// NoDataText is shown in the status region when a prediction cannot be rendered.
const NoDataText = "No data"

// SymbolLookup resolves directory entries for the symbol header.
type SymbolLookup interface {
	Lookup(code string) (symbolentity.Symbol, bool)
}

// AccuracyLoader is triggered after every prediction render.
type AccuracyLoader interface {
	LoadAccuracy(ctx context.Context, symbol string, interval timeframe.Interval)
}

// Presenter は予測を取得してセッションの View に描画します。
// エラーは呼び出し元に返さず、ログを出力して "No data" 状態を描画します。
type Presenter struct {
	repo     PredictionRepository
	state    *appstate.State
	view     view.View
	symbols  SymbolLookup
	accuracy AccuracyLoader

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewPresenter creates a Presenter. symbols and accuracy may be nil.
func NewPresenter(repo PredictionRepository, st *appstate.State, v view.View, symbols SymbolLookup, accuracy AccuracyLoader) *Presenter {
	return &Presenter{repo: repo, state: st, view: v, symbols: symbols, accuracy: accuracy}
}

// LoadPrediction は symbol の予測を取得して各領域を更新し、描画後に精度の取得を非同期で開始します。
// 後続のリクエストに追い越された応答は破棄します。
func (p *Presenter) LoadPrediction(ctx context.Context, symbol string, interval timeframe.Interval, horizon int) {
	if symbol == "" {
		return
	}

	reqCtx, seq := p.state.Begin(ctx, appstate.KindPrediction)
	defer p.state.Finish(appstate.KindPrediction, seq)

	pred, err := p.repo.Predict(reqCtx, symbol, interval.String(), horizon)
	if !p.state.IsLatest(appstate.KindPrediction, seq) {
		slog.Debug("discarding superseded prediction", "symbol", symbol, "interval", interval)
		return
	}
	if err == nil {
		err = Validate(pred)
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("failed to load prediction", "symbol", symbol, "interval", interval, "error", err)
		}
		p.view.Apply(NoDataPatches()...)
	} else {
		p.view.Apply(Patches(pred, symbol, interval, p.symbols)...)
	}
	p.loadAccuracy(ctx, symbol, interval)
}

// Close は以降の精度取得の開始を止め、実行中の取得が終わるまで待ちます。
func (p *Presenter) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Presenter) loadAccuracy(ctx context.Context, symbol string, interval timeframe.Interval) {
	if p.accuracy == nil {
		return
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()
	go func() {
		defer p.wg.Done()
		p.accuracy.LoadAccuracy(ctx, symbol, interval)
	}()
}

// Patches は検証済みの予測を各表示領域への更新に変換します。symbols は nil でも構いません。
func Patches(pred entity.Prediction, symbol string, requested timeframe.Interval, symbols SymbolLookup) []view.Patch {
	m := pred.Metrics
	diff := entity.Value(m.Diff)
	conf := Confidence(pred.Confidence)
	iv := ResolveInterval(pred, requested)

	updatedAt := m.CurrentPriceAt
	if updatedAt == "" {
		updatedAt = pricefmt.Placeholder
	}

	out := headerPatches(symbol, symbols)
	out = append(out,
		view.Text(view.RegionStatus, ""),
		view.HTML(view.RegionCurrentPrice, pricefmt.USDHTML(entity.Value(m.Current))),
		view.HTML(view.RegionPredictedPrice, pricefmt.USDHTML(entity.Value(m.Predicted))),
		view.HTML(view.RegionPriceChange, fmt.Sprintf(`<span class="%s">%s</span>`,
			DirectionClass(diff), pricefmt.DiffHTML(diff, entity.Value(m.PctChange)))),
		view.Width(view.RegionConfidenceFill, conf),
		view.Text(view.RegionConfidenceText, pricefmt.Percent(conf)),
		view.Text(view.RegionBias, BiasLabel(pred.Trend)),
		view.Class(view.RegionBias, "bias "+BiasClass(pred.Trend)),
		view.Text(view.RegionUpdatedAt, updatedAt),
		view.HTML(view.RegionChart, chart.Render(pred.PricePoints(), pred.NextPoint(), diff, iv, chartentity.ModeFull)),
	)
	return out
}

func headerPatches(symbol string, symbols SymbolLookup) []view.Patch {
	out := []view.Patch{view.Text(view.RegionSymbolTitle, pricefmt.Pair(symbol))}
	if symbols != nil {
		if s, ok := symbols.Lookup(symbol); ok && s.Image != "" {
			return append(out,
				view.Src(view.RegionSymbolLogo, s.Image),
				view.Show(view.RegionSymbolHeader, "flex"),
			)
		}
	}
	return append(out, view.Hide(view.RegionSymbolHeader))
}

// NoDataPatches は "No data" 状態です。価格は "—"、バーは 0%、チャート領域は空にします。
func NoDataPatches() []view.Patch {
	return []view.Patch{
		view.Text(view.RegionStatus, NoDataText),
		view.Hide(view.RegionSymbolHeader),
		view.HTML(view.RegionCurrentPrice, pricefmt.USD(math.NaN())),
		view.HTML(view.RegionPredictedPrice, pricefmt.USD(math.NaN())),
		view.HTML(view.RegionPriceChange, pricefmt.Placeholder),
		view.Width(view.RegionConfidenceFill, 0),
		view.Text(view.RegionConfidenceText, "--%"),
		view.Text(view.RegionBias, BiasLabel(entity.TrendNeutral)),
		view.Class(view.RegionBias, "bias "+BiasClass(entity.TrendNeutral)),
		view.Text(view.RegionUpdatedAt, pricefmt.Placeholder),
		view.HTML(view.RegionChart, ""),
	}
}

// Confidence clamps the backend score into [0, 100] and rounds it to two decimals.
// Missing or non-numeric scores yield 0.
func Confidence(c *float64) float64 {
	if c == nil || math.IsNaN(*c) || math.IsInf(*c, 0) {
		return 0
	}
	v := math.Max(0, math.Min(100, *c))
	return math.Round(v*100) / 100
}

// DirectionClass returns the CSS class keyed by the sign of diff.
func DirectionClass(diff float64) string {
	switch {
	case diff > 0:
		return "up"
	case diff < 0:
		return "down"
	}
	return "flat"
}

// BiasLabel maps the backend trend to its display label.
func BiasLabel(t entity.Trend) string {
	switch t {
	case entity.TrendUp:
		return "Bullish Bias"
	case entity.TrendDown:
		return "Bearish Bias"
	}
	return "Neutral Bias"
}

// BiasClass is the CSS modifier of the bias label.
func BiasClass(t entity.Trend) string {
	switch t {
	case entity.TrendUp:
		return "bullish"
	case entity.TrendDown:
		return "bearish"
	}
	return "neutral"
}
