// Package usecase は予測精度（accuracy / MAE）の取得と表示ロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"crypto_dashboard/internal/feature/accuracy/domain/entity"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/pricefmt"
	"crypto_dashboard/internal/shared/timeframe"
	"crypto_dashboard/internal/shared/view"
)

const (
	// EvaluatingText replaces the percentage while the backend has no score yet.
	EvaluatingText = "Evaluating..."
	emptyPercent   = "--%"
)

// ErrEmptySymbol is returned when no symbol was requested.
var ErrEmptySymbol = errors.New("symbol is required")

// AccuracyRepository abstracts the accuracy endpoint of the prediction backend.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type AccuracyRepository interface {
	Accuracy(ctx context.Context, symbol, interval string) (entity.Stats, error)
}

// AccuracyUsecase fetches accuracy stats for HTTP handlers.
type AccuracyUsecase struct {
	repo AccuracyRepository
}

func NewAccuracyUsecase(repo AccuracyRepository) *AccuracyUsecase {
	return &AccuracyUsecase{repo: repo}
}

// GetAccuracy returns the stats of symbol on interval.
func (u *AccuracyUsecase) GetAccuracy(ctx context.Context, symbol, interval string) (entity.Stats, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return entity.Stats{}, ErrEmptySymbol
	}
	iv, err := timeframe.Parse(interval)
	if err != nil {
		return entity.Stats{}, err
	}
	s, err := u.repo.Accuracy(ctx, symbol, iv.String())
	if err != nil {
		return entity.Stats{}, fmt.Errorf("accuracy %s (%s): %w", symbol, iv, err)
	}
	return s, nil
}

// Presenter は精度を取得してセッションの View に描画します。
type Presenter struct {
	repo  AccuracyRepository
	state *appstate.State
	view  view.View
	now   func() time.Time
}

func NewPresenter(repo AccuracyRepository, st *appstate.State, v view.View) *Presenter {
	return &Presenter{repo: repo, state: st, view: v, now: time.Now}
}

// LoadAccuracy は精度を取得して描画します。取得に失敗した場合は中立状態（0%、"--%"）に戻します。
func (p *Presenter) LoadAccuracy(ctx context.Context, symbol string, interval timeframe.Interval) {
	reqCtx, seq := p.state.Begin(ctx, appstate.KindAccuracy)
	defer p.state.Finish(appstate.KindAccuracy, seq)

	stats, err := p.repo.Accuracy(reqCtx, symbol, interval.String())
	if !p.state.IsLatest(appstate.KindAccuracy, seq) {
		return
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Warn("failed to load accuracy", "symbol", symbol, "interval", interval, "error", err)
		}
		p.view.Apply(NeutralPatches()...)
		return
	}
	p.view.Apply(Patches(stats, p.now())...)
}

// Patches は精度を各表示領域への更新に変換します。
// accuracy が null の場合は mae の値に関わらず "Evaluating..." と 0% を表示します。
func Patches(s entity.Stats, now time.Time) []view.Patch {
	var out []view.Patch
	if !s.Evaluated() || !finite(*s.Accuracy) {
		out = []view.Patch{
			view.Width(view.RegionAccuracyFill, 0),
			view.Text(view.RegionAccuracyText, EvaluatingText),
			view.Text(view.RegionMAEText, emptyPercent),
		}
	} else {
		acc := round2(*s.Accuracy)
		mae := emptyPercent
		if s.MAE != nil && finite(*s.MAE) {
			mae = pricefmt.Percent(*s.MAE)
		}
		out = []view.Patch{
			view.Width(view.RegionAccuracyFill, math.Max(0, math.Min(100, acc))),
			view.Text(view.RegionAccuracyText, pricefmt.Percent(acc)),
			view.Text(view.RegionMAEText, mae),
		}
	}

	generated := ""
	if s.GeneratedAt != nil {
		generated = s.GeneratedAt.UTC().Format("2006-01-02 15:04") + " UTC (" + humanize.RelTime(*s.GeneratedAt, now, "ago", "from now") + ")"
	}
	total := ""
	if s.Total != nil {
		total = humanize.Comma(int64(*s.Total))
	}
	return append(out,
		view.Text(view.RegionAccuracyGeneratedAt, generated),
		view.Text(view.RegionAccuracyTotal, total),
	)
}

// NeutralPatches resets the accuracy regions after a failed fetch.
func NeutralPatches() []view.Patch {
	return []view.Patch{
		view.Width(view.RegionAccuracyFill, 0),
		view.Text(view.RegionAccuracyText, emptyPercent),
		view.Text(view.RegionMAEText, emptyPercent),
		view.Text(view.RegionAccuracyGeneratedAt, ""),
		view.Text(view.RegionAccuracyTotal, ""),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
