// Package usecase はバックエンドの予測結果の取得・検証・表示ロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"crypto_dashboard/internal/feature/prediction/domain/entity"
	"crypto_dashboard/internal/shared/timeframe"
)

var (
	// ErrNoMetrics is returned when the payload lacks the metrics block.
	ErrNoMetrics = errors.New("prediction has no metrics")
	// ErrNoCandles is returned when the payload has no chart candles.
	ErrNoCandles = errors.New("prediction has no candles")
	// ErrNonFinitePrice is returned when current or predicted is not a finite number.
	ErrNonFinitePrice = errors.New("current or predicted price is not a finite number")
	// ErrEmptySymbol is returned when no symbol was requested.
	ErrEmptySymbol = errors.New("symbol is required")
)

// PredictionRepository abstracts the prediction backend.
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PredictionRepository interface {
	Predict(ctx context.Context, symbol, interval string, horizon int) (entity.Prediction, error)
}

// PredictionUsecase fetches and validates predictions for HTTP handlers.
type PredictionUsecase struct {
	repo PredictionRepository
}

// NewPredictionUsecase はPredictionUsecaseの新しいインスタンスを生成します。
func NewPredictionUsecase(repo PredictionRepository) *PredictionUsecase {
	return &PredictionUsecase{repo: repo}
}

// GetPrediction は指定銘柄の予測を取得し、表示可能であることを検証して返します。
// interval が空の場合は既定値、horizon が範囲外の場合は既定値を使用します。
func (u *PredictionUsecase) GetPrediction(ctx context.Context, symbol, interval string, horizon int) (entity.Prediction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return entity.Prediction{}, ErrEmptySymbol
	}
	iv := timeframe.Default
	if interval != "" {
		parsed, err := timeframe.Parse(interval)
		if err != nil {
			return entity.Prediction{}, err
		}
		iv = parsed
	}
	if horizon < 1 || horizon > timeframe.MaxHorizon {
		horizon = timeframe.DefaultHorizon
	}

	p, err := u.repo.Predict(ctx, symbol, iv.String(), horizon)
	if err != nil {
		return entity.Prediction{}, fmt.Errorf("predict %s (%s): %w", symbol, iv, err)
	}
	if err := Validate(p); err != nil {
		return entity.Prediction{}, err
	}
	return p, nil
}

// Validate は描画前の検証です。metrics の存在、ローソク足が空でないこと、
// current/predicted が有限の数値であることを確認します。
func Validate(p entity.Prediction) error {
	if p.Metrics == nil {
		return ErrNoMetrics
	}
	if len(p.Candles) == 0 {
		return ErrNoCandles
	}
	if !finite(p.Metrics.Current) || !finite(p.Metrics.Predicted) {
		return ErrNonFinitePrice
	}
	return nil
}

// ResolveInterval prefers the interval echoed by the backend and falls back to the requested one.
func ResolveInterval(p entity.Prediction, requested timeframe.Interval) timeframe.Interval {
	if iv, err := timeframe.Parse(p.Interval); err == nil {
		return iv
	}
	return requested
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
