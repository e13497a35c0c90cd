// Package entity defines the domain models for the prediction feature.
package entity

import (
	"math"

	chartentity "crypto_dashboard/internal/feature/chart/domain/entity"
)

// Candle represents one OHLCV candlestick. Time is the start of the period in epoch milliseconds.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// FuturePoint is a predicted value at a future interval boundary.
type FuturePoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// Metrics は予測の主要な数値です。バックエンドが数値を返さなかった項目は nil になります。
// PctChange はバックエンドが算出した値をそのまま使い、クライアント側で再計算しません。
type Metrics struct {
	Current        *float64 `json:"current"`
	Predicted      *float64 `json:"predicted"`
	Diff           *float64 `json:"diff"`
	PctChange      *float64 `json:"pct_change"`
	CurrentPriceAt string   `json:"current_price_at,omitempty"`
}

// Trend is the backend's directional call.
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendNeutral Trend = "NEUTRAL"
)

// Prediction は1銘柄・1時間足の予測スナップショットです。
type Prediction struct {
	Symbol     string        `json:"symbol"`
	Interval   string        `json:"interval,omitempty"`
	Metrics    *Metrics      `json:"metrics,omitempty"`
	Confidence *float64      `json:"confidence,omitempty"`
	Trend      Trend         `json:"trend,omitempty"`
	Candles    []Candle      `json:"candles,omitempty"`
	Future     []FuturePoint `json:"future,omitempty"`
}

// Value dereferences an optional number, yielding NaN when it is absent.
func Value(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// PricePoints converts candle closes into chart input.
func (p Prediction) PricePoints() []chartentity.PricePoint {
	out := make([]chartentity.PricePoint, len(p.Candles))
	for i, c := range p.Candles {
		out[i] = chartentity.PricePoint{Time: c.Time, Price: c.Close}
	}
	return out
}

// NextPoint returns the first future point, or nil when the backend sent none.
func (p Prediction) NextPoint() *chartentity.FuturePoint {
	if len(p.Future) == 0 {
		return nil
	}
	f := p.Future[0]
	return &chartentity.FuturePoint{Time: f.Time, Value: f.Value}
}

// Diff returns the predicted diff or NaN.
func (p Prediction) Diff() float64 {
	if p.Metrics == nil {
		return math.NaN()
	}
	return Value(p.Metrics.Diff)
}

// PctChange returns the backend-supplied percentage change or NaN.
func (p Prediction) PctChange() float64 {
	if p.Metrics == nil {
		return math.NaN()
	}
	return Value(p.Metrics.PctChange)
}
