package usecase

import (
	"math"

	"crypto_dashboard/internal/feature/chart/domain/entity"
	"crypto_dashboard/internal/shared/timeframe"
)

// paddingRatio is the share of the raw price range added above and below the series.
const paddingRatio = 0.15

// Point はチャート領域内の座標です（余白を含まない、左上原点）。
type Point struct {
	X, Y float64
}

// Tick is a labelled vertical position on the time axis.
type Tick struct {
	X      float64
	Label  string
	Anchor string
}

// YLabel is a labelled horizontal gridline.
type YLabel struct {
	Value float64
	Y     float64
}

// Geometry はチャート描画に必要な座標と軸情報をまとめたものです。
// Past と Future の座標はすべて [0, ChartWidth] × [0, ChartHeight] に収まります。
type Geometry struct {
	Mode entity.Mode
	Dims entity.Dimensions

	Min, Max, Mid    float64
	MinTime, MaxTime int64

	// Past holds one point per finite candle close.
	Past []Point
	// Future holds the synthesized forecast points: empty or exactly two.
	Future []Point

	Ticks   []Tick
	Now     Tick
	YLabels [3]YLabel
	Color   string
}

// Boundary is the last historical point, where the forecast segment starts.
func (g Geometry) Boundary() Point {
	return g.Past[len(g.Past)-1]
}

// ForecastLine returns the forecast polyline: the boundary followed by the future points.
func (g Geometry) ForecastLine() []Point {
	if len(g.Future) == 0 {
		return nil
	}
	return append([]Point{g.Boundary()}, g.Future...)
}

// Build は価格系列と予測値からチャートの幾何情報を計算します。
// 有限の終値が1つもない場合は false を返します。
func Build(candles []entity.PricePoint, future *entity.FuturePoint, diff float64, iv timeframe.Interval, mode entity.Mode) (Geometry, bool) {
	past := finitePoints(candles)
	if len(past) == 0 {
		return Geometry{}, false
	}
	dims := entity.DimensionsFor(mode)
	last := past[len(past)-1]
	forecast := futureSeries(last, future, iv)

	all := make([]entity.PricePoint, 0, len(past)+len(forecast))
	all = append(all, past...)
	all = append(all, forecast...)

	rawMin, rawMax := priceBounds(all)
	spread := rawMax - rawMin
	if spread == 0 {
		spread = 1
	}
	pad := spread * paddingRatio

	g := Geometry{
		Mode:  mode,
		Dims:  dims,
		Min:   rawMin - pad,
		Max:   rawMax + pad,
		Color: entity.ColorFor(diff),
	}
	g.Mid = (g.Min + g.Max) / 2
	g.MinTime, g.MaxTime = timeBounds(all)

	g.Past = g.project(past)
	g.Future = g.project(forecast)
	g.Ticks = g.timeTicks(past, iv)

	nowLabel := "Now"
	if mode == entity.ModeFull {
		nowLabel = "Now (" + iv.FormatTick(last.Time) + ")"
	}
	g.Now = Tick{X: g.Boundary().X, Label: nowLabel, Anchor: "middle"}

	ch := dims.ChartHeight()
	g.YLabels = [3]YLabel{
		{Value: g.Max, Y: 0},
		{Value: g.Mid, Y: ch / 2},
		{Value: g.Min, Y: ch},
	}
	return g, true
}

// futureSeries は予測値と、同じ傾きで1足先へ延長した点の2点を返します。
func futureSeries(last entity.PricePoint, future *entity.FuturePoint, iv timeframe.Interval) []entity.PricePoint {
	if future == nil || !isFinite(future.Value) {
		return nil
	}
	slope := future.Value - last.Price
	return []entity.PricePoint{
		{Time: future.Time, Price: future.Value},
		{Time: future.Time + iv.Millis(), Price: future.Value + slope},
	}
}

func (g Geometry) project(points []entity.PricePoint) []Point {
	if len(points) == 0 {
		return nil
	}
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: g.x(p.Time), Y: g.y(p.Price)}
	}
	return out
}

func (g Geometry) x(t int64) float64 {
	span := float64(g.MaxTime - g.MinTime)
	if span == 0 {
		span = 1
	}
	cw := g.Dims.ChartWidth()
	return clamp(float64(t-g.MinTime)/span*cw, 0, cw)
}

func (g Geometry) y(price float64) float64 {
	span := g.Max - g.Min
	if span == 0 {
		span = 1
	}
	ch := g.Dims.ChartHeight()
	return clamp(ch-(price-g.Min)/span*ch, 0, ch)
}

// timeTicks places labels at every step-th candle, excluding the last one which carries "Now".
func (g Geometry) timeTicks(past []entity.PricePoint, iv timeframe.Interval) []Tick {
	n := len(past)
	step := n / g.Dims.TickDensity
	if step < 1 {
		step = 1
	}
	var ticks []Tick
	for i := 0; i < n-1; i += step {
		anchor := "middle"
		if i == 0 {
			anchor = "start"
		}
		ticks = append(ticks, Tick{
			X:      g.x(past[i].Time),
			Label:  iv.FormatTick(past[i].Time),
			Anchor: anchor,
		})
	}
	return ticks
}

func finitePoints(candles []entity.PricePoint) []entity.PricePoint {
	out := make([]entity.PricePoint, 0, len(candles))
	for _, c := range candles {
		if isFinite(c.Price) {
			out = append(out, c)
		}
	}
	return out
}

func priceBounds(points []entity.PricePoint) (lo, hi float64) {
	lo, hi = points[0].Price, points[0].Price
	for _, p := range points[1:] {
		lo = math.Min(lo, p.Price)
		hi = math.Max(hi, p.Price)
	}
	return lo, hi
}

func timeBounds(points []entity.PricePoint) (lo, hi int64) {
	lo, hi = points[0].Time, points[0].Time
	for _, p := range points[1:] {
		lo = min(lo, p.Time)
		hi = max(hi, p.Time)
	}
	return lo, hi
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
