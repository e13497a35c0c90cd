package entity

// PricePoint は時刻（epoch ミリ秒）と価格の組です。
type PricePoint struct {
	Time  int64
	Price float64
}

// FuturePoint is the model's predicted value at the next interval boundary.
type FuturePoint struct {
	Time  int64
	Value float64
}

// Mode selects the chart variant.
type Mode string

const (
	ModeFull Mode = "full"
	ModeMini Mode = "mini"
)

// ParseMode returns ModeMini for "mini" and ModeFull otherwise.
func ParseMode(s string) Mode {
	if Mode(s) == ModeMini {
		return ModeMini
	}
	return ModeFull
}

// Margin is the space reserved around the plotting area for labels.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Dimensions は SVG 全体のサイズと余白です。
type Dimensions struct {
	Width, Height float64
	Margin        Margin
	// FontSize of axis labels.
	FontSize int
	// TickDensity is the approximate number of time ticks.
	TickDensity int
}

// ChartWidth is the width of the plotting area.
func (d Dimensions) ChartWidth() float64 { return d.Width - d.Margin.Left - d.Margin.Right }

// ChartHeight is the height of the plotting area.
func (d Dimensions) ChartHeight() float64 { return d.Height - d.Margin.Top - d.Margin.Bottom }

// DimensionsFor returns the fixed layout of a mode.
func DimensionsFor(m Mode) Dimensions {
	if m == ModeMini {
		return Dimensions{
			Width: 400, Height: 140,
			Margin:   Margin{Top: 5, Right: 25, Bottom: 25, Left: 95},
			FontSize: 14, TickDensity: 3,
		}
	}
	return Dimensions{
		Width: 800, Height: 300,
		Margin:   Margin{Top: 8, Right: 35, Bottom: 28, Left: 125},
		FontSize: 18, TickDensity: 5,
	}
}

// Colors of the forecast segment keyed by the sign of the predicted diff.
const (
	ColorUp   = "#22c55e"
	ColorDown = "#ef4444"
	ColorFlat = "#94a3b8"
)

// ColorFor returns the forecast color for diff.
func ColorFor(diff float64) string {
	switch {
	case diff > 0:
		return ColorUp
	case diff < 0:
		return ColorDown
	}
	return ColorFlat
}
