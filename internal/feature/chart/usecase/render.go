package usecase

import (
	"fmt"
	"html"
	"strings"

	"crypto_dashboard/internal/feature/chart/domain/entity"
	"crypto_dashboard/internal/shared/pricefmt"
	"crypto_dashboard/internal/shared/timeframe"
)

// Placeholder is returned instead of a chart when there are no candles.
const Placeholder = `<p class="chart-empty">No data available</p>`

const (
	pastStroke  = "#cbd5e1"
	axisLabel   = "#cbd5e1"
	tickLabel   = "#64748b"
	markerFill  = "#020617"
	areaGradTop = "#6366f1"
)

// Render はローソク足の終値と予測点から SVG チャートを生成し、<div> で包んで返します。
// ローソク足が空の場合は Placeholder を返します。
func Render(candles []entity.PricePoint, future *entity.FuturePoint, diff float64, iv timeframe.Interval, mode entity.Mode) string {
	return RenderKeyed("", candles, future, diff, iv, mode)
}

// RenderKeyed is Render with key appended to the element ids, for pages that show several charts.
func RenderKeyed(key string, candles []entity.PricePoint, future *entity.FuturePoint, diff float64, iv timeframe.Interval, mode entity.Mode) string {
	g, ok := Build(candles, future, diff, iv, mode)
	if !ok {
		return Placeholder
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="chart chart-%s">`, g.Mode)
	writeSVG(&b, g, key)
	b.WriteString(`</div>`)
	return b.String()
}

// RenderSVG returns a standalone SVG document, or false when there is nothing to draw.
func RenderSVG(candles []entity.PricePoint, future *entity.FuturePoint, diff float64, iv timeframe.Interval, mode entity.Mode) (string, bool) {
	g, ok := Build(candles, future, diff, iv, mode)
	if !ok {
		return "", false
	}
	var b strings.Builder
	writeSVG(&b, g, "")
	return b.String(), true
}

func writeSVG(b *strings.Builder, g Geometry, key string) {
	d := g.Dims
	m := d.Margin
	cw, ch := d.ChartWidth(), d.ChartHeight()
	gradID := "areaGradient-" + string(g.Mode)
	if k := idSafe(key); k != "" {
		gradID += "-" + k
	}

	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="100%%" height="%s" preserveAspectRatio="xMidYMin meet">`,
		num(d.Width), num(d.Height), num(d.Height))
	fmt.Fprintf(b, `<defs><linearGradient id="%s" x1="0" y1="0" x2="0" y2="1">`+
		`<stop offset="0%%" stop-color="%s" stop-opacity="0.2"/><stop offset="100%%" stop-color="%s" stop-opacity="0"/>`+
		`</linearGradient></defs>`, gradID, areaGradTop, areaGradTop)

	// horizontal gridlines: top, middle (dashed), bottom
	fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="rgba(255,255,255,0.1)"/>`,
		num(m.Left), num(m.Top), num(m.Left+cw), num(m.Top))
	fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="rgba(255,255,255,0.05)" stroke-dasharray="4 4"/>`,
		num(m.Left), num(m.Top+ch/2), num(m.Left+cw), num(m.Top+ch/2))
	fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="rgba(255,255,255,0.2)"/>`,
		num(m.Left), num(m.Top+ch), num(m.Left+cw), num(m.Top+ch))

	labelY := m.Top + ch + float64(d.FontSize) + 4
	for _, t := range g.Ticks {
		x := m.Left + t.X
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="rgba(255,255,255,0.05)"/>`,
			num(x), num(m.Top), num(x), num(m.Top+ch))
		fmt.Fprintf(b, `<text class="tick" x="%s" y="%s" text-anchor="%s" font-size="%d" fill="%s" font-weight="bold">%s</text>`,
			num(x), num(labelY), t.Anchor, d.FontSize, tickLabel, html.EscapeString(t.Label))
	}
	fmt.Fprintf(b, `<text class="now" x="%s" y="%s" text-anchor="%s" font-size="%d" fill="%s" font-weight="bold">%s</text>`,
		num(m.Left+g.Now.X), num(labelY), g.Now.Anchor, d.FontSize, axisLabel, html.EscapeString(g.Now.Label))

	for _, l := range g.YLabels {
		fmt.Fprintf(b, `<text class="y-label" x="%s" y="%s" text-anchor="end" font-size="%d" fill="%s" font-weight="bold">%s</text>`,
			num(m.Left-10), num(m.Top+l.Y+6), d.FontSize, axisLabel, yLabelText(l.Value, d.FontSize))
	}

	boundary := g.Boundary()
	bx, by := m.Left+boundary.X, m.Top+boundary.Y

	fmt.Fprintf(b, `<path class="area" d="M %s,%s %s L %s,%s L %s,%s Z" fill="url(#%s)"/>`,
		num(m.Left+g.Past[0].X), num(m.Top+g.Past[0].Y), lineTo(g.Past[1:], m),
		num(bx), num(m.Top+ch), num(m.Left+g.Past[0].X), num(m.Top+ch), gradID)

	fmt.Fprintf(b, `<polyline class="past" points="%s" fill="none" stroke="%s" stroke-width="2.5" stroke-linecap="round"/>`,
		pointList(g.Past, m), pastStroke)

	fmt.Fprintf(b, `<line class="now-line" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-dasharray="3 3" opacity="0.4"/>`,
		num(bx), num(m.Top), num(bx), num(m.Top+ch), g.Color)
	if line := g.ForecastLine(); line != nil {
		fmt.Fprintf(b, `<polyline class="forecast" points="%s" fill="none" stroke="%s" stroke-width="4" stroke-dasharray="8 5" stroke-linecap="round"/>`,
			pointList(line, m), g.Color)
	}

	fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="6" fill="%s" stroke="%s" stroke-width="2.5"/>`, num(bx), num(by), markerFill, g.Color)
	fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="2.5" fill="%s"/>`, num(bx), num(by), g.Color)
	b.WriteString(`</svg>`)
}

// yLabelText renders a price label, drawing the zero count of compact prices as a subscript tspan.
func yLabelText(v float64, fontSize int) string {
	if c, ok := pricefmt.CompactParts(v); ok {
		sign := ""
		if v < 0 {
			sign = "-"
		}
		return fmt.Sprintf(`%s0.0<tspan baseline-shift="sub" font-size="%d">%d</tspan>%s`, sign, fontSize-4, c.ZeroCount, c.Significant)
	}
	return html.EscapeString(pricefmt.Price(v))
}

func pointList(points []Point, m entity.Margin) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = num(m.Left+p.X) + "," + num(m.Top+p.Y)
	}
	return strings.Join(parts, " ")
}

func lineTo(points []Point, m entity.Margin) string {
	var b strings.Builder
	for _, p := range points {
		b.WriteString("L ")
		b.WriteString(num(m.Left + p.X))
		b.WriteString(",")
		b.WriteString(num(m.Top + p.Y))
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String())
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func idSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, s)
}
