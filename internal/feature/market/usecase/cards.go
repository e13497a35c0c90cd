package usecase

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	chartentity "crypto_dashboard/internal/feature/chart/domain/entity"
	chart "crypto_dashboard/internal/feature/chart/usecase"
	predentity "crypto_dashboard/internal/feature/prediction/domain/entity"
	prediction "crypto_dashboard/internal/feature/prediction/usecase"
	"crypto_dashboard/internal/shared/pricefmt"
	"crypto_dashboard/internal/shared/timeframe"
)

const (
	LoadingHTML = `<p class="market-status">Loading market data...</p>`
	FailedHTML  = `<p class="market-status error">Failed to load market data.</p>`
	EmptyHTML   = `<p class="market-status">No data</p>`

	lastUpdatedPrefix = "Last Updated (UTC) "
)

// Card is the template model of one market card.
type Card struct {
	Rank            int
	Symbol          string
	Pair            string
	Image           string
	Pick            bool
	TrendLabel      string
	TrendClass      string
	Current         template.HTML
	Target          template.HTML
	Change          template.HTML
	DirClass        string
	Chart           template.HTML
	ConfidenceWidth template.CSS
	ConfidenceText  string
}

var cardsTmpl = template.Must(template.New("cards").Parse(`{{range .}}<a class="market-card" href="/?symbol={{.Symbol}}">
<div class="card-head"><span class="rank">#{{.Rank}}</span>{{if .Image}}<img class="logo" src="{{.Image}}" alt="{{.Pair}}">{{end}}<span class="pair">{{.Pair}}</span>{{if .Pick}}<span class="badge ai-pick">AI PICK</span>{{end}}<span class="bias {{.TrendClass}}">{{.TrendLabel}}</span></div>
<div class="card-prices"><span class="current">{{.Current}}</span> → <span class="target">{{.Target}}</span></div>
<div class="card-change {{.DirClass}}">{{.Change}}</div>
{{.Chart}}
<div class="confidence"><div class="confidence-bar"><div class="confidence-fill" style="width: {{.ConfidenceWidth}}"></div></div><span class="confidence-text">{{.ConfidenceText}}</span></div>
</a>
{{end}}`))

// NewCard builds the card model of item. iv is used when the backend did not echo an interval.
func NewCard(item Ranked, iv timeframe.Interval) Card {
	pred := item.Prediction
	m := pred.Metrics
	if m == nil {
		m = &predentity.Metrics{}
	}
	diff := predentity.Value(m.Diff)
	conf := prediction.Confidence(pred.Confidence)
	return Card{
		Rank:            item.Rank,
		Symbol:          pred.Symbol,
		Pair:            pricefmt.Pair(pred.Symbol),
		Image:           item.Image,
		Pick:            item.Pick,
		TrendLabel:      prediction.BiasLabel(pred.Trend),
		TrendClass:      prediction.BiasClass(pred.Trend),
		Current:         template.HTML(pricefmt.USDHTML(predentity.Value(m.Current))),
		Target:          template.HTML(pricefmt.USDHTML(predentity.Value(m.Predicted))),
		Change:          template.HTML(pricefmt.DiffHTML(diff, predentity.Value(m.PctChange))),
		DirClass:        prediction.DirectionClass(diff),
		Chart:           template.HTML(chart.RenderKeyed(pred.Symbol, pred.PricePoints(), pred.NextPoint(), diff, prediction.ResolveInterval(pred, iv), chartentity.ModeMini)),
		ConfidenceWidth: template.CSS(fmt.Sprintf("%g%%", conf)),
		ConfidenceText:  pricefmt.Percent(conf),
	}
}

// RenderCards は一覧をカードの HTML に変換します。空の場合は "No data" を返します。
func RenderCards(items []Ranked, iv timeframe.Interval) (string, error) {
	if len(items) == 0 {
		return EmptyHTML, nil
	}
	cards := make([]Card, len(items))
	for i, it := range items {
		cards[i] = NewCard(it, iv)
	}
	var b strings.Builder
	if err := cardsTmpl.Execute(&b, cards); err != nil {
		return "", fmt.Errorf("render market cards: %w", err)
	}
	return b.String(), nil
}

// LastUpdated formats meta.generated_at as "Last Updated (UTC) YYYY-MM-DD HH:MM".
func LastUpdated(t *time.Time) string {
	if t == nil || t.IsZero() {
		return lastUpdatedPrefix + pricefmt.Placeholder
	}
	return lastUpdatedPrefix + t.UTC().Format("2006-01-02 15:04")
}
