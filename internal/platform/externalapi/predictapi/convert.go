package predictapi

import (
	"strings"

	marketentity "crypto_dashboard/internal/feature/market/domain/entity"
	predentity "crypto_dashboard/internal/feature/prediction/domain/entity"
	"crypto_dashboard/internal/platform/externalapi/predictapi/dto"
)

// toPrediction はDTOをドメインエンティティに変換します。
// 終値（または price）を持たないローソク足は捨てます。
func toPrediction(d dto.PredictionPayload) predentity.Prediction {
	p := predentity.Prediction{
		Symbol:     strings.ToUpper(strings.TrimSpace(d.Symbol)),
		Confidence: d.Confidence.Ptr(),
		Trend:      toTrend(d.Trend),
	}
	if d.Meta != nil {
		p.Interval = d.Meta.Interval
	}
	if m := d.Metrics; m != nil {
		p.Metrics = &predentity.Metrics{
			Current:        m.Current.Ptr(),
			Predicted:      m.Predicted.Ptr(),
			Diff:           m.Diff.Ptr(),
			PctChange:      m.PctChange.Ptr(),
			CurrentPriceAt: m.CurrentPriceAt,
		}
	}
	if d.Chart == nil {
		return p
	}

	for _, c := range d.Chart.Candles {
		t, ok := c.Time.Float()
		if !ok {
			continue
		}
		closing, ok := c.Close.Float()
		if !ok {
			if closing, ok = c.Price.Float(); !ok {
				continue
			}
		}
		open, _ := c.Open.Float()
		high, _ := c.High.Float()
		low, _ := c.Low.Float()
		vol, _ := c.Volume.Float()
		p.Candles = append(p.Candles, predentity.Candle{
			Time: int64(t), Open: open, High: high, Low: low, Close: closing, Volume: vol,
		})
	}
	if d.Chart.Prediction != nil {
		for _, f := range d.Chart.Prediction.Future {
			t, okT := f.Time.Float()
			v, okV := f.Value.Float()
			if okT && okV {
				p.Future = append(p.Future, predentity.FuturePoint{Time: int64(t), Value: v})
			}
		}
	}
	return p
}

// toMarketItem converts one overview entry, accepting both the nested and the flat layout.
func toMarketItem(it dto.MarketItem, interval string) marketentity.Item {
	out := marketentity.Item{Rank: it.Rank, Image: it.Image}
	if it.Data != nil {
		out.Prediction = toPrediction(*it.Data)
		if out.Prediction.Interval == "" {
			out.Prediction.Interval = interval
		}
		return out
	}

	pred := predentity.Prediction{
		Symbol:     strings.ToUpper(strings.TrimSpace(it.Symbol)),
		Interval:   interval,
		Confidence: it.Confidence.Ptr(),
		Trend:      toTrend(it.Direction),
	}
	cur, okCur := it.CurrentPrice.Float()
	next, okNext := it.PredictedPrice.Float()
	if okCur && okNext {
		diff := next - cur
		pred.Metrics = &predentity.Metrics{
			Current:   it.CurrentPrice.Ptr(),
			Predicted: it.PredictedPrice.Ptr(),
			Diff:      &diff,
			PctChange: it.PctChange.Ptr(),
		}
	}
	out.Prediction = pred
	return out
}

func toTrend(s string) predentity.Trend {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP", "BULLISH":
		return predentity.TrendUp
	case "DOWN", "BEARISH":
		return predentity.TrendDown
	}
	return predentity.TrendNeutral
}
