package dto

import (
	"bytes"
	"encoding/json"
)

// SymbolItem is one entry of GET /symbols. The backend sends either an object or a bare symbol string.
type SymbolItem struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Image  string `json:"image"`
}

func (s *SymbolItem) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		*s = SymbolItem{}
		return json.Unmarshal(b, &s.Symbol)
	}
	type plain SymbolItem
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = SymbolItem(p)
	return nil
}

// Candle is one chart candle. Some payloads carry only "price" instead of OHLC.
type Candle struct {
	Time   Number `json:"time"`
	Open   Number `json:"open"`
	High   Number `json:"high"`
	Low    Number `json:"low"`
	Close  Number `json:"close"`
	Price  Number `json:"price"`
	Volume Number `json:"volume"`
}

// FuturePoint is a predicted value.
type FuturePoint struct {
	Time  Number `json:"time"`
	Value Number `json:"value"`
}

// Metrics is the numeric block of a prediction.
type Metrics struct {
	Current        Number `json:"current"`
	Predicted      Number `json:"predicted"`
	Diff           Number `json:"diff"`
	PctChange      Number `json:"pct_change"`
	CurrentPriceAt string `json:"current_price_at"`
}

// Chart holds the candles and the forecast.
type Chart struct {
	Candles    []Candle `json:"candles"`
	Prediction *struct {
		Future []FuturePoint `json:"future"`
	} `json:"prediction"`
}

// PredictionPayload is the "data" object of GET /predict and of market-overview items.
type PredictionPayload struct {
	Symbol     string   `json:"symbol"`
	Trend      string   `json:"trend"`
	Confidence Number   `json:"confidence"`
	Metrics    *Metrics `json:"metrics"`
	Chart      *Chart   `json:"chart"`
	Meta       *struct {
		Interval    string    `json:"interval"`
		Horizon     int       `json:"horizon"`
		GeneratedAt Timestamp `json:"generated_at"`
	} `json:"meta"`
}

// PredictResponse represents the JSON response of GET /predict.
type PredictResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Meta   *struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Data *PredictionPayload `json:"data"`
}

// AccuracyResponse represents the JSON response of GET /accuracy.
type AccuracyResponse struct {
	Accuracy    Number    `json:"accuracy"`
	MAE         Number    `json:"mae"`
	Total       Number    `json:"total"`
	GeneratedAt Timestamp `json:"generated_at"`
}

// MarketItem is one entry of the market overview. Older snapshots flatten the
// prediction into the item instead of nesting it under "data".
type MarketItem struct {
	Rank  int                `json:"rank"`
	Image string             `json:"image"`
	Data  *PredictionPayload `json:"data"`

	Symbol         string `json:"symbol"`
	CurrentPrice   Number `json:"current_price"`
	PredictedPrice Number `json:"predicted_price"`
	PctChange      Number `json:"pct_change"`
	Confidence     Number `json:"confidence"`
	Direction      string `json:"direction"`
}

// MarketOverviewResponse represents the JSON response of GET /api/market-overview.
// Items is a pointer so that a missing field can be told apart from an empty list.
type MarketOverviewResponse struct {
	Items *[]MarketItem `json:"items"`
	Meta  struct {
		GeneratedAt Timestamp `json:"generated_at"`
	} `json:"meta"`
	Error string `json:"error,omitempty"`
}
