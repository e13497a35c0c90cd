package dto

// MarketItem is one card of GET /v1/market.
type MarketItem struct {
	Rank       int      `json:"rank"`
	Symbol     string   `json:"symbol"`
	Pair       string   `json:"pair"`
	Image      string   `json:"image,omitempty"`
	Current    *float64 `json:"current"`
	Predicted  *float64 `json:"predicted"`
	PctChange  *float64 `json:"pct_change"`
	Change     string   `json:"change"`
	Confidence float64  `json:"confidence"`
	Trend      string   `json:"trend"`
	AIPick     bool     `json:"ai_pick"`
}

// MarketResponse is the body of GET /v1/market.
type MarketResponse struct {
	Interval    string       `json:"interval"`
	Mode        string       `json:"mode"`
	LastUpdated string       `json:"last_updated"`
	Items       []MarketItem `json:"items"`
}
