// Package entity はダッシュボードのセッションでやり取りするメッセージを定義します。
package entity

// Page is the page a session drives.
type Page string

const (
	PagePrediction Page = "prediction"
	PageMarket     Page = "market"
)

// ParsePage returns PageMarket for "market" and PagePrediction otherwise.
func ParsePage(s string) Page {
	if Page(s) == PageMarket {
		return PageMarket
	}
	return PagePrediction
}

// MessageType is the kind of browser event sent over the session socket.
type MessageType string

const (
	MsgSelect         MessageType = "select"
	MsgRefresh        MessageType = "refresh"
	MsgTimeframe      MessageType = "timeframe"
	MsgSearch         MessageType = "search"
	MsgVisibility     MessageType = "visibility"
	MsgMarketMode     MessageType = "market_mode"
	MsgMarketSearch   MessageType = "market_search"
	MsgMarketInterval MessageType = "market_interval"
)

// Message はブラウザから届くイベントです。Value の意味は Type ごとに異なります。
type Message struct {
	Type  MessageType `json:"type"`
	Value string      `json:"value"`
}

// Visibility values carried by MsgVisibility.
const (
	VisibilityVisible = "visible"
	VisibilityHidden  = "hidden"
)
