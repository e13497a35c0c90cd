package pricefmt

import "strings"

const quoteAsset = "USDT"

// Pair は "BTCUSDT" を "BTC / USDT" の形式に変換します。USDT 建てでない場合はそのまま返します。
func Pair(symbol string) string {
	base, ok := strings.CutSuffix(symbol, quoteAsset)
	if !ok || base == "" {
		return symbol
	}
	return base + " / " + quoteAsset
}

// Base returns the base asset of a USDT pair ("BTCUSDT" → "BTC").
func Base(symbol string) string {
	base, ok := strings.CutSuffix(symbol, quoteAsset)
	if !ok || base == "" {
		return symbol
	}
	return base
}
