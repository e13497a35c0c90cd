package usecase

import (
	"strings"

	"crypto_dashboard/internal/feature/market/domain/entity"
	"crypto_dashboard/internal/shared/appstate"
)

// PickCount is the number of leading gainers that receive the AI PICK badge.
const PickCount = 10

// Ranked は並べ替え後の1項目です。Pick は gainers 表示で上位 PickCount 件に入ったことを表します。
type Ranked struct {
	entity.Item
	Pick bool
}

// Usable drops items that cannot be rendered as a card (no metrics block).
func Usable(items []entity.Item) []entity.Item {
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if it.Prediction.Metrics != nil && strings.TrimSpace(it.Symbol()) != "" {
			out = append(out, it)
		}
	}
	return out
}

// Arrange sorts items by mode, marks the gainers' top picks, then applies keyword.
func Arrange(items []entity.Item, mode appstate.MarketMode, keyword string) []Ranked {
	sorted := SortItems(items, mode)
	picked := make(map[string]bool, PickCount)
	if mode == appstate.ModeGainers {
		for i := 0; i < len(sorted) && i < PickCount; i++ {
			picked[sorted[i].Symbol()] = true
		}
	}
	filtered := FilterItems(sorted, keyword)
	out := make([]Ranked, len(filtered))
	for i, it := range filtered {
		out[i] = Ranked{Item: it, Pick: picked[it.Symbol()]}
	}
	return out
}
