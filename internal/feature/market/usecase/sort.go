package usecase

import (
	"math"
	"slices"
	"strings"

	"crypto_dashboard/internal/feature/market/domain/entity"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/pricefmt"
)

// SortItems は pct_change で並べ替えた新しいスライスを返します。
// gainers は降順、losers は昇順です。pct_change が欠けている項目は末尾に置きます。
// 同値の項目はサーバー側の順序を保ちます。
func SortItems(items []entity.Item, mode appstate.MarketMode) []entity.Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b entity.Item) int {
		pa, pb := a.PctChange(), b.PctChange()
		na, nb := math.IsNaN(pa) || math.IsInf(pa, 0), math.IsNaN(pb) || math.IsInf(pb, 0)
		switch {
		case na && nb:
			return 0
		case na:
			return 1
		case nb:
			return -1
		}
		if mode == appstate.ModeLosers {
			return cmpFloat(pa, pb)
		}
		return cmpFloat(pb, pa)
	})
	return out
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FilterItems returns the items whose symbol code or pair label contains keyword,
// ignoring case. An empty keyword returns a copy of items.
func FilterItems(items []entity.Item, keyword string) []entity.Item {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return slices.Clone(items)
	}
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		code := it.Symbol()
		if strings.Contains(strings.ToLower(code), kw) || strings.Contains(strings.ToLower(pricefmt.Pair(code)), kw) {
			out = append(out, it)
		}
	}
	return out
}
