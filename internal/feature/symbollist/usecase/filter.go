package usecase

import (
	"strings"

	"crypto_dashboard/internal/feature/symbollist/domain/entity"
)

// Filter は銘柄コードまたは表示名に keyword を含む銘柄を、元の順序のまま返します（大文字小文字を区別しない）。
// keyword が空の場合は全件のコピーを返します。入力スライスは変更しません。
func Filter(symbols []entity.Symbol, keyword string) []entity.Symbol {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]entity.Symbol, 0, len(symbols))
	for _, s := range symbols {
		if kw == "" ||
			strings.Contains(strings.ToLower(s.Code), kw) ||
			strings.Contains(strings.ToLower(s.Name), kw) {
			out = append(out, s)
		}
	}
	return out
}
