// Package usecase は市場一覧の取得・並べ替え・カード描画を実装します。
package usecase

import (
	"context"
	"fmt"

	"crypto_dashboard/internal/feature/market/domain/entity"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/timeframe"
)

// DefaultLimit is the number of items requested when the caller does not specify one.
const DefaultLimit = 200

// MarketRepository abstracts the market-overview backend.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	MarketOverview(ctx context.Context, interval string, limit int) (entity.Overview, error)
}

// MarketUsecase serves the sorted and filtered overview to HTTP handlers.
type MarketUsecase struct {
	repo MarketRepository
}

func NewMarketUsecase(repo MarketRepository) *MarketUsecase {
	return &MarketUsecase{repo: repo}
}

// GetOverview は市場一覧を取得し、mode で並べ替えてから keyword で絞り込みます。
// AI PICK の判定は絞り込み前の順位で行うため、Ranked で返します。
func (u *MarketUsecase) GetOverview(ctx context.Context, interval string, limit int, mode appstate.MarketMode, keyword string) ([]Ranked, entity.Overview, error) {
	iv, err := timeframe.Parse(interval)
	if err != nil {
		return nil, entity.Overview{}, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	ov, err := u.repo.MarketOverview(ctx, iv.String(), limit)
	if err != nil {
		return nil, entity.Overview{}, fmt.Errorf("market overview (%s): %w", iv, err)
	}
	return Arrange(Usable(ov.Items), mode, keyword), ov, nil
}
