package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"crypto_dashboard/internal/api"
	"crypto_dashboard/internal/feature/market/domain/entity"
	"crypto_dashboard/internal/feature/market/transport/http/dto"
	"crypto_dashboard/internal/feature/market/usecase"
	predentity "crypto_dashboard/internal/feature/prediction/domain/entity"
	prediction "crypto_dashboard/internal/feature/prediction/usecase"
	"crypto_dashboard/internal/shared/appstate"
	"crypto_dashboard/internal/shared/pricefmt"
)

// MarketUsecase は市場一覧のユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type MarketUsecase interface {
	GetOverview(ctx context.Context, interval string, limit int, mode appstate.MarketMode, keyword string) ([]usecase.Ranked, entity.Overview, error)
}

// MarketHandler は市場一覧に関するHTTPリクエストを処理します。
type MarketHandler struct {
	uc MarketUsecase
}

func NewMarketHandler(uc MarketUsecase) *MarketHandler {
	return &MarketHandler{uc: uc}
}

// GetMarket は並べ替え・絞り込み済みの市場一覧を返します。
//
// エンドポイント例:
// GET /v1/market?interval=1d&limit=100&mode=losers&q=eth
//
// パラメータ不正は400、バックエンドの取得失敗（items 欠落を含む）は502を返します。
func (h *MarketHandler) GetMarket(c *gin.Context) {
	params, err := api.BindMarketParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	mode := appstate.ParseMarketMode(params.Mode)

	ranked, ov, err := h.uc.GetOverview(c.Request.Context(), params.Interval, params.Limit, mode, params.Q)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Warn("market overview failed", "interval", params.Interval, "limit", params.Limit, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	items := make([]dto.MarketItem, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, toItem(r))
	}
	c.JSON(http.StatusOK, dto.MarketResponse{
		Interval:    params.Interval,
		Mode:        string(mode),
		LastUpdated: usecase.LastUpdated(ov.GeneratedAt),
		Items:       items,
	})
}

func toItem(r usecase.Ranked) dto.MarketItem {
	pred := r.Prediction
	m := pred.Metrics
	return dto.MarketItem{
		Rank:       r.Rank,
		Symbol:     pred.Symbol,
		Pair:       pricefmt.Pair(pred.Symbol),
		Image:      r.Image,
		Current:    m.Current,
		Predicted:  m.Predicted,
		PctChange:  m.PctChange,
		Change:     pricefmt.Diff(predentity.Value(m.Diff), predentity.Value(m.PctChange)),
		Confidence: prediction.Confidence(pred.Confidence),
		Trend:      prediction.BiasLabel(pred.Trend),
		AIPick:     r.Pick,
	}
}
