// Package handler はpredictionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crypto_dashboard/internal/api"
	chartentity "crypto_dashboard/internal/feature/chart/domain/entity"
	chart "crypto_dashboard/internal/feature/chart/usecase"
	"crypto_dashboard/internal/feature/prediction/domain/entity"
	"crypto_dashboard/internal/feature/prediction/transport/http/dto"
	"crypto_dashboard/internal/feature/prediction/usecase"
	"crypto_dashboard/internal/shared/timeframe"
)

// PredictionUsecase は予測取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PredictionUsecase interface {
	GetPrediction(ctx context.Context, symbol, interval string, horizon int) (entity.Prediction, error)
}

// PredictionHandler は予測スナップショットとチャート画像のHTTPリクエストを処理します。
type PredictionHandler struct {
	uc      PredictionUsecase
	symbols usecase.SymbolLookup
}

// NewPredictionHandler は指定されたusecaseでPredictionHandlerの新しいインスタンスを生成します。
// symbols はヘッダーのロゴ解決に使われ、nil でも構いません。
func NewPredictionHandler(uc PredictionUsecase, symbols usecase.SymbolLookup) *PredictionHandler {
	return &PredictionHandler{uc: uc, symbols: symbols}
}

// GetPrediction は予測ビューの各領域への更新をJSONで返します。
//
// エンドポイント例:
// GET /v1/prediction?symbol=BTCUSDT&interval=1h&horizon=1
func (h *PredictionHandler) GetPrediction(c *gin.Context) {
	params, err := api.BindPredictionParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	pred, err := h.uc.GetPrediction(c.Request.Context(), params.Symbol, params.Interval, params.Horizon)
	if err != nil {
		h.writeError(c, params.Symbol, params.Interval, err)
		return
	}

	iv := usecase.ResolveInterval(pred, timeframe.OrDefault(params.Interval))
	symbol := strings.ToUpper(params.Symbol)
	c.JSON(http.StatusOK, dto.PredictionResponse{
		Symbol:   symbol,
		Interval: iv.String(),
		Patches:  usecase.Patches(pred, symbol, iv, h.symbols),
	})
}

// GetChart は予測チャートをSVG画像として返します。
//
// エンドポイント例:
// GET /v1/chart/BTCUSDT?interval=1d&mode=mini
func (h *PredictionHandler) GetChart(c *gin.Context) {
	params, err := api.BindChartParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	symbol := c.Param("symbol")

	pred, err := h.uc.GetPrediction(c.Request.Context(), symbol, params.Interval, timeframe.DefaultHorizon)
	if err != nil {
		h.writeError(c, symbol, params.Interval, err)
		return
	}

	iv := usecase.ResolveInterval(pred, timeframe.OrDefault(params.Interval))
	svg, ok := chart.RenderSVG(pred.PricePoints(), pred.NextPoint(), pred.Diff(), iv, chartentity.ParseMode(params.Mode))
	if !ok {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: usecase.NoDataText})
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/svg+xml; charset=utf-8", []byte(svg))
}

func (h *PredictionHandler) writeError(c *gin.Context, symbol, interval string, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		return
	case errors.Is(err, usecase.ErrEmptySymbol), errors.Is(err, timeframe.ErrUnknownInterval):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrNoMetrics), errors.Is(err, usecase.ErrNoCandles), errors.Is(err, usecase.ErrNonFinitePrice):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Warn("prediction request failed", "symbol", symbol, "interval", interval, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
	}
}
