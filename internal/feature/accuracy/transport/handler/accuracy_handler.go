// Package handler はaccuracyフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crypto_dashboard/internal/api"
	"crypto_dashboard/internal/feature/accuracy/domain/entity"
	"crypto_dashboard/internal/feature/accuracy/usecase"
	"crypto_dashboard/internal/shared/timeframe"
)

// AccuracyUsecase は精度取得のユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AccuracyUsecase interface {
	GetAccuracy(ctx context.Context, symbol, interval string) (entity.Stats, error)
}

// AccuracyHandler は精度に関するHTTPリクエストを処理します。
type AccuracyHandler struct {
	uc AccuracyUsecase
}

func NewAccuracyHandler(uc AccuracyUsecase) *AccuracyHandler {
	return &AccuracyHandler{uc: uc}
}

// GetAccuracy は精度表示領域への更新をJSONで返します。
//
// エンドポイント例:
// GET /v1/accuracy?symbol=BTCUSDT&interval=1h
func (h *AccuracyHandler) GetAccuracy(c *gin.Context) {
	params, err := api.BindAccuracyParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	stats, err := h.uc.GetAccuracy(c.Request.Context(), params.Symbol, params.Interval)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		return
	case errors.Is(err, usecase.ErrEmptySymbol), errors.Is(err, timeframe.ErrUnknownInterval):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	default:
		slog.Warn("accuracy request failed", "symbol", params.Symbol, "interval", params.Interval, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.PatchResponse{Patches: usecase.Patches(stats, time.Now())})
}
