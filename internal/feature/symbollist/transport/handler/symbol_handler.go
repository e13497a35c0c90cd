package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"crypto_dashboard/internal/api"
	"crypto_dashboard/internal/feature/symbollist/domain/entity"
	"crypto_dashboard/internal/feature/symbollist/transport/http/dto"
	"crypto_dashboard/internal/shared/pricefmt"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	ListSymbols(ctx context.Context, interval, keyword string) ([]entity.Symbol, error)
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は時間足ごとの銘柄一覧を取得するAPIです。
//
// エンドポイント例:
// GET /v1/symbols?interval=1h&q=btc
//
// パラメータ不正は400、バックエンドの取得失敗は502を返します。
func (h *SymbolHandler) List(c *gin.Context) {
	params, err := api.BindSymbolsParams(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	symbols, err := h.uc.ListSymbols(c.Request.Context(), params.Interval, params.Q)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Warn("list symbols failed", "interval", params.Interval, "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, dto.SymbolItem{
			Symbol: s.Code,
			Name:   s.Name,
			Pair:   pricefmt.Pair(s.Code),
			Image:  s.Image,
		})
	}
	c.JSON(http.StatusOK, out)
}
