// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crypto_dashboard/internal/api"
)

// Checker reports the health of one dependency.
type Checker func(ctx context.Context) error

// HealthHandler は /healthz を処理します。
// 依存先（Redis・DB）はいずれも任意で、失敗しても 200 の "degraded" を返します。
type HealthHandler struct {
	checks map[string]Checker
}

// NewHealthHandler creates a HealthHandler. Nil checkers are skipped.
func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	h := &HealthHandler{checks: map[string]Checker{}}
	for name, c := range checks {
		if c != nil {
			h.checks[name] = c
		}
	}
	return h
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
		return
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	res := api.HealthResponse{Status: "ok"}
	if len(h.checks) > 0 {
		res.Components = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			res.Components[name] = "down: " + err.Error()
			res.Status = "degraded"
			continue
		}
		res.Components[name] = "up"
	}
	c.JSON(http.StatusOK, res)
}
