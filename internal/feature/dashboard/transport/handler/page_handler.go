// Package handler はダッシュボードの HTML ページを配信します。
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crypto_dashboard/internal/feature/dashboard/domain/entity"
	jwtmw "crypto_dashboard/internal/platform/jwt"
	"crypto_dashboard/internal/shared/timeframe"
)

// ConsentChecker decides whether the cookie banner is shown.
type ConsentChecker interface {
	ShowConsentBanner(ctx context.Context, visitorID string) bool
}

// PageData is the template data of both pages.
type PageData struct {
	Page       entity.Page
	Interval   timeframe.Interval
	Intervals  []timeframe.Interval
	Symbol     string
	ShowBanner bool
}

// PageHandler renders the page shells. All content arrives later over /ws.
type PageHandler struct {
	consent ConsentChecker
}

// NewPageHandler creates a PageHandler. consent may be nil, which hides the banner.
func NewPageHandler(consent ConsentChecker) *PageHandler {
	return &PageHandler{consent: consent}
}

// Prediction は予測ページを返します。
// GET /?symbol=BTCUSDT&interval=1h
func (h *PageHandler) Prediction(c *gin.Context) {
	h.render(c, "index.html", entity.PagePrediction)
}

// Market は市場一覧ページを返します。
// GET /visualize?interval=1d
func (h *PageHandler) Market(c *gin.Context) {
	h.render(c, "visualize.html", entity.PageMarket)
}

func (h *PageHandler) render(c *gin.Context, name string, page entity.Page) {
	data := PageData{
		Page:      page,
		Interval:  timeframe.OrDefault(c.Query("interval")),
		Intervals: []timeframe.Interval{timeframe.Hour, timeframe.Day, timeframe.Week},
		Symbol:    strings.ToUpper(strings.TrimSpace(c.Query("symbol"))),
	}
	if h.consent != nil {
		data.ShowBanner = h.consent.ShowConsentBanner(c.Request.Context(), jwtmw.VisitorID(c))
	}
	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, name, data)
}
