package router

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	accuracyhandler "crypto_dashboard/internal/feature/accuracy/transport/handler"
	pagehandler "crypto_dashboard/internal/feature/dashboard/transport/handler"
	"crypto_dashboard/internal/feature/dashboard/transport/ws"
	markethandler "crypto_dashboard/internal/feature/market/transport/handler"
	predictionhandler "crypto_dashboard/internal/feature/prediction/transport/handler"
	preferenceshandler "crypto_dashboard/internal/feature/preferences/transport/handler"
	symbollisthandler "crypto_dashboard/internal/feature/symbollist/transport/handler"
	platformhandler "crypto_dashboard/internal/platform/http/handler"
	jwtmw "crypto_dashboard/internal/platform/jwt"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Health      *platformhandler.HealthHandler
	Symbols     *symbollisthandler.SymbolHandler
	Prediction  *predictionhandler.PredictionHandler
	Accuracy    *accuracyhandler.AccuracyHandler
	Market      *markethandler.MarketHandler
	Preferences *preferenceshandler.PreferencesHandler
	Pages       *pagehandler.PageHandler
	Socket      *ws.Handler
}

// Assets are the page templates and static files.
type Assets struct {
	Templates *template.Template
	Static    fs.FS
}

func NewRouter(h Handlers, signer *jwtmw.Signer, cookie jwtmw.CookieConfig, assets Assets) *gin.Engine {
	r := gin.Default()

	// 訪問者クッキー不要
	// 導通確認用
	r.Match([]string{http.MethodGet, http.MethodHead, http.MethodOptions}, "/healthz", h.Health.Health)
	if assets.Static != nil {
		r.StaticFS("/static", http.FS(assets.Static))
	}

	// 読み取り専用の JSON API
	v1 := r.Group("/v1")
	{
		v1.GET("/symbols", h.Symbols.List)
		v1.GET("/prediction", h.Prediction.GetPrediction)
		v1.GET("/chart/:symbol", h.Prediction.GetChart)
		v1.GET("/accuracy", h.Accuracy.GetAccuracy)
		v1.GET("/market", h.Market.GetMarket)
	}

	// 訪問者クッキーが必要なルート
	// → クッキーが無ければ新しい訪問者IDを発行する
	visitor := r.Group("/")
	visitor.Use(jwtmw.VisitorCookie(signer, cookie))
	{
		visitor.GET("/v1/preferences", h.Preferences.Get)
		visitor.PUT("/v1/preferences/consent", h.Preferences.SetConsent)
		visitor.GET("/ws", h.Socket.Serve)
	}

	if assets.Templates != nil {
		r.SetHTMLTemplate(assets.Templates)
		visitor.GET("/", h.Pages.Prediction)
		visitor.GET("/visualize", h.Pages.Market)
	}

	return r
}
