package jwtmw

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextVisitorID is the gin context key holding the visitor id.
const ContextVisitorID = "visitorID"

// CookieConfig configures the visitor cookie.
type CookieConfig struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// VisitorCookie は署名付きクッキーから訪問者IDを取り出してコンテキストに設定する Gin ミドルウェアです。
// クッキーが無い、または検証に失敗した場合は新しいIDを発行してクッキーを付け直します。
// 認証ではないため、リクエストを拒否することはありません。
func VisitorCookie(s *Signer, cfg CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read and verify the existing cookie
		if raw, err := c.Cookie(cfg.Name); err == nil && raw != "" {
			if id, err := s.ParseToken(raw); err == nil {
				c.Set(ContextVisitorID, id)
				c.Next()
				return
			}
		}

		// 2. Issue a new visitor id
		id := uuid.NewString()
		token, err := s.GenerateToken(id)
		if err != nil {
			slog.Error("failed to issue visitor token", "error", err)
		} else {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.Name, token, cfg.MaxAge, "/", "", cfg.Secure, true)
		}
		c.Set(ContextVisitorID, id)

		// 3. Pass control to the next handler
		c.Next()
	}
}

// VisitorID returns the visitor id set by VisitorCookie, or "".
func VisitorID(c *gin.Context) string {
	return c.GetString(ContextVisitorID)
}
