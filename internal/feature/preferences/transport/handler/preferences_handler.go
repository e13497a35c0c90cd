package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"crypto_dashboard/internal/api"
	"crypto_dashboard/internal/feature/preferences/domain/entity"
	"crypto_dashboard/internal/feature/preferences/transport/http/dto"
	"crypto_dashboard/internal/feature/preferences/usecase"
	jwtmw "crypto_dashboard/internal/platform/jwt"
)

// PreferencesUsecase defines the usecase interface for the preferences handler.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type PreferencesUsecase interface {
	Get(ctx context.Context, visitorID string) (entity.Preference, error)
	SetConsent(ctx context.Context, visitorID, answer string) (entity.Consent, error)
}

// PreferencesHandler は訪問者設定に関するHTTPリクエストを処理します。
type PreferencesHandler struct {
	uc PreferencesUsecase
}

func NewPreferencesHandler(uc PreferencesUsecase) *PreferencesHandler {
	return &PreferencesHandler{uc: uc}
}

// Get は現在の訪問者の設定を返します。
// GET /v1/preferences
func (h *PreferencesHandler) Get(c *gin.Context) {
	p, err := h.uc.Get(c.Request.Context(), jwtmw.VisitorID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PreferenceResponse{
		LastSymbol:        p.LastSymbol,
		Consent:           string(p.Consent),
		ShowConsentBanner: p.Consent == entity.ConsentUnset,
	})
}

// SetConsent はクッキーバナーの回答を保存します。
// PUT /v1/preferences/consent  {"consent":"accepted"}
func (h *PreferencesHandler) SetConsent(c *gin.Context) {
	var req dto.ConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	consent, err := h.uc.SetConsent(c.Request.Context(), jwtmw.VisitorID(c), req.Consent)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PreferenceResponse{Consent: string(consent)})
}

func (h *PreferencesHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidConsent):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrNoVisitor):
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("preferences request failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}
