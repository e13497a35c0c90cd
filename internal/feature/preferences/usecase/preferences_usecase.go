// Package usecase は訪問者ごとの表示設定（最後に選んだ銘柄・クッキー同意）を扱います。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crypto_dashboard/internal/feature/preferences/domain/entity"
)

var (
	// ErrPreferenceNotFound is returned by repositories when the visitor has no row yet.
	ErrPreferenceNotFound = errors.New("preference not found")
	// ErrNoVisitor is returned when the request carries no visitor id.
	ErrNoVisitor = errors.New("visitor id is required")
	// ErrInvalidConsent is returned for answers other than accepted / declined.
	ErrInvalidConsent = errors.New("consent must be accepted or declined")
)

// PreferenceRepository は設定の永続化を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PreferenceRepository interface {
	Find(ctx context.Context, visitorID string) (entity.Preference, error)
	SaveLastSymbol(ctx context.Context, visitorID, symbol string) error
	SaveConsent(ctx context.Context, visitorID string, consent entity.Consent) error
}

type PreferencesUsecase struct {
	repo PreferenceRepository
}

// NewPreferencesUsecase はPreferencesUsecaseの新しいインスタンスを生成します。
func NewPreferencesUsecase(repo PreferenceRepository) *PreferencesUsecase {
	return &PreferencesUsecase{repo: repo}
}

// Get は訪問者の設定を返します。まだ保存されていない場合はゼロ値の設定を返します。
func (u *PreferencesUsecase) Get(ctx context.Context, visitorID string) (entity.Preference, error) {
	if visitorID == "" {
		return entity.Preference{}, ErrNoVisitor
	}
	p, err := u.repo.Find(ctx, visitorID)
	if errors.Is(err, ErrPreferenceNotFound) {
		return entity.Preference{VisitorID: visitorID}, nil
	}
	if err != nil {
		return entity.Preference{}, fmt.Errorf("find preference: %w", err)
	}
	return p, nil
}

// RememberSymbol は最後に選択された銘柄を保存します。空の銘柄は無視します。
func (u *PreferencesUsecase) RememberSymbol(ctx context.Context, visitorID, symbol string) error {
	if visitorID == "" {
		return ErrNoVisitor
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil
	}
	if err := u.repo.SaveLastSymbol(ctx, visitorID, symbol); err != nil {
		return fmt.Errorf("save last symbol: %w", err)
	}
	return nil
}

// SetConsent はクッキーバナーへの回答を保存します。
func (u *PreferencesUsecase) SetConsent(ctx context.Context, visitorID, answer string) (entity.Consent, error) {
	if visitorID == "" {
		return entity.ConsentUnset, ErrNoVisitor
	}
	consent, err := ParseConsent(answer)
	if err != nil {
		return entity.ConsentUnset, err
	}
	if err := u.repo.SaveConsent(ctx, visitorID, consent); err != nil {
		return entity.ConsentUnset, fmt.Errorf("save consent: %w", err)
	}
	return consent, nil
}

// ShowConsentBanner reports whether the visitor has not answered the banner yet.
// Storage failures hide the banner rather than break the page.
func (u *PreferencesUsecase) ShowConsentBanner(ctx context.Context, visitorID string) bool {
	p, err := u.Get(ctx, visitorID)
	if err != nil {
		return false
	}
	return p.Consent == entity.ConsentUnset
}

// ParseConsent accepts "accepted" or "declined", case-insensitively.
func ParseConsent(s string) (entity.Consent, error) {
	switch entity.Consent(strings.ToLower(strings.TrimSpace(s))) {
	case entity.ConsentAccepted:
		return entity.ConsentAccepted, nil
	case entity.ConsentDeclined:
		return entity.ConsentDeclined, nil
	}
	return entity.ConsentUnset, ErrInvalidConsent
}
