package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_dashboard/internal/feature/preferences/domain/entity"
	"crypto_dashboard/internal/feature/preferences/usecase"
)

// mockPreferenceRepository はPreferenceRepositoryインターフェースのモック実装です。
type mockPreferenceRepository struct {
	FindFunc           func(ctx context.Context, visitorID string) (entity.Preference, error)
	SaveLastSymbolFunc func(ctx context.Context, visitorID, symbol string) error
	SaveConsentFunc    func(ctx context.Context, visitorID string, consent entity.Consent) error
}

func (m *mockPreferenceRepository) Find(ctx context.Context, visitorID string) (entity.Preference, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, visitorID)
	}
	return entity.Preference{}, usecase.ErrPreferenceNotFound
}

func (m *mockPreferenceRepository) SaveLastSymbol(ctx context.Context, visitorID, symbol string) error {
	if m.SaveLastSymbolFunc != nil {
		return m.SaveLastSymbolFunc(ctx, visitorID, symbol)
	}
	return nil
}

func (m *mockPreferenceRepository) SaveConsent(ctx context.Context, visitorID string, consent entity.Consent) error {
	if m.SaveConsentFunc != nil {
		return m.SaveConsentFunc(ctx, visitorID, consent)
	}
	return nil
}

// TestPreferencesUsecase_Get は未保存の訪問者にゼロ値を返すことを検証します。
func TestPreferencesUsecase_Get(t *testing.T) {
	t.Parallel()

	uc := usecase.NewPreferencesUsecase(&mockPreferenceRepository{})
	p, err := uc.Get(context.Background(), "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", p.VisitorID)
	assert.Equal(t, entity.ConsentUnset, p.Consent)

	_, err = uc.Get(context.Background(), "")
	assert.ErrorIs(t, err, usecase.ErrNoVisitor)

	dbErr := errors.New("db down")
	_, err = usecase.NewPreferencesUsecase(&mockPreferenceRepository{
		FindFunc: func(ctx context.Context, visitorID string) (entity.Preference, error) {
			return entity.Preference{}, dbErr
		},
	}).Get(context.Background(), "v1")
	assert.ErrorIs(t, err, dbErr)
}

func TestPreferencesUsecase_RememberSymbol(t *testing.T) {
	t.Parallel()

	var saved string
	calls := 0
	uc := usecase.NewPreferencesUsecase(&mockPreferenceRepository{
		SaveLastSymbolFunc: func(ctx context.Context, visitorID, symbol string) error {
			calls++
			saved = symbol
			return nil
		},
	})

	require.NoError(t, uc.RememberSymbol(context.Background(), "v1", " ethusdt "))
	assert.Equal(t, "ETHUSDT", saved)

	require.NoError(t, uc.RememberSymbol(context.Background(), "v1", ""))
	assert.Equal(t, 1, calls, "empty symbol must not be stored")

	assert.ErrorIs(t, uc.RememberSymbol(context.Background(), "", "BTCUSDT"), usecase.ErrNoVisitor)
}

// TestPreferencesUsecase_SetConsent は回答の検証を行います。
func TestPreferencesUsecase_SetConsent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		answer  string
		want    entity.Consent
		wantErr error
	}{
		{name: "accepted", answer: "accepted", want: entity.ConsentAccepted},
		{name: "declined mixed case", answer: " Declined ", want: entity.ConsentDeclined},
		{name: "unknown answer", answer: "maybe", wantErr: usecase.ErrInvalidConsent},
		{name: "empty answer", answer: "", wantErr: usecase.ErrInvalidConsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stored entity.Consent
			uc := usecase.NewPreferencesUsecase(&mockPreferenceRepository{
				SaveConsentFunc: func(ctx context.Context, visitorID string, consent entity.Consent) error {
					stored = consent
					return nil
				},
			})
			got, err := uc.SetConsent(context.Background(), "v1", tt.answer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, entity.ConsentUnset, stored)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, stored)
		})
	}
}

func TestPreferencesUsecase_ShowConsentBanner(t *testing.T) {
	t.Parallel()

	answered := usecase.NewPreferencesUsecase(&mockPreferenceRepository{
		FindFunc: func(ctx context.Context, visitorID string) (entity.Preference, error) {
			return entity.Preference{VisitorID: visitorID, Consent: entity.ConsentDeclined}, nil
		},
	})
	assert.False(t, answered.ShowConsentBanner(context.Background(), "v1"))

	fresh := usecase.NewPreferencesUsecase(&mockPreferenceRepository{})
	assert.True(t, fresh.ShowConsentBanner(context.Background(), "v1"))
	assert.False(t, fresh.ShowConsentBanner(context.Background(), ""))
}
