package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSigner_RoundTrip は発行したトークンから訪問者IDを取り出せることを検証します。
func TestSigner_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		visitorID  string
		expiration time.Duration
	}{
		{"uuid visitor", "4f7b6c8e-8f5c-4a61-9b59-0c1f2b7d9e10", time.Hour},
		{"long expiration", "visitor-1", 365 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewSigner("test-secret", tt.expiration)
			token, err := s.GenerateToken(tt.visitorID)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			id, err := s.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.visitorID, id)
		})
	}
}

// TestSigner_ParseToken_Invalid は改ざん・期限切れ・別アルゴリズムのトークンを拒否することを検証します。
func TestSigner_ParseToken_Invalid(t *testing.T) {
	t.Parallel()

	s := NewSigner("test-secret", time.Hour)
	valid, err := s.GenerateToken("visitor-1")
	require.NoError(t, err)

	expired := NewSigner("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateToken("visitor-1")
	require.NoError(t, err)

	otherSecret, err := NewSigner("other-secret", time.Hour).GenerateToken("visitor-1")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "visitor-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"tampered":     valid + "x",
		"expired":      expiredToken,
		"other secret": otherSecret,
		"alg none":     noneToken,
		"no subject":   noSubject,
	} {
		_, err := s.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}
