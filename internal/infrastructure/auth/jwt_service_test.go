package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/SyedMHaroon/NamazBot/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "namazbot", 15*time.Minute)

	token, err := svc.GenerateAccessToken("operator", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, int64(15*60), claims.ExpiresAt-claims.IssuedAt)
}

func TestJWTService_ValidateAccessToken(t *testing.T) {
	issuedAt := time.Date(2025, 10, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		token         func(t *testing.T) string
		expectedError error
	}{
		{
			name: "expired",
			token: func(t *testing.T) string {
				old := &JWTServiceImpl{secretKey: []byte("secret"), issuer: "namazbot", accessTTL: time.Minute, now: func() time.Time { return issuedAt }}
				tok, err := old.GenerateAccessToken("operator", "admin")
				require.NoError(t, err)
				return tok
			},
			expectedError: domain.ErrTokenExpired,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				tok, err := NewJWTService("other", "namazbot", time.Hour).GenerateAccessToken("operator", "admin")
				require.NoError(t, err)
				return tok
			},
			expectedError: domain.ErrTokenInvalid,
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				tok, err := NewJWTService("secret", "someone-else", time.Hour).GenerateAccessToken("operator", "admin")
				require.NoError(t, err)
				return tok
			},
			expectedError: domain.ErrTokenInvalid,
		},
		{
			name: "missing role",
			token: func(t *testing.T) string {
				claims := jwt.MapClaims{"sub": "operator", "iss": "namazbot", "iat": time.Now().Unix(), "exp": time.Now().Add(time.Hour).Unix()}
				tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
				require.NoError(t, err)
				return tok
			},
			expectedError: domain.ErrTokenMalformed,
		},
		{
			name:          "garbage",
			token:         func(t *testing.T) string { return "not-a-jwt" },
			expectedError: domain.ErrTokenMalformed,
		},
	}

	svc := NewJWTService("secret", "namazbot", time.Hour)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token(t))
			assert.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestJWTService_GenerateRequiresSubjectAndRole(t *testing.T) {
	svc := NewJWTService("secret", "namazbot", time.Hour)
	_, err := svc.GenerateAccessToken("", "admin")
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
	_, err = svc.GenerateAccessToken("operator", "")
	assert.ErrorIs(t, err, domain.ErrTokenMalformed)
}
