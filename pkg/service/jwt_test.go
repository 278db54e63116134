package service

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "office-docflow/pkg/errors"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, zap.NewNop())

	token, err := svc.GenerateToken("user-42", "invoice")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "invoice", claims.Branch)
}

func TestJWT_Expired(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute, zap.NewNop())

	token, err := svc.GenerateToken("user-42", "invoice")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := NewJWTService("one", time.Hour, zap.NewNop()).GenerateToken("u", "admin")
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour, zap.NewNop()).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWT_SubjectFallback(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "legacy-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := NewJWTService("secret", time.Hour, zap.NewNop()).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "legacy-user", claims.UserID)
	assert.Empty(t, claims.Branch)
}
