package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "a@a.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 2*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@a.com", claims.Email)
	assert.Empty(t, claims.ID)
}

func TestJWTService_RefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret", 0, 0)
	assert.Equal(t, DefaultRefreshTokenExpiry, svc.RefreshExpiry())

	tokenID, token, err := svc.GenerateRefreshToken("user-1", "a@a.com")
	require.NoError(t, err)

	extracted, err := svc.ExtractTokenID(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, extracted)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("other-secret", time.Minute, time.Hour)
	verifier := NewJWTService("test-secret", time.Minute, time.Hour)

	token, _, err := issuer.GenerateAccessToken("user-1", "a@a.com")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)

	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.Secret())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExtractTokenIDRequiresJTI(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)
	access, _, err := svc.GenerateAccessToken("user-1", "a@a.com")
	require.NoError(t, err)

	_, err = svc.ExtractTokenID(access)
	assert.Error(t, err)
}

func TestJWTService_TokenStoreWithoutRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "jti", "user-1", "a@a.com", time.Hour))

	_, _, err := store.GetRefreshToken(ctx, "jti")
	assert.Error(t, err)
	assert.NoError(t, store.DeleteRefreshToken(ctx, "jti"))
}
