package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "project-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims["type"])

	c, err := ClaimsFromMap(claims)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "user-1", ProjectID: "project-1"}, c)
}

func TestDecode_WrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a", time.Hour).GenerateAccessToken("user-1", "project-1")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).JWTAuth().Decode(token)
	assert.Error(t, err)
}

func TestClaimsFromMap_Missing(t *testing.T) {
	_, err := ClaimsFromMap(map[string]interface{}{"user_id": "user-1"})
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
