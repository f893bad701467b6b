package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("secret", "u1", "a@b.c", "seller", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "seller", claims.Role)
	assert.Equal(t, "u1", claims.Subject)

	_, err = ParseAccessToken(token, "other")
	assert.Error(t, err)
}

func TestPeekClaimsAndExpiry(t *testing.T) {
	token, err := GenerateAccessToken("secret", "u1", "a@b.c", "client", time.Minute)
	require.NoError(t, err)

	claims, err := PeekClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", claims.Email)

	assert.False(t, Expired(token, time.Now()))
	assert.True(t, Expired(token, time.Now().Add(2*time.Minute)))
}

func TestExpiredOpaqueToken(t *testing.T) {
	_, err := PeekClaims("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)
	assert.False(t, Expired("not-a-jwt", time.Now()))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPasswordWithParams("hunter22", SandboxParams)
	require.NoError(t, err)

	ok, err := VerifyPassword("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("x", []byte("plain"))
	assert.Error(t, err)
}
