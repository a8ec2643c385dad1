package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 42, "CUSTOMER", 15)
	require.NoError(t, err)

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "CUSTOMER", claims["role"])
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("one-secret", 1, "ADMIN", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}

func TestRefreshTokenHashStability(t *testing.T) {
	ref, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.Len(t, ref.Raw, 96) // 48 random bytes, hex encoded

	assert.Equal(t, HashRefreshRaw(ref.Raw), HashRefreshRaw(ref.Raw))

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, HashRefreshRaw(ref.Raw), HashRefreshRaw(other.Raw))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("sw0rdfish", 4)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "sw0rdfish"))
	assert.False(t, CheckPassword(hash, "swordfish"))
}

func TestSignatureRoundTrip(t *testing.T) {
	body := []byte(`{"reference":"abc","amount":25.00,"status":"SUCCESS"}`)
	sig := SignPayload("webhook-secret", body)

	assert.True(t, VerifySignature("webhook-secret", body, sig))
	assert.False(t, VerifySignature("wrong-secret", body, sig))
	assert.False(t, VerifySignature("webhook-secret", []byte(`tampered`), sig))
	assert.False(t, VerifySignature("webhook-secret", body, "not-hex"))
}
