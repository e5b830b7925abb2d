package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTSignAndValidate(t *testing.T) {
	signer, err := NewJWTSigner(JWTConfig{Secret: testSecret, Expiry: 30 * time.Minute})
	require.NoError(t, err)

	token, err := signer.Sign(context.Background(), Claims{APIKey: "k1", Username: "alice"})
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "k1", claims.APIKey)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, DefaultIssuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTMissingSecret(t *testing.T) {
	_, err := NewJWTSigner(JWTConfig{})
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	signer, err := NewJWTSigner(JWTConfig{Secret: testSecret})
	require.NoError(t, err)

	token, err := signer.Sign(context.Background(), Claims{APIKey: "k1"})
	require.NoError(t, err)

	_, err = ValidateToken("another-secret", token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	signer, err := NewJWTSigner(JWTConfig{Secret: testSecret, Expiry: time.Minute})
	require.NoError(t, err)
	signer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := signer.Sign(context.Background(), Claims{APIKey: "k1"})
	require.NoError(t, err)

	_, err = ValidateToken(testSecret, token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateTokenRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{APIKey: "k1"})
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(testSecret, s)
	assert.Error(t, err)
}
