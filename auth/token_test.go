package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/devconnector-go/config"
)

func newTestTokenService(secret string, duration time.Duration) *TokenService {
	return NewTokenService(config.AuthConfig{
		JWTSecret:     secret,
		TokenDuration: duration,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService("test-secret", time.Hour)

	token, err := svc.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestTokenExpired(t *testing.T) {
	svc := newTestTokenService("test-secret", -time.Minute)

	token, err := svc.Issue(42)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := newTestTokenService("secret-a", time.Hour)
	verifier := newTestTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenMalformed(t *testing.T) {
	svc := newTestTokenService("test-secret", time.Hour)

	for _, tokenString := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(tokenString)
		assert.Error(t, err, "token %q should not verify", tokenString)
	}
}

func TestTokenMissingUserClaim(t *testing.T) {
	svc := newTestTokenService("test-secret", time.Hour)

	token, err := svc.Issue(0)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}
