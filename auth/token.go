package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/devconnector-go/config"
)

// UserClaim identifies the token holder inside the claims payload.
type UserClaim struct {
	ID int `json:"id"`
}

// TokenClaims is the JWT payload: a nested user object plus the standard
// registered claims (exp, iat).
type TokenClaims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// Tokens are opaque to clients; there is no refresh mechanism, an expired
// token requires a fresh login.
type TokenService struct {
	secret   []byte
	duration time.Duration
}

// NewTokenService creates a TokenService from the auth configuration.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		duration: cfg.TokenDuration,
	}
}

// Issue produces a signed HS256 token for the given user, expiring
// TokenDuration from now.
func (t *TokenService) Issue(userID int) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		User: UserClaim{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning the user id it
// carries. It fails when the signature does not match, the token is
// malformed, or the embedded expiration has elapsed.
func (t *TokenService) Verify(tokenString string) (int, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("token is invalid")
	}
	if claims.User.ID == 0 {
		return 0, errors.New("token has no user id claim")
	}
	return claims.User.ID, nil
}
