package auth

import (
	"context"
	"net/http"

	"github.com/user/devconnector-go/apperror"
)

// TokenHeader is the request header carrying the bearer token on protected routes.
const TokenHeader = "x-auth-token"

// ContextKey is a type used for context keys to avoid collisions with other packages.
type ContextKey string

// UserIDKey is the key under which the authenticated user's id is stored in
// the request context.
const UserIDKey ContextKey = "userID"

// Middleware returns the authentication gate for protected routes. It reads
// the x-auth-token header, verifies it with the TokenService, and injects the
// user id into the request context. The middleware is stateless and
// per-request; there is no session store.
func Middleware(tokens *TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get(TokenHeader)
			if tokenString == "" {
				WriteError(w, r, apperror.NewAuthError("No token, authorization denied", nil))
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				// Malformed, tampered and expired tokens all get the same
				// fixed response.
				WriteError(w, r, apperror.NewAuthError("Token is not valid", nil))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext retrieves the authenticated user id set by Middleware.
// Returns 0 and false if no id is present.
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}
