package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/martkit/user-service/internal/crypto"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenCookie is the name of the session cookie.
const TokenCookie = "token"

// Identity is the authenticated caller attached to the request context.
// It reflects the claims at token issuance, not the current store state.
type Identity struct {
	UserID int64
	Name   string
}

// CookieAuth returns middleware that validates the session token cookie.
// Requests without a cookie, or with a tampered or expired token, are
// rejected with 401 and cause no state change.
func CookieAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookie)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "no token, unauthorized")
				return
			}

			claims, err := crypto.ValidateToken(cookie.Value, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			identity := Identity{UserID: claims.UserID, Name: claims.Name}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the authenticated identity from the request
// context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
