package middleware

import (
	"context"
	"net/http"

	"matchmaker_core/utils"

	"github.com/gorilla/mux"
)

type contextKey string

const userIDKey contextKey = "userID"

// TokenResolver maps a bearer token to a user id. An error means the
// credential is missing, unknown, or expired.
type TokenResolver interface {
	ResolveToken(token string) (string, error)
}

// Auth authenticates every request with a bearer token. An unusable
// credential yields the distinguished expiry code the clients key off of.
func Auth(tokens TokenResolver) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := utils.BearerToken(r)
			if token == "" {
				utils.WriteErrorMessage(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Missing credentials")
				return
			}

			userID, err := tokens.ResolveToken(token)
			if err != nil {
				utils.WriteErrorMessage(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Session expired")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
