package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/pkg/kit"
)

type ctxKey string

const accountIDKey ctxKey = "account_id"

func AccountIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(accountIDKey).(string)
	return v, ok
}

// RequireAccount guards protected routes. It resolves the bearer token to
// an account id and stashes it in the request context; anything else is a
// 401 with the shared envelope.
func RequireAccount(tokens *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}
			if !strings.HasPrefix(authz, "Bearer ") {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			accountID, err := tokens.Verify(strings.TrimPrefix(authz, "Bearer "))
			if err != nil {
				// Expired and malformed tokens look identical to the
				// client; only the error value differs for logging.
				if errors.Is(err, ErrTokenMissing) {
					kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
					return
				}
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
