package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const IdentityKey contextKey = "identity"

// OptionalIdentity resolves a bearer key to a caller identity when one is
// presented. Anonymous callers pass through untouched: saved records are
// simply not attributed. An unknown key is treated the same as no key, never
// a 401, because nothing here requires authentication.
func OptionalIdentity(identities map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || len(identities) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimPrefix(auth, "Bearer ")
			apiKey = strings.TrimSpace(apiKey)
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Constant-time comparison to prevent timing attacks
			for key, identity := range identities {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					ctx := context.WithValue(r.Context(), IdentityKey, identity)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentityFromContext extracts the caller identity, empty when anonymous
func GetIdentityFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(IdentityKey).(string); ok {
		return id
	}
	return ""
}
