package httpx

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/pigroup/pkg/slogx"
)

// BearerTokenMiddleware requires "Authorization: Bearer <token>" matching the
// shared token. An empty token disables the check.
func BearerTokenMiddleware(token string) Middleware {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte(token)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			got := []byte(strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")))

			if subtle.ConstantTimeCompare(got, want) != 1 {
				slogx.FromContext(r.Context()).Warn("bearer token rejected")
				writeBearerError(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
