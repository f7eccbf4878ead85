// Package middleware provides HTTP middleware for the webhook endpoints.
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// Secret returns middleware that rejects requests whose header does not
// carry the expected shared secret. An empty want disables the check, for
// deployments where the transport cannot attach the header.
func Secret(header, want string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if want != "" {
				got := r.Header.Get(header)
				if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
