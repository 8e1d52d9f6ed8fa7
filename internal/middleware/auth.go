package middleware

import (
	"net/http"
	"strings"

	"studyflow/internal/auth"
	"studyflow/internal/httputil"
)

// Auth verifies the bearer token on every request and injects the
// authenticated identity into the request context. Tokens are verified
// per request - nothing is cached here, so short-lived tokens work as
// long as the caller refreshes them.
//
// The health endpoint is exempt so load balancers don't need tokens.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing or invalid Authorization header")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithIdentity(r, claims.UserID(), claims.Email))
		})
	}
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
