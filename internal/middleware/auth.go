package middleware

import (
	"net/http"
	"strings"

	"classfolio/internal/auth"
	"classfolio/internal/httputil"
)

// publicPaths are reachable without a bearer token: the health probe and
// the supervisor-facing share-link resolver.
func isPublicPath(path string) bool {
	if path == "/health" {
		return true
	}
	return strings.HasPrefix(path, "/api/share/")
}

// AuthMiddleware authenticates requests using bearer tokens from the
// Authorization header and stores the caller's user ID in the request
// context. Public paths pass through unauthenticated, but a valid token
// on a public path still attaches the viewer identity so org-restricted
// share links can see who is asking.
func AuthMiddleware(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				if tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
					if claims, err := verifier.Verify(tokenString); err == nil {
						r = httputil.WithUserID(r, claims.GetUserID())
					}
				}
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}
