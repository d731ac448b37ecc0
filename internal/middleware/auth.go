package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AuthMiddleware validates the Bearer token for API requests
type AuthMiddleware struct {
	authToken string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authToken string) *AuthMiddleware {
	return &AuthMiddleware{
		authToken: authToken,
	}
}

// Enabled reports whether a token is required
func (m *AuthMiddleware) Enabled() bool {
	return m.authToken != ""
}

// Authenticate validates the Bearer token in the request
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If no auth token is configured, skip authentication
		if m.authToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Unauthorized: Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.authToken)) != 1 {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
