package middleware

import (
	"net/http"

	"github.com/dailylog/dailylog-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests whose context carries no verified access
// token. It runs behind jwtauth.Verifier, which parses the Authorization
// header and stores the outcome in the context.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.Unauthorized(w, "Authentication token is missing")
			return
		}

		// Refresh tokens carry type "refresh" and must not reach
		// protected endpoints.
		if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
